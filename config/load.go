package config

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads config from the environment, with a best-effort .env load
// for local development. Missing required values abort startup.
func Load() App {
	_ = godotenv.Load()

	var cfg App
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("config load failed", "err", err)
		panic("invalid config: " + err.Error())
	}
	return cfg
}
