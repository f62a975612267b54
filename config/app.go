package config

type App struct {
	Port        string `env:"APP_PORT" env-default:"8080"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	JWTSecret   string `env:"JWT_SECRET" env-default:"local_dev_secret"`
	Env         string `env:"APP_ENV" env-default:"dev"`

	// Borrow creation throttle: BorrowDailyLimit requests per user
	// over a rolling 24h window.
	BorrowDailyLimit int `env:"BORROW_DAILY_LIMIT" env-default:"5"`

	SMTPAddr     string `env:"SMTP_ADDR" env-default:"localhost:25"`
	MailFrom     string `env:"MAIL_FROM" env-default:"no-reply@example.com"`
	MailDisabled bool   `env:"MAIL_DISABLED" env-default:"false"`
}
