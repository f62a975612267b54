package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/auth"
	borrowctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/borrow"
	catalogctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/catalog"
	reviewctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/review"
)

type C struct {
	Auth    *authctrl.Controller
	Catalog *catalogctrl.Controller
	Borrow  *borrowctrl.Controller
	Review  *reviewctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/register", c.Auth.Register)
	pub.POST("/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	}))
	auth.Use(UserContext())

	// Catalog: reads for everyone authenticated, writes librarian-only
	auth.GET("/authors", c.Catalog.ListAuthors)
	auth.POST("/authors", c.Catalog.CreateAuthor)
	auth.GET("/authors/:id", c.Catalog.GetAuthor)
	auth.PUT("/authors/:id", c.Catalog.UpdateAuthor)
	auth.PATCH("/authors/:id", c.Catalog.UpdateAuthor)
	auth.DELETE("/authors/:id", c.Catalog.DeleteAuthor)

	auth.GET("/genres", c.Catalog.ListGenres)
	auth.POST("/genres", c.Catalog.CreateGenre)
	auth.GET("/genres/:id", c.Catalog.GetGenre)
	auth.PUT("/genres/:id", c.Catalog.UpdateGenre)
	auth.PATCH("/genres/:id", c.Catalog.UpdateGenre)
	auth.DELETE("/genres/:id", c.Catalog.DeleteGenre)

	auth.GET("/books", c.Catalog.ListBooks)
	auth.POST("/books", c.Catalog.CreateBook)
	auth.GET("/books/:id", c.Catalog.GetBook)
	auth.PUT("/books/:id", c.Catalog.UpdateBook)
	auth.PATCH("/books/:id", c.Catalog.UpdateBook)
	auth.DELETE("/books/:id", c.Catalog.DeleteBook)

	// Reviews
	auth.GET("/books/:id/reviews", c.Review.ListByBook)
	auth.POST("/books/:id/add_review", c.Review.Add)

	// Borrow workflow
	auth.GET("/borrow", c.Borrow.List)
	auth.POST("/borrow", c.Borrow.Create)
	auth.PATCH("/borrow/:id/approve", c.Borrow.Approve)
	auth.PATCH("/borrow/:id/reject", c.Borrow.Reject)
	auth.PATCH("/borrow/:id/return_book", c.Borrow.Return)
}
