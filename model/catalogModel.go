package model

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          Author  `json:"author"`
	Genres          []Genre `json:"genres"`
	ISBN            *string `json:"isbn,omitempty"`
	AvailableCopies int64   `json:"available_copies"`
	TotalCopies     int64   `json:"total_copies"`
}

// BookFilter narrows the book listing. Zero values mean "no constraint".
type BookFilter struct {
	AuthorID int64
	GenreID  int64
	Title    string
	Search   string // matches title, author name or ISBN
	OrderBy  string // "title" or "available_copies", "-" prefix for desc
}
