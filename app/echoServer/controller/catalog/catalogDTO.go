package catalog

type AuthorReq struct {
	Name string  `json:"name" validate:"required"`
	Bio  *string `json:"bio"`
}

type GenreReq struct {
	Name string `json:"name" validate:"required"`
}

type BookReq struct {
	Title           string  `json:"title" validate:"required"`
	AuthorID        int64   `json:"author_id" validate:"required,gt=0"`
	GenreIDs        []int64 `json:"genre_ids" validate:"omitempty,dive,gt=0"`
	ISBN            *string `json:"isbn"`
	AvailableCopies *int64  `json:"available_copies" validate:"omitempty,gte=0"`
	TotalCopies     *int64  `json:"total_copies" validate:"omitempty,gte=0"`
}
