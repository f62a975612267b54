package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

const (
	ErrNotFound  apperr.Code = "NOT_FOUND"
	ErrNameTaken apperr.Code = "NAME_TAKEN"
	ErrBadCopies apperr.Code = "BAD_COPIES"
	ErrBadRef    apperr.Code = "BAD_REFERENCE"
)

type Repo interface {
	CreateAuthor(ctx context.Context, a *model.Author) error
	ListAuthors(ctx context.Context, search string) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int64) (*model.Author, error)
	UpdateAuthor(ctx context.Context, a *model.Author) error
	DeleteAuthor(ctx context.Context, id int64) error

	CreateGenre(ctx context.Context, g *model.Genre) error
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	UpdateGenre(ctx context.Context, g *model.Genre) error
	DeleteGenre(ctx context.Context, id int64) error

	CreateBook(ctx context.Context, b *model.Book, genreIDs []int64) error
	ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	UpdateBook(ctx context.Context, b *model.Book, genreIDs []int64) error
	DeleteBook(ctx context.Context, id int64) error
}

type Service interface {
	CreateAuthor(ctx context.Context, name string, bio *string) (*model.Author, error)
	ListAuthors(ctx context.Context, search string) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int64) (*model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, name string, bio *string) (*model.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error

	CreateGenre(ctx context.Context, name string) (*model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, name string) (*model.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error

	CreateBook(ctx context.Context, b *model.Book, genreIDs []int64) error
	ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	UpdateBook(ctx context.Context, b *model.Book, genreIDs []int64) error
	DeleteBook(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) CreateAuthor(ctx context.Context, name string, bio *string) (*model.Author, error) {
	a := &model.Author{Name: name, Bio: bio}
	if err := s.r.CreateAuthor(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) ListAuthors(ctx context.Context, search string) ([]model.Author, error) {
	return s.r.ListAuthors(ctx, search)
}

func (s *service) GetAuthor(ctx context.Context, id int64) (*model.Author, error) {
	a, err := s.r.GetAuthor(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (s *service) UpdateAuthor(ctx context.Context, id int64, name string, bio *string) (*model.Author, error) {
	a := &model.Author{ID: id, Name: name, Bio: bio}
	if err := s.r.UpdateAuthor(ctx, a); err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (s *service) DeleteAuthor(ctx context.Context, id int64) error {
	return mapNotFound(s.r.DeleteAuthor(ctx, id))
}

func (s *service) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	g := &model.Genre{Name: name}
	if err := s.r.CreateGenre(ctx, g); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(ErrNameTaken)
		}
		return nil, err
	}
	return g, nil
}

func (s *service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.r.ListGenres(ctx)
}

func (s *service) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	g, err := s.r.GetGenre(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return g, nil
}

func (s *service) UpdateGenre(ctx context.Context, id int64, name string) (*model.Genre, error) {
	g := &model.Genre{ID: id, Name: name}
	if err := s.r.UpdateGenre(ctx, g); err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(ErrNameTaken)
		}
		return nil, mapNotFound(err)
	}
	return g, nil
}

func (s *service) DeleteGenre(ctx context.Context, id int64) error {
	return mapNotFound(s.r.DeleteGenre(ctx, id))
}

func (s *service) CreateBook(ctx context.Context, b *model.Book, genreIDs []int64) error {
	if b.AvailableCopies < 0 || b.TotalCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return apperr.New(ErrBadCopies)
	}
	if err := s.r.CreateBook(ctx, b, genreIDs); err != nil {
		if isForeignKeyViolation(err) {
			return apperr.New(ErrBadRef)
		}
		return err
	}
	return nil
}

func (s *service) ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	return s.r.ListBooks(ctx, f)
}

func (s *service) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.GetBook(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (s *service) UpdateBook(ctx context.Context, b *model.Book, genreIDs []int64) error {
	if b.AvailableCopies < 0 || b.TotalCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return apperr.New(ErrBadCopies)
	}
	if err := s.r.UpdateBook(ctx, b, genreIDs); err != nil {
		if isForeignKeyViolation(err) {
			return apperr.New(ErrBadRef)
		}
		return mapNotFound(err)
	}
	return nil
}

func (s *service) DeleteBook(ctx context.Context, id int64) error {
	return mapNotFound(s.r.DeleteBook(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(ErrNotFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
