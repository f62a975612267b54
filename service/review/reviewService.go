package review

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

const (
	ErrBookNotFound apperr.Code = "BOOK_NOT_FOUND"
	ErrDuplicate    apperr.Code = "DUPLICATE_REVIEW"
	ErrBadRating    apperr.Code = "BAD_RATING"
)

type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, rv *model.BookReview) error
	ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error)
}

type Service interface {
	// Add records one review per (user, book); duplicates fail.
	Add(ctx context.Context, userID, bookID int64, rating int16, comment *string) (*model.BookReview, error)

	// ListByBook returns reviews for a book, newest first.
	ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, userID, bookID int64, rating int16, comment *string) (*model.BookReview, error) {
	if rating <= 0 {
		return nil, apperr.New(ErrBadRating)
	}

	exists, err := s.r.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(ErrBookNotFound)
	}

	rv := &model.BookReview{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.r.Insert(ctx, rv); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, apperr.New(ErrDuplicate)
		}
		return nil, err
	}
	return rv, nil
}

func (s *service) ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error) {
	exists, err := s.r.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(ErrBookNotFound)
	}
	return s.r.ListByBook(ctx, bookID)
}
