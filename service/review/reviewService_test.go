package review

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

type repoMock struct {
	bookExistsFn func(ctx context.Context, bookID int64) (bool, error)
	insertFn     func(ctx context.Context, rv *model.BookReview) error
	listFn       func(ctx context.Context, bookID int64) ([]model.BookReview, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) BookExists(ctx context.Context, bookID int64) (bool, error) {
	if m.bookExistsFn == nil {
		return true, nil
	}
	return m.bookExistsFn(ctx, bookID)
}

func (m *repoMock) Insert(ctx context.Context, rv *model.BookReview) error {
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, rv)
}

func (m *repoMock) ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, bookID)
}

func TestAdd_Success(t *testing.T) {
	m := &repoMock{
		insertFn: func(ctx context.Context, rv *model.BookReview) error {
			rv.ID = 5
			rv.UserEmail = "user@example.com"
			return nil
		},
	}
	s := New(m)

	comment := "great read"
	rv, err := s.Add(context.Background(), 10, 1, 4, &comment)
	require.NoError(t, err)
	require.Equal(t, int64(5), rv.ID)
	require.Equal(t, int16(4), rv.Rating)
	require.Equal(t, "user@example.com", rv.UserEmail)
}

func TestAdd_BadRating(t *testing.T) {
	s := New(&repoMock{})

	_, err := s.Add(context.Background(), 10, 1, 0, nil)
	require.Error(t, err)
	require.Equal(t, ErrBadRating, apperr.CodeOf(err))
}

func TestAdd_BookMissing(t *testing.T) {
	m := &repoMock{
		bookExistsFn: func(ctx context.Context, bookID int64) (bool, error) { return false, nil },
	}
	s := New(m)

	_, err := s.Add(context.Background(), 10, 999, 3, nil)
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, apperr.CodeOf(err))
}

func TestAdd_DuplicatePerUserAndBook(t *testing.T) {
	m := &repoMock{
		insertFn: func(ctx context.Context, rv *model.BookReview) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "book_reviews_user_book_key"}
		},
	}
	s := New(m)

	_, err := s.Add(context.Background(), 10, 1, 5, nil)
	require.Error(t, err)
	require.Equal(t, ErrDuplicate, apperr.CodeOf(err))
}

func TestListByBook(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, bookID int64) ([]model.BookReview, error) {
			return []model.BookReview{{ID: 2}, {ID: 1}}, nil
		},
	}
	s := New(m)

	rows, err := s.ListByBook(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestListByBook_BookMissing(t *testing.T) {
	m := &repoMock{
		bookExistsFn: func(ctx context.Context, bookID int64) (bool, error) { return false, nil },
	}
	s := New(m)

	_, err := s.ListByBook(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, apperr.CodeOf(err))
}
