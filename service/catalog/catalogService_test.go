package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
)

type repoMock struct {
	createAuthorFn func(ctx context.Context, a *model.Author) error
	getAuthorFn    func(ctx context.Context, id int64) (*model.Author, error)
	createGenreFn  func(ctx context.Context, g *model.Genre) error
	createBookFn   func(ctx context.Context, b *model.Book, genreIDs []int64) error
	updateBookFn   func(ctx context.Context, b *model.Book, genreIDs []int64) error
	deleteBookFn   func(ctx context.Context, id int64) error
}

func (m *repoMock) CreateAuthor(ctx context.Context, a *model.Author) error {
	return m.createAuthorFn(ctx, a)
}
func (m *repoMock) ListAuthors(ctx context.Context, search string) ([]model.Author, error) {
	return nil, nil
}
func (m *repoMock) GetAuthor(ctx context.Context, id int64) (*model.Author, error) {
	return m.getAuthorFn(ctx, id)
}
func (m *repoMock) UpdateAuthor(ctx context.Context, a *model.Author) error { return nil }
func (m *repoMock) DeleteAuthor(ctx context.Context, id int64) error        { return nil }

func (m *repoMock) CreateGenre(ctx context.Context, g *model.Genre) error {
	return m.createGenreFn(ctx, g)
}
func (m *repoMock) ListGenres(ctx context.Context) ([]model.Genre, error)       { return nil, nil }
func (m *repoMock) GetGenre(ctx context.Context, id int64) (*model.Genre, error) { return nil, nil }
func (m *repoMock) UpdateGenre(ctx context.Context, g *model.Genre) error       { return nil }
func (m *repoMock) DeleteGenre(ctx context.Context, id int64) error             { return nil }

func (m *repoMock) CreateBook(ctx context.Context, b *model.Book, genreIDs []int64) error {
	return m.createBookFn(ctx, b, genreIDs)
}
func (m *repoMock) ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	return nil, nil
}
func (m *repoMock) GetBook(ctx context.Context, id int64) (*model.Book, error) { return nil, nil }
func (m *repoMock) UpdateBook(ctx context.Context, b *model.Book, genreIDs []int64) error {
	return m.updateBookFn(ctx, b, genreIDs)
}
func (m *repoMock) DeleteBook(ctx context.Context, id int64) error { return m.deleteBookFn(ctx, id) }

func TestCreateBook_CopiesInvariant(t *testing.T) {
	s := catalogsvc.New(&repoMock{})

	b := &model.Book{Title: "x", AvailableCopies: 3, TotalCopies: 2}
	err := s.CreateBook(context.Background(), b, nil)
	if apperr.CodeOf(err) != catalogsvc.ErrBadCopies {
		t.Fatalf("got %v; want BAD_COPIES", err)
	}
}

func TestCreateBook_UnknownAuthor(t *testing.T) {
	m := &repoMock{
		createBookFn: func(ctx context.Context, b *model.Book, genreIDs []int64) error {
			return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		},
	}
	s := catalogsvc.New(m)

	b := &model.Book{Title: "x", Author: model.Author{ID: 999}, AvailableCopies: 1, TotalCopies: 1}
	err := s.CreateBook(context.Background(), b, nil)
	if apperr.CodeOf(err) != catalogsvc.ErrBadRef {
		t.Fatalf("got %v; want BAD_REFERENCE", err)
	}
}

func TestCreateGenre_DuplicateName(t *testing.T) {
	m := &repoMock{
		createGenreFn: func(ctx context.Context, g *model.Genre) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	s := catalogsvc.New(m)

	_, err := s.CreateGenre(context.Background(), "Fiction")
	if apperr.CodeOf(err) != catalogsvc.ErrNameTaken {
		t.Fatalf("got %v; want NAME_TAKEN", err)
	}
}

func TestGetAuthor_NotFound(t *testing.T) {
	m := &repoMock{
		getAuthorFn: func(ctx context.Context, id int64) (*model.Author, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := catalogsvc.New(m)

	_, err := s.GetAuthor(context.Background(), 404)
	if apperr.CodeOf(err) != catalogsvc.ErrNotFound {
		t.Fatalf("got %v; want NOT_FOUND", err)
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	m := &repoMock{
		deleteBookFn: func(ctx context.Context, id int64) error { return sql.ErrNoRows },
	}
	s := catalogsvc.New(m)

	err := s.DeleteBook(context.Background(), 404)
	if apperr.CodeOf(err) != catalogsvc.ErrNotFound {
		t.Fatalf("got %v; want NOT_FOUND", err)
	}
}

func TestCreateBook_Passthrough(t *testing.T) {
	m := &repoMock{
		createBookFn: func(ctx context.Context, b *model.Book, genreIDs []int64) error {
			b.ID = 42
			return nil
		},
	}
	s := catalogsvc.New(m)

	b := &model.Book{Title: "Clean Code", Author: model.Author{ID: 1}, AvailableCopies: 2, TotalCopies: 2}
	if err := s.CreateBook(context.Background(), b, []int64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != 42 {
		t.Fatalf("got id=%d; want 42", b.ID)
	}
}
