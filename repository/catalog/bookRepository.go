package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/RashmiRanjanSahu1997/library-management/model"
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

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

var pg = goqu.Dialect("postgres")

func (r *repo) CreateBook(ctx context.Context, b *model.Book, genreIDs []int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
INSERT INTO books (title, author_id, isbn, available_copies, total_copies)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	if err = tx.QueryRowContext(ctx, q,
		b.Title, b.Author.ID, b.ISBN, b.AvailableCopies, b.TotalCopies,
	).Scan(&b.ID); err != nil {
		return err
	}

	if err = setBookGenres(ctx, tx, b.ID, genreIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repo) UpdateBook(ctx context.Context, b *model.Book, genreIDs []int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
	UPDATE books
	SET title=$2, author_id=$3, isbn=$4, available_copies=$5, total_copies=$6
	WHERE id=$1`
	res, err := tx.ExecContext(ctx, q,
		b.ID, b.Title, b.Author.ID, b.ISBN, b.AvailableCopies, b.TotalCopies)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = sql.ErrNoRows
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM book_genres WHERE book_id=$1`, b.ID); err != nil {
		return err
	}
	if err = setBookGenres(ctx, tx, b.ID, genreIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func setBookGenres(ctx context.Context, tx *sql.Tx, bookID int64, genreIDs []int64) error {
	const ins = `INSERT INTO book_genres (book_id, genre_id) VALUES ($1,$2)`
	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx, ins, bookID, gid); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) DeleteBook(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
	SELECT b.id, b.title, b.isbn, b.available_copies, b.total_copies,
		a.id, a.name, a.bio
	FROM books b
	JOIN authors a ON a.id = b.author_id
	WHERE b.id=$1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.ISBN, &b.AvailableCopies, &b.TotalCopies,
		&b.Author.ID, &b.Author.Name, &b.Author.Bio)
	if err != nil {
		return nil, err
	}
	if err := r.loadGenres(ctx, []*model.Book{&b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBooks builds the filtered listing with goqu so optional filters,
// search and ordering compose without string surgery.
func (r *repo) ListBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	ds := pg.From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"),
			goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.isbn"),
			goqu.I("b.available_copies"), goqu.I("b.total_copies"),
			goqu.I("a.id").As("author_id"), goqu.I("a.name"), goqu.I("a.bio"),
		)

	if f.AuthorID > 0 {
		ds = ds.Where(goqu.I("b.author_id").Eq(f.AuthorID))
	}
	if f.GenreID > 0 {
		sub := pg.From("book_genres").
			Select("book_id").
			Where(goqu.C("genre_id").Eq(f.GenreID))
		ds = ds.Where(goqu.I("b.id").In(sub))
	}
	if f.Title != "" {
		ds = ds.Where(goqu.I("b.title").Eq(f.Title))
	}
	if f.Search != "" {
		pat := "%" + f.Search + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("b.title").ILike(pat),
			goqu.I("a.name").ILike(pat),
			goqu.I("b.isbn").ILike(pat),
		))
	}

	switch col := strings.TrimPrefix(f.OrderBy, "-"); col {
	case "title", "available_copies":
		ident := goqu.I("b." + col)
		if strings.HasPrefix(f.OrderBy, "-") {
			ds = ds.Order(ident.Desc())
		} else {
			ds = ds.Order(ident.Asc())
		}
	default:
		ds = ds.Order(goqu.I("b.id").Desc())
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.AvailableCopies, &b.TotalCopies,
			&b.Author.ID, &b.Author.Name, &b.Author.Bio); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Book, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadGenres(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) loadGenres(ctx context.Context, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, len(books))
	byID := make(map[int64]*model.Book, len(books))
	for i, b := range books {
		ids[i] = b.ID
		byID[b.ID] = b
		b.Genres = []model.Genre{}
	}

	const q = `
	SELECT bg.book_id, g.id, g.name
	FROM book_genres bg
	JOIN genres g ON g.id = bg.genre_id
	WHERE bg.book_id = ANY($1)
	ORDER BY g.id`
	rows, err := r.db.QueryContext(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var g model.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return err
		}
		if b, ok := byID[bookID]; ok {
			b.Genres = append(b.Genres, g)
		}
	}
	return rows.Err()
}
