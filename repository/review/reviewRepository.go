package review

import (
	"context"
	"database/sql"

	"github.com/RashmiRanjanSahu1997/library-management/model"
)

type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, rv *model.BookReview) error
	ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id=$1)`, bookID,
	).Scan(&ok)
	return ok, err
}

func (r *repo) Insert(ctx context.Context, rv *model.BookReview) error {
	const q = `
		INSERT INTO book_reviews (user_id, book_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at,
			(SELECT email FROM users WHERE id = $1)`
	return r.db.QueryRowContext(ctx, q,
		rv.UserID, rv.BookID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UserEmail)
}

func (r *repo) ListByBook(ctx context.Context, bookID int64) ([]model.BookReview, error) {
	const q = `
		SELECT rv.id, rv.user_id, u.email, rv.book_id, rv.rating, rv.comment, rv.created_at
		FROM book_reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.book_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookReview
	for rows.Next() {
		var rv model.BookReview
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.UserEmail, &rv.BookID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
