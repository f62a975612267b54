package borrow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RashmiRanjanSahu1997/library-management/model"
)

// ErrNoCopies reports a conditional decrement that matched no row: the
// book has no available copies left.
var ErrNoCopies = errors.New("no available copies")

// LedgerRow is a borrow request joined with its book for listings.
type LedgerRow struct {
	ID          int64      `json:"id"`
	BookID      int64      `json:"book_id"`
	BookTitle   string     `json:"book_title"`
	UserID      int64      `json:"user_id"`
	UserEmail   string     `json:"user_email"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
}

type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, bookID, userID int64) (*model.BorrowRequest, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.BorrowStatus) error
	SetApprovedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error
	SetReturnedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error

	ListAll(ctx context.Context) ([]LedgerRow, error)
	ListByUser(ctx context.Context, userID int64) ([]LedgerRow, error)
	RequestContact(ctx context.Context, id int64) (email, bookTitle string, err error)
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

func (r *repo) Insert(ctx context.Context, bookID, userID int64) (*model.BorrowRequest, error) {
	const q = `
		INSERT INTO borrow_requests (book_id, user_id, status)
		VALUES ($1, $2, 'PENDING')
		RETURNING id, status, requested_at`
	br := &model.BorrowRequest{BookID: bookID, UserID: userID}
	if err := r.db.QueryRowContext(ctx, q, bookID, userID).
		Scan(&br.ID, &br.Status, &br.RequestedAt); err != nil {
		return nil, err
	}
	return br, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRequest, error) {
	const q = `
		SELECT id, book_id, user_id, status, requested_at, approved_at, returned_at
		FROM borrow_requests
		WHERE id = $1
		FOR UPDATE`
	br := &model.BorrowRequest{}
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&br.ID, &br.BookID, &br.UserID, &br.Status,
		&br.RequestedAt, &br.ApprovedAt, &br.ReturnedAt)
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.BorrowStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE borrow_requests SET status=$2 WHERE id=$1`, id, status)
	return err
}

func (r *repo) SetApprovedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE borrow_requests SET approved_at=$2 WHERE id=$1`, id, at)
	return err
}

func (r *repo) SetReturnedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE borrow_requests SET returned_at=$2 WHERE id=$1`, id, at)
	return err
}

func (r *repo) DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	// Guard: only decrement while copies remain, so two concurrent
	// approvals cannot both take the last copy.
	const q = `
			UPDATE books
			SET available_copies = available_copies - 1
			WHERE id = $1
			AND available_copies > 0`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNoCopies
	}
	return nil
}

func (r *repo) IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
			UPDATE books
			SET available_copies = LEAST(total_copies, available_copies + 1)
			WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}

const ledgerSelect = `
			SELECT
			br.id           AS id,
			br.book_id      AS book_id,
			b.title         AS book_title,
			br.user_id      AS user_id,
			u.email         AS user_email,
			br.status       AS status,
			br.requested_at AS requested_at,
			br.approved_at  AS approved_at,
			br.returned_at  AS returned_at
			FROM borrow_requests br
			JOIN books b ON b.id = br.book_id
			JOIN users u ON u.id = br.user_id`

func (r *repo) ListAll(ctx context.Context) ([]LedgerRow, error) {
	return r.list(ctx, ledgerSelect+`
			ORDER BY br.requested_at DESC, br.id DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]LedgerRow, error) {
	return r.list(ctx, ledgerSelect+`
			WHERE br.user_id = $1
			ORDER BY br.requested_at DESC, br.id DESC`, userID)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]LedgerRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var l LedgerRow
		if err := rows.Scan(
			&l.ID, &l.BookID, &l.BookTitle, &l.UserID, &l.UserEmail,
			&l.Status, &l.RequestedAt, &l.ApprovedAt, &l.ReturnedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) RequestContact(ctx context.Context, id int64) (string, string, error) {
	const q = `
		SELECT u.email, b.title
		FROM borrow_requests br
		JOIN users u ON u.id = br.user_id
		JOIN books b ON b.id = br.book_id
		WHERE br.id = $1`
	var email, title string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&email, &title)
	return email, title, err
}
