package catalog

import (
	"context"
	"database/sql"

	"github.com/RashmiRanjanSahu1997/library-management/model"
)

func (r *repo) CreateAuthor(ctx context.Context, a *model.Author) error {
	const q = `
INSERT INTO authors (name, bio)
VALUES ($1,$2)
RETURNING id`
	return r.db.QueryRowContext(ctx, q, a.Name, a.Bio).Scan(&a.ID)
}

func (r *repo) ListAuthors(ctx context.Context, search string) ([]model.Author, error) {
	const q = `
	SELECT id, name, bio
	FROM authors
	WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
	ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) GetAuthor(ctx context.Context, id int64) (*model.Author, error) {
	var a model.Author
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, bio FROM authors WHERE id=$1`, id,
	).Scan(&a.ID, &a.Name, &a.Bio)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) UpdateAuthor(ctx context.Context, a *model.Author) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE authors SET name=$2, bio=$3 WHERE id=$1`,
		a.ID, a.Name, a.Bio)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) DeleteAuthor(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
