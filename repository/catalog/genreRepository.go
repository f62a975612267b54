package catalog

import (
	"context"
	"database/sql"

	"github.com/RashmiRanjanSahu1997/library-management/model"
)

func (r *repo) CreateGenre(ctx context.Context, g *model.Genre) error {
	const q = `
INSERT INTO genres (name)
VALUES ($1)
RETURNING id`
	return r.db.QueryRowContext(ctx, q, g.Name).Scan(&g.ID)
}

func (r *repo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repo) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	var g model.Genre
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM genres WHERE id=$1`, id,
	).Scan(&g.ID, &g.Name)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repo) UpdateGenre(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE genres SET name=$2 WHERE id=$1`, g.ID, g.Name)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) DeleteGenre(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
