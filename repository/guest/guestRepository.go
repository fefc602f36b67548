package guestrepo

import (
	"context"
	"database/sql"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
)

type Repo interface {
	// Upsert inserts the guest or, when the id number is already on file,
	// refreshes the profile fields of the existing row. The guest's ID is
	// filled in either way.
	Upsert(ctx context.Context, tx *sql.Tx, g *model.Guest) error

	GetByID(ctx context.Context, id int64) (*model.Guest, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Upsert(ctx context.Context, tx *sql.Tx, g *model.Guest) error {
	const q = `
		INSERT INTO guests (first_name, last_name, email, phone, id_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id_number) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = now()
		RETURNING id, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		g.FirstName, g.LastName, g.Email, g.Phone, g.IDNumber,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Guest, error) {
	const q = `
		SELECT id, first_name, last_name, email, phone, id_number, created_at, updated_at
		FROM guests
		WHERE id = $1`
	var g model.Guest
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.IDNumber,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repo) List(ctx context.Context, search string, limit, offset int) ([]model.Guest, error) {
	const q = `
		SELECT id, first_name, last_name, email, phone, id_number, created_at, updated_at
		FROM guests
		WHERE $1 = ''
			OR first_name ILIKE '%' || $1 || '%'
			OR last_name ILIKE '%' || $1 || '%'
			OR id_number ILIKE '%' || $1 || '%'
		ORDER BY last_name, first_name, id
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(
			&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.IDNumber,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
