package db

import (
	"context"
)

const createSeason = `-- name: CreateSeason :one
INSERT INTO seasons (name, year, is_active)
VALUES (?, ?, ?)
RETURNING id, name, year, is_active, created_at, updated_at
`

type CreateSeasonParams struct {
	Name     string
	Year     int64
	IsActive bool
}

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (Season, error) {
	row := q.db.QueryRowContext(ctx, createSeason, arg.Name, arg.Year, arg.IsActive)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Year,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSeason = `-- name: GetSeason :one
SELECT id, name, year, is_active, created_at, updated_at
FROM seasons
WHERE id = ?
`

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := q.db.QueryRowContext(ctx, getSeason, id)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Year,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getActiveSeason = `-- name: GetActiveSeason :one
SELECT id, name, year, is_active, created_at, updated_at
FROM seasons
WHERE is_active = TRUE
ORDER BY year DESC
LIMIT 1
`

func (q *Queries) GetActiveSeason(ctx context.Context) (Season, error) {
	row := q.db.QueryRowContext(ctx, getActiveSeason)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Year,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSeasons = `-- name: ListSeasons :many
SELECT id, name, year, is_active, created_at, updated_at
FROM seasons
ORDER BY year DESC
`

func (q *Queries) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx, listSeasons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Season
	for rows.Next() {
		var i Season
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Year,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
