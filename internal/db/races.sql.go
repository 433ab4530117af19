package db

import (
	"context"
	"time"
)

const createRace = `-- name: CreateRace :one
INSERT INTO races (season_id, name, track, race_date, status)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateRaceParams struct {
	SeasonID int64
	Name     string
	Track    string
	RaceDate time.Time
	Status   string
}

func (q *Queries) CreateRace(ctx context.Context, arg CreateRaceParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRace,
		arg.SeasonID,
		arg.Name,
		arg.Track,
		arg.RaceDate,
		arg.Status,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getRace = `-- name: GetRace :one
SELECT id, season_id, name, track, race_date, status, created_at, updated_at
FROM races
WHERE id = ?
`

func (q *Queries) GetRace(ctx context.Context, id int64) (Race, error) {
	row := q.db.QueryRowContext(ctx, getRace, id)
	var i Race
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.Name,
		&i.Track,
		&i.RaceDate,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSeasonRaces = `-- name: ListSeasonRaces :many
SELECT r.id, r.season_id, r.name, r.track, r.race_date, r.status, r.created_at, r.updated_at,
       COUNT(rr.id) AS participants,
       MAX(CASE WHEN rr.position = 1 AND rr.dnf = FALSE THEN d.name END) AS winner
FROM races r
LEFT JOIN race_results rr ON rr.race_id = r.id
LEFT JOIN drivers d ON d.id = rr.driver_id
WHERE r.season_id = ?
GROUP BY r.id
ORDER BY r.race_date ASC
`

type ListSeasonRacesRow struct {
	Race
	Participants int64
	Winner       *string
}

func (q *Queries) ListSeasonRaces(ctx context.Context, seasonID int64) ([]ListSeasonRacesRow, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonRaces, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSeasonRacesRow
	for rows.Next() {
		var i ListSeasonRacesRow
		if err := rows.Scan(
			&i.ID,
			&i.SeasonID,
			&i.Name,
			&i.Track,
			&i.RaceDate,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.Participants,
			&i.Winner,
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

const updateRaceStatus = `-- name: UpdateRaceStatus :execrows
UPDATE races
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateRaceStatus(ctx context.Context, status string, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRaceStatus, status, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
