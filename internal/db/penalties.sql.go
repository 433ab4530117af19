package db

import (
	"context"
)

const insertPenalty = `-- name: InsertPenalty :exec
INSERT INTO penalties (id, driver_id, race_id, type, value, reason, applied_by, points_deducted, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertPenalty(ctx context.Context, arg Penalty) error {
	_, err := q.db.ExecContext(ctx, insertPenalty,
		arg.ID,
		arg.DriverID,
		arg.RaceID,
		arg.Type,
		arg.Value,
		arg.Reason,
		arg.AppliedBy,
		arg.PointsDeducted,
		arg.CreatedAt,
	)
	return err
}

const getPenalty = `-- name: GetPenalty :one
SELECT id, driver_id, race_id, type, value, reason, applied_by, points_deducted, created_at
FROM penalties
WHERE id = ?
`

func (q *Queries) GetPenalty(ctx context.Context, id string) (Penalty, error) {
	row := q.db.QueryRowContext(ctx, getPenalty, id)
	var i Penalty
	err := row.Scan(
		&i.ID,
		&i.DriverID,
		&i.RaceID,
		&i.Type,
		&i.Value,
		&i.Reason,
		&i.AppliedBy,
		&i.PointsDeducted,
		&i.CreatedAt,
	)
	return i, err
}

const deletePenalty = `-- name: DeletePenalty :exec
DELETE FROM penalties
WHERE id = ?
`

func (q *Queries) DeletePenalty(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deletePenalty, id)
	return err
}

const listSeasonPenalties = `-- name: ListSeasonPenalties :many
SELECT p.id, p.driver_id, p.race_id, p.type, p.value, p.reason, p.applied_by, p.points_deducted, p.created_at
FROM penalties p
JOIN races r ON r.id = p.race_id
WHERE r.season_id = ?
ORDER BY p.created_at DESC
`

func (q *Queries) ListSeasonPenalties(ctx context.Context, seasonID int64) ([]Penalty, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonPenalties, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Penalty
	for rows.Next() {
		var i Penalty
		if err := rows.Scan(
			&i.ID,
			&i.DriverID,
			&i.RaceID,
			&i.Type,
			&i.Value,
			&i.Reason,
			&i.AppliedBy,
			&i.PointsDeducted,
			&i.CreatedAt,
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
