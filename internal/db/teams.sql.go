package db

import (
	"context"
)

const createTeam = `-- name: CreateTeam :one
INSERT INTO teams (name)
VALUES (?)
RETURNING id, name, created_at, updated_at
`

func (q *Queries) CreateTeam(ctx context.Context, name string) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam, name)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTeamMembers = `-- name: ListTeamMembers :many
SELECT t.id, t.name, d.id AS driver_id
FROM teams t
LEFT JOIN drivers d ON d.team_id = t.id
ORDER BY t.id, d.id
`

type ListTeamMembersRow struct {
	ID       int64
	Name     string
	DriverID *int64
}

func (q *Queries) ListTeamMembers(ctx context.Context) ([]ListTeamMembersRow, error) {
	rows, err := q.db.QueryContext(ctx, listTeamMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTeamMembersRow
	for rows.Next() {
		var i ListTeamMembersRow
		if err := rows.Scan(&i.ID, &i.Name, &i.DriverID); err != nil {
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

const createDriver = `-- name: CreateDriver :one
INSERT INTO drivers (name, driver_number, team_id)
VALUES (?, ?, ?)
RETURNING id
`

type CreateDriverParams struct {
	Name         string
	DriverNumber int64
	TeamID       *int64
}

func (q *Queries) CreateDriver(ctx context.Context, arg CreateDriverParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createDriver, arg.Name, arg.DriverNumber, arg.TeamID)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listDrivers = `-- name: ListDrivers :many
SELECT d.id, d.name, d.driver_number, d.team_id, t.name AS team_name, d.created_at, d.updated_at
FROM drivers d
LEFT JOIN teams t ON t.id = d.team_id
ORDER BY d.id
`

func (q *Queries) ListDrivers(ctx context.Context) ([]Driver, error) {
	rows, err := q.db.QueryContext(ctx, listDrivers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Driver
	for rows.Next() {
		var i Driver
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.DriverNumber,
			&i.TeamID,
			&i.TeamName,
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

const updateDriverTeam = `-- name: UpdateDriverTeam :execrows
UPDATE drivers
SET team_id = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateDriverTeam(ctx context.Context, teamID *int64, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateDriverTeam, teamID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
