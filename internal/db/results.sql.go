package db

import (
	"context"
)

const listSeasonResults = `-- name: ListSeasonResults :many
SELECT rr.id, rr.race_id, rr.driver_id, rr.position, rr.points, rr.pole_position, rr.fastest_lap,
       rr.dnf, rr.dnf_reason, rr.time_penalty, rr.points_penalty, rr.attendance,
       rr.created_at, rr.updated_at,
       r.season_id AS race_season_id, r.status AS race_status,
       d.name AS driver_name, d.driver_number, d.team_id, t.name AS team_name
FROM race_results rr
JOIN races r ON r.id = rr.race_id
LEFT JOIN drivers d ON d.id = rr.driver_id
LEFT JOIN teams t ON t.id = d.team_id
WHERE r.season_id = ?
ORDER BY r.race_date, rr.race_id, rr.driver_id
`

type ListSeasonResultsRow struct {
	RaceResult
	RaceSeasonID int64
	RaceStatus   string
	DriverName   *string
	DriverNumber *int64
	TeamID       *int64
	TeamName     *string
}

func (q *Queries) ListSeasonResults(ctx context.Context, seasonID int64) ([]ListSeasonResultsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonResults, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSeasonResultsRow
	for rows.Next() {
		var i ListSeasonResultsRow
		if err := rows.Scan(
			&i.ID,
			&i.RaceID,
			&i.DriverID,
			&i.Position,
			&i.Points,
			&i.PolePosition,
			&i.FastestLap,
			&i.Dnf,
			&i.DnfReason,
			&i.TimePenalty,
			&i.PointsPenalty,
			&i.Attendance,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.RaceSeasonID,
			&i.RaceStatus,
			&i.DriverName,
			&i.DriverNumber,
			&i.TeamID,
			&i.TeamName,
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

const listOrphanResults = `-- name: ListOrphanResults :many
SELECT rr.id, rr.race_id, rr.driver_id, rr.position, rr.points, rr.pole_position, rr.fastest_lap,
       rr.dnf, rr.dnf_reason, rr.time_penalty, rr.points_penalty, rr.attendance,
       rr.created_at, rr.updated_at,
       d.name AS driver_name, d.driver_number, d.team_id, t.name AS team_name
FROM race_results rr
LEFT JOIN races r ON r.id = rr.race_id
LEFT JOIN drivers d ON d.id = rr.driver_id
LEFT JOIN teams t ON t.id = d.team_id
WHERE r.id IS NULL
ORDER BY rr.race_id, rr.driver_id
`

type ListOrphanResultsRow struct {
	RaceResult
	DriverName   *string
	DriverNumber *int64
	TeamID       *int64
	TeamName     *string
}

func (q *Queries) ListOrphanResults(ctx context.Context) ([]ListOrphanResultsRow, error) {
	rows, err := q.db.QueryContext(ctx, listOrphanResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrphanResultsRow
	for rows.Next() {
		var i ListOrphanResultsRow
		if err := rows.Scan(
			&i.ID,
			&i.RaceID,
			&i.DriverID,
			&i.Position,
			&i.Points,
			&i.PolePosition,
			&i.FastestLap,
			&i.Dnf,
			&i.DnfReason,
			&i.TimePenalty,
			&i.PointsPenalty,
			&i.Attendance,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DriverName,
			&i.DriverNumber,
			&i.TeamID,
			&i.TeamName,
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

const listRaceResults = `-- name: ListRaceResults :many
SELECT id, race_id, driver_id, position, points, pole_position, fastest_lap,
       dnf, dnf_reason, time_penalty, points_penalty, attendance, created_at, updated_at
FROM race_results
WHERE race_id = ?
ORDER BY CASE WHEN position IS NULL THEN 1 ELSE 0 END, position, created_at
`

func (q *Queries) ListRaceResults(ctx context.Context, raceID int64) ([]RaceResult, error) {
	rows, err := q.db.QueryContext(ctx, listRaceResults, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RaceResult
	for rows.Next() {
		var i RaceResult
		if err := rows.Scan(
			&i.ID,
			&i.RaceID,
			&i.DriverID,
			&i.Position,
			&i.Points,
			&i.PolePosition,
			&i.FastestLap,
			&i.Dnf,
			&i.DnfReason,
			&i.TimePenalty,
			&i.PointsPenalty,
			&i.Attendance,
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

const deleteRaceResults = `-- name: DeleteRaceResults :exec
DELETE FROM race_results
WHERE race_id = ?
`

func (q *Queries) DeleteRaceResults(ctx context.Context, raceID int64) error {
	_, err := q.db.ExecContext(ctx, deleteRaceResults, raceID)
	return err
}

const insertRaceResult = `-- name: InsertRaceResult :exec
INSERT INTO race_results (
    race_id, driver_id, position, points, pole_position, fastest_lap,
    dnf, dnf_reason, time_penalty, points_penalty, attendance
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertRaceResultParams struct {
	RaceID        int64
	DriverID      int64
	Position      *int64
	Points        int64
	PolePosition  bool
	FastestLap    bool
	Dnf           bool
	DnfReason     string
	TimePenalty   int64
	PointsPenalty int64
	Attendance    string
}

func (q *Queries) InsertRaceResult(ctx context.Context, arg InsertRaceResultParams) error {
	_, err := q.db.ExecContext(ctx, insertRaceResult,
		arg.RaceID,
		arg.DriverID,
		arg.Position,
		arg.Points,
		arg.PolePosition,
		arg.FastestLap,
		arg.Dnf,
		arg.DnfReason,
		arg.TimePenalty,
		arg.PointsPenalty,
		arg.Attendance,
	)
	return err
}

const getResultPoints = `-- name: GetResultPoints :one
SELECT points
FROM race_results
WHERE race_id = ? AND driver_id = ?
`

func (q *Queries) GetResultPoints(ctx context.Context, raceID, driverID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, getResultPoints, raceID, driverID)
	var points int64
	err := row.Scan(&points)
	return points, err
}

const deductResultPoints = `-- name: DeductResultPoints :exec
UPDATE race_results
SET points_penalty = points_penalty + ?1,
    points = points - ?2,
    updated_at = CURRENT_TIMESTAMP
WHERE race_id = ?3 AND driver_id = ?4
`

type AdjustResultPointsParams struct {
	PenaltyValue int64
	Points       int64
	RaceID       int64
	DriverID     int64
}

func (q *Queries) DeductResultPoints(ctx context.Context, arg AdjustResultPointsParams) error {
	_, err := q.db.ExecContext(ctx, deductResultPoints, arg.PenaltyValue, arg.Points, arg.RaceID, arg.DriverID)
	return err
}

const restoreResultPoints = `-- name: RestoreResultPoints :exec
UPDATE race_results
SET points_penalty = MAX(0, points_penalty - ?1),
    points = points + ?2,
    updated_at = CURRENT_TIMESTAMP
WHERE race_id = ?3 AND driver_id = ?4
`

func (q *Queries) RestoreResultPoints(ctx context.Context, arg AdjustResultPointsParams) error {
	_, err := q.db.ExecContext(ctx, restoreResultPoints, arg.PenaltyValue, arg.Points, arg.RaceID, arg.DriverID)
	return err
}
