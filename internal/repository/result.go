package repository

import (
	"championship/internal/constants"
	"championship/internal/db"
	"championship/internal/domain"
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

type ResultRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewResultRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ResultRepository {
	return &ResultRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// SeasonResults returns the season's results joined with race and driver.
// Results whose race no longer exists cannot be placed in any season, so
// they are appended with a nil RaceSeasonID for the engine to reject.
func (r *ResultRepository) SeasonResults(ctx context.Context, seasonID int64) ([]domain.ResultRow, error) {
	rows, err := r.queries.ListSeasonResults(ctx, seasonID)
	if err != nil {
		r.logger.Error().Err(err).Int64("season_id", seasonID).Msg("failed to list season results")
		return nil, err
	}

	result := make([]domain.ResultRow, 0, len(rows))
	for _, row := range rows {
		raceSeasonID := row.RaceSeasonID
		result = append(result, domain.ResultRow{
			RaceResult:   toDomainResult(row.RaceResult),
			RaceSeasonID: &raceSeasonID,
			RaceStatus:   domain.RaceStatus(row.RaceStatus),
			DriverName:   row.DriverName,
			DriverNumber: driverNumber(row.DriverNumber),
			TeamID:       row.TeamID,
			TeamName:     row.TeamName,
		})
	}

	orphans, err := r.queries.ListOrphanResults(ctx)
	if err != nil {
		r.logger.Error().Err(err).Int64("season_id", seasonID).Msg("failed to list orphaned results")
		return nil, err
	}
	if len(orphans) > 0 {
		r.logger.Warn().Int64("season_id", seasonID).Int("orphan_count", len(orphans)).Msg("results reference missing races")
	}
	for _, row := range orphans {
		result = append(result, domain.ResultRow{
			RaceResult:   toDomainResult(row.RaceResult),
			DriverName:   row.DriverName,
			DriverNumber: driverNumber(row.DriverNumber),
			TeamID:       row.TeamID,
			TeamName:     row.TeamName,
		})
	}

	r.logger.Debug().Int64("season_id", seasonID).Int("row_count", len(result)).Msg("season results loaded")
	return result, nil
}

func driverNumber(n *int64) int {
	if n == nil {
		return 0
	}
	return int(*n)
}

// SeasonTeams returns every team with its current drivers. Team membership is
// not tracked per season, so seasonID only scopes the call.
func (r *ResultRepository) SeasonTeams(ctx context.Context, seasonID int64) ([]domain.TeamRoster, error) {
	rows, err := r.queries.ListTeamMembers(ctx)
	if err != nil {
		r.logger.Error().Err(err).Int64("season_id", seasonID).Msg("failed to list team members")
		return nil, err
	}

	var rosters []domain.TeamRoster
	for _, row := range rows {
		if len(rosters) == 0 || rosters[len(rosters)-1].Team.ID != row.ID {
			rosters = append(rosters, domain.TeamRoster{Team: domain.Team{ID: row.ID, Name: row.Name}})
		}
		if row.DriverID != nil {
			last := &rosters[len(rosters)-1]
			last.DriverIDs = append(last.DriverIDs, *row.DriverID)
		}
	}
	return rosters, nil
}

func (r *ResultRepository) SeasonDrivers(ctx context.Context, seasonID int64) ([]domain.Driver, error) {
	drivers, err := r.queries.ListDrivers(ctx)
	if err != nil {
		r.logger.Error().Err(err).Int64("season_id", seasonID).Msg("failed to list drivers")
		return nil, err
	}

	result := make([]domain.Driver, len(drivers))
	for i, d := range drivers {
		result[i] = toDomainDriver(d)
	}
	return result, nil
}

func (r *ResultRepository) GetByRace(ctx context.Context, raceID int64) ([]domain.RaceResult, error) {
	rows, err := r.queries.ListRaceResults(ctx, raceID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RaceResult, len(rows))
	for i, row := range rows {
		result[i] = toDomainResult(row)
	}
	return result, nil
}

// ReplaceForRace swaps a race's results for the given set and marks the race
// completed, in a single transaction.
func (r *ResultRepository) ReplaceForRace(ctx context.Context, raceID int64, results []domain.RaceResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if _, err := qtx.GetRace(ctx, raceID); err != nil {
		return fmt.Errorf("failed to load race %d: %w", raceID, notFound(err, "race"))
	}

	if err := qtx.DeleteRaceResults(ctx, raceID); err != nil {
		return fmt.Errorf("failed to clear results for race %d: %w", raceID, err)
	}

	for i := 0; i < len(results); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(results) {
			end = len(results)
		}

		for _, res := range results[i:end] {
			var position *int64
			if res.Position != nil {
				p := int64(*res.Position)
				position = &p
			}
			err := qtx.InsertRaceResult(ctx, db.InsertRaceResultParams{
				RaceID:        raceID,
				DriverID:      res.DriverID,
				Position:      position,
				Points:        int64(res.Points),
				PolePosition:  res.Pole,
				FastestLap:    res.FastestLap,
				Dnf:           res.DNF,
				DnfReason:     res.DNFReason,
				TimePenalty:   int64(res.TimePenalty),
				PointsPenalty: int64(res.PointsPenalty),
				Attendance:    string(res.Attendance),
			})
			if err != nil {
				return fmt.Errorf("failed to insert result %d/%d: %w", raceID, res.DriverID, err)
			}
		}
	}

	if _, err := qtx.UpdateRaceStatus(ctx, string(domain.RaceCompleted), raceID); err != nil {
		return fmt.Errorf("failed to complete race %d: %w", raceID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results for race %d: %w", raceID, err)
	}

	r.logger.Info().Int64("race_id", raceID).Int("result_count", len(results)).Msg("race results replaced")
	return nil
}

func toDomainResult(row db.RaceResult) domain.RaceResult {
	var position *int
	if row.Position != nil {
		p := int(*row.Position)
		position = &p
	}
	return domain.RaceResult{
		RaceID:        row.RaceID,
		DriverID:      row.DriverID,
		Position:      position,
		Points:        int(row.Points),
		Pole:          row.PolePosition,
		FastestLap:    row.FastestLap,
		DNF:           row.Dnf,
		DNFReason:     row.DnfReason,
		TimePenalty:   int(row.TimePenalty),
		PointsPenalty: int(row.PointsPenalty),
		Attendance:    domain.Attendance(row.Attendance),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toDomainDriver(d db.Driver) domain.Driver {
	return domain.Driver{
		ID:           d.ID,
		Name:         d.Name,
		DriverNumber: int(d.DriverNumber),
		TeamID:       d.TeamID,
		TeamName:     d.TeamName,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
