package repository

import (
	"championship/internal/db"
	"championship/internal/domain"
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// RosterRepository manages teams and drivers.
type RosterRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRosterRepository(queries *db.Queries, logger zerolog.Logger) *RosterRepository {
	return &RosterRepository{queries: queries, logger: logger}
}

func (r *RosterRepository) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	team, err := r.queries.CreateTeam(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.Team{
		ID:        team.ID,
		Name:      team.Name,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}, nil
}

func (r *RosterRepository) CreateDriver(ctx context.Context, name string, number int, teamID *int64) (int64, error) {
	return r.queries.CreateDriver(ctx, db.CreateDriverParams{
		Name:         name,
		DriverNumber: int64(number),
		TeamID:       teamID,
	})
}

// AssignTeam moves a driver to a team, or makes them independent when teamID
// is nil. Standings attribute all of a driver's points to the current team.
func (r *RosterRepository) AssignTeam(ctx context.Context, driverID int64, teamID *int64) error {
	n, err := r.queries.UpdateDriverTeam(ctx, teamID, driverID)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("team %d: %w", *teamID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to assign driver %d: %w", driverID, err)
	}
	if n == 0 {
		return fmt.Errorf("driver %d: %w", driverID, ErrNotFound)
	}

	r.logger.Info().Int64("driver_id", driverID).Interface("team_id", teamID).Msg("driver team assigned")
	return nil
}

func (r *RosterRepository) Drivers(ctx context.Context) ([]domain.Driver, error) {
	drivers, err := r.queries.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Driver, len(drivers))
	for i, d := range drivers {
		result[i] = toDomainDriver(d)
	}
	return result, nil
}
