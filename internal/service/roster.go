package service

import (
	"championship/internal/domain"
	"championship/internal/repository"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type SeasonLister interface {
	List(ctx context.Context) ([]domain.Season, error)
}

type DriverStore interface {
	Drivers(ctx context.Context) ([]domain.Driver, error)
	AssignTeam(ctx context.Context, driverID int64, teamID *int64) error
}

// RosterService exposes seasons and drivers and moves drivers between teams.
type RosterService struct {
	seasons SeasonLister
	drivers DriverStore
	logger  zerolog.Logger
}

func NewRosterService(seasons SeasonLister, drivers DriverStore, logger zerolog.Logger) *RosterService {
	return &RosterService{
		seasons: seasons,
		drivers: drivers,
		logger:  logger,
	}
}

func (s *RosterService) ListSeasons(ctx context.Context) ([]domain.Season, error) {
	return s.seasons.List(ctx)
}

func (s *RosterService) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	return s.drivers.Drivers(ctx)
}

// AssignDriverTeam moves a driver to a team, or makes them independent when
// teamID is nil, and returns the driver as stored afterwards. The team
// championship credits all of a driver's points to their current team.
func (s *RosterService) AssignDriverTeam(ctx context.Context, driverID int64, teamID *int64) (*domain.Driver, error) {
	if driverID <= 0 {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidInput)
	}
	if teamID != nil && *teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be positive", ErrInvalidInput)
	}

	if err := s.drivers.AssignTeam(ctx, driverID, teamID); err != nil {
		return nil, err
	}

	drivers, err := s.drivers.Drivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload drivers: %w", err)
	}
	for _, d := range drivers {
		if d.ID == driverID {
			s.logger.Info().Int64("driver_id", driverID).Interface("team_id", teamID).Msg("driver moved")
			return &d, nil
		}
	}
	return nil, fmt.Errorf("driver %d: %w", driverID, repository.ErrNotFound)
}
