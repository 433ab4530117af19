package service

import (
	"championship/internal/constants"
	"championship/internal/domain"
	"championship/internal/metrics"
	"championship/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	NoticeNoResults   = "No results recorded for this season yet."
	NoticeNoSeason    = "No active season."
	NoticeUnavailable = "Standings are temporarily unavailable."
)

var ErrNotRanked = errors.New("driver has no championship position")

type SeasonStore interface {
	Get(ctx context.Context, id int64) (*domain.Season, error)
	Active(ctx context.Context) (*domain.Season, error)
}

type RaceStore interface {
	Get(ctx context.Context, id int64) (*domain.Race, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]domain.RaceSummary, error)
}

type StandingsEngine interface {
	DriverStandings(ctx context.Context, seasonID int64) ([]domain.DriverStanding, error)
	TeamStandings(ctx context.Context, seasonID int64) ([]domain.TeamStanding, error)
}

// Table is a ranked standings table ready for display. When Entries is
// empty, Notice says why.
type Table[T any] struct {
	Season   domain.Season
	Entries  []domain.StandingsEntry[T]
	Notice   string
	Degraded bool
}

type Overview struct {
	Season  domain.Season
	Races   []domain.RaceSummary
	Drivers *Table[domain.DriverSummary]
	Teams   *Table[domain.TeamSummary]
}

type StandingsService struct {
	seasons SeasonStore
	races   RaceStore
	engine  StandingsEngine
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewStandingsService(seasons SeasonStore, races RaceStore, engine StandingsEngine, m *metrics.Metrics, logger zerolog.Logger) *StandingsService {
	return &StandingsService{
		seasons: seasons,
		races:   races,
		engine:  engine,
		metrics: m,
		logger:  logger,
	}
}

// ResolveSeason loads the season with the given id, or the active season
// when id is constants.ActiveSeason.
func (s *StandingsService) ResolveSeason(ctx context.Context, id int64) (*domain.Season, error) {
	if id == constants.ActiveSeason {
		return s.seasons.Active(ctx)
	}
	return s.seasons.Get(ctx, id)
}

// DriverTable returns the ranked driver table. A missing season is not an
// error: the table comes back empty with NoticeNoSeason.
func (s *StandingsService) DriverTable(ctx context.Context, seasonID int64) (*Table[domain.DriverSummary], error) {
	season, err := s.ResolveSeason(ctx, seasonID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Int64("season_id", seasonID).Msg("no season to rank")
		return &Table[domain.DriverSummary]{Notice: NoticeNoSeason}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.driverTable(ctx, *season), nil
}

func (s *StandingsService) TeamTable(ctx context.Context, seasonID int64) (*Table[domain.TeamSummary], error) {
	season, err := s.ResolveSeason(ctx, seasonID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Int64("season_id", seasonID).Msg("no season to rank")
		return &Table[domain.TeamSummary]{Notice: NoticeNoSeason}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.teamTable(ctx, *season), nil
}

// DriverPosition returns the driver's current championship standing, or
// ErrNotRanked when the driver has none (including when there is no season).
func (s *StandingsService) DriverPosition(ctx context.Context, seasonID, driverID int64) (*domain.DriverStanding, error) {
	season, err := s.ResolveSeason(ctx, seasonID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotRanked
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.driverStandings(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute driver standings: %w", err)
	}

	for _, e := range entries {
		if e.Summary.DriverID == driverID {
			return &e, nil
		}
	}
	return nil, ErrNotRanked
}

func (s *StandingsService) Overview(ctx context.Context, seasonID int64) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	season, err := s.ResolveSeason(ctx, seasonID)
	if errors.Is(err, repository.ErrNotFound) {
		return &Overview{
			Drivers: &Table[domain.DriverSummary]{Notice: NoticeNoSeason},
			Teams:   &Table[domain.TeamSummary]{Notice: NoticeNoSeason},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	overview := &Overview{Season: *season}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		overview.Races, err = s.races.ListBySeason(gCtx, season.ID)
		return err
	})

	g.Go(func() error {
		overview.Drivers = s.driverTable(gCtx, *season)
		return nil
	})

	g.Go(func() error {
		overview.Teams = s.teamTable(gCtx, *season)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int64("season_id", season.ID).Msg("failed to load season overview")
		return nil, fmt.Errorf("failed to load season overview: %w", err)
	}

	return overview, nil
}

func (s *StandingsService) driverStandings(ctx context.Context, seasonID int64) ([]domain.DriverStanding, error) {
	started := time.Now()
	entries, err := s.engine.DriverStandings(ctx, seasonID)
	s.metrics.ObserveComputation("driver", started, len(entries), err)
	return entries, err
}

func (s *StandingsService) driverTable(ctx context.Context, season domain.Season) *Table[domain.DriverSummary] {
	table := &Table[domain.DriverSummary]{Season: season}

	entries, err := s.driverStandings(ctx, season.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("season_id", season.ID).Msg("driver standings unavailable")
		table.Notice = NoticeUnavailable
		table.Degraded = true
		return table
	}

	table.Entries = entries
	if len(entries) == 0 {
		table.Notice = NoticeNoResults
	}
	return table
}

func (s *StandingsService) teamTable(ctx context.Context, season domain.Season) *Table[domain.TeamSummary] {
	table := &Table[domain.TeamSummary]{Season: season}

	started := time.Now()
	entries, err := s.engine.TeamStandings(ctx, season.ID)
	s.metrics.ObserveComputation("team", started, len(entries), err)
	if err != nil {
		s.logger.Error().Err(err).Int64("season_id", season.ID).Msg("team standings unavailable")
		table.Notice = NoticeUnavailable
		table.Degraded = true
		return table
	}

	table.Entries = entries
	if len(entries) == 0 {
		table.Notice = NoticeNoResults
	}
	return table
}
