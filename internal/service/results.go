package service

import (
	"championship/internal/constants"
	"championship/internal/domain"
	"championship/internal/metrics"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrRaceCancelled = errors.New("race is cancelled")
)

// RaceWriter is a RaceStore that can also change a race's status.
type RaceWriter interface {
	RaceStore
	SetStatus(ctx context.Context, id int64, status domain.RaceStatus) error
}

type ResultStore interface {
	ReplaceForRace(ctx context.Context, raceID int64, results []domain.RaceResult) error
}

type PenaltyStore interface {
	Apply(ctx context.Context, penalty domain.Penalty) (*domain.Penalty, error)
	Remove(ctx context.Context, id string) (*domain.Penalty, error)
}

type Notifier interface {
	StandingsUpdated(ctx context.Context, race domain.Race, standings []domain.DriverStanding) error
}

// ResultEntry is one driver's line on a race result sheet. Points are
// entered before PointsPenalty is taken off.
type ResultEntry struct {
	DriverID      int64
	Position      *int
	Points        int
	Pole          bool
	FastestLap    bool
	DNF           bool
	DNFReason     string
	TimePenalty   int
	PointsPenalty int
	Attendance    domain.Attendance
}

type ResultService struct {
	races     RaceWriter
	results   ResultStore
	penalties PenaltyStore
	engine    StandingsEngine
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewResultService(
	races RaceWriter,
	results ResultStore,
	penalties PenaltyStore,
	engine StandingsEngine,
	notifier Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ResultService {
	return &ResultService{
		races:     races,
		results:   results,
		penalties: penalties,
		engine:    engine,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// RecordRaceResults replaces the result sheet of a race and marks it
// completed. Subscribers get the updated top of the driver standings.
func (s *ResultService) RecordRaceResults(ctx context.Context, raceID int64, entries []ResultEntry) (*domain.Race, error) {
	results, err := buildResults(raceID, entries)
	if err != nil {
		return nil, err
	}

	race, err := s.races.Get(ctx, raceID)
	if err != nil {
		return nil, err
	}
	if race.Status == domain.RaceCancelled {
		return nil, fmt.Errorf("race %d: %w", raceID, ErrRaceCancelled)
	}

	if err := s.results.ReplaceForRace(ctx, raceID, results); err != nil {
		s.logger.Error().Err(err).Int64("race_id", raceID).Msg("failed to save race results")
		return nil, fmt.Errorf("failed to save race results: %w", err)
	}

	race.Status = domain.RaceCompleted
	s.logger.Info().Int64("race_id", raceID).Int("results", len(results)).Msg("race results recorded")

	s.notify(ctx, *race)
	return race, nil
}

// SetRaceStatus moves a race to another status. Cancelling a race drops its
// results from both championships without deleting them.
func (s *ResultService) SetRaceStatus(ctx context.Context, raceID int64, status domain.RaceStatus) (*domain.Race, error) {
	switch status {
	case domain.RaceScheduled, domain.RaceRunning, domain.RaceCompleted, domain.RaceCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown race status %q", ErrInvalidInput, status)
	}

	if err := s.races.SetStatus(ctx, raceID, status); err != nil {
		return nil, err
	}

	race, err := s.races.Get(ctx, raceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("race_id", raceID).Str("status", string(status)).Msg("race status updated")
	return race, nil
}

func (s *ResultService) ApplyPenalty(ctx context.Context, penalty domain.Penalty) (*domain.Penalty, error) {
	if penalty.DriverID <= 0 {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidInput)
	}
	if penalty.Value < 0 {
		return nil, fmt.Errorf("%w: penalty value must not be negative", ErrInvalidInput)
	}
	switch penalty.Type {
	case domain.PenaltyPointsDeduction, domain.PenaltyTime, domain.PenaltyGrid, domain.PenaltyWarning:
	default:
		return nil, fmt.Errorf("%w: unknown penalty type %q", ErrInvalidInput, penalty.Type)
	}

	if penalty.RaceID != nil {
		race, err := s.races.Get(ctx, *penalty.RaceID)
		if err != nil {
			return nil, err
		}
		if race.Status == domain.RaceCancelled {
			return nil, fmt.Errorf("race %d: %w", race.ID, ErrRaceCancelled)
		}
	}

	return s.penalties.Apply(ctx, penalty)
}

func (s *ResultService) RemovePenalty(ctx context.Context, id string) (*domain.Penalty, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: penalty id is required", ErrInvalidInput)
	}
	return s.penalties.Remove(ctx, id)
}

// notify failures are logged and counted, never returned.
func (s *ResultService) notify(ctx context.Context, race domain.Race) {
	ctx, cancel := context.WithTimeout(ctx, constants.WebhookTimeout)
	defer cancel()

	standings, err := s.engine.DriverStandings(ctx, race.SeasonID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("season_id", race.SeasonID).Msg("skipping notification, standings unavailable")
		return
	}

	err = s.notifier.StandingsUpdated(ctx, race, standings)
	s.metrics.ObserveNotification(err)
}

func buildResults(raceID int64, entries []ResultEntry) ([]domain.RaceResult, error) {
	if len(entries) > constants.MaxResultsPerRace {
		return nil, fmt.Errorf("%w: at most %d results per race", ErrInvalidInput, constants.MaxResultsPerRace)
	}

	drivers := make(map[int64]struct{}, len(entries))
	positions := make(map[int]struct{}, len(entries))
	results := make([]domain.RaceResult, 0, len(entries))

	for i, e := range entries {
		if e.DriverID <= 0 {
			return nil, fmt.Errorf("%w: entry %d has no driver", ErrInvalidInput, i)
		}
		if _, dup := drivers[e.DriverID]; dup {
			return nil, fmt.Errorf("%w: driver %d entered twice", ErrInvalidInput, e.DriverID)
		}
		drivers[e.DriverID] = struct{}{}

		if e.Position != nil {
			if *e.Position < 1 {
				return nil, fmt.Errorf("%w: driver %d has position %d", ErrInvalidInput, e.DriverID, *e.Position)
			}
			if _, dup := positions[*e.Position]; dup {
				return nil, fmt.Errorf("%w: position %d assigned twice", ErrInvalidInput, *e.Position)
			}
			positions[*e.Position] = struct{}{}
		}
		if e.Points < 0 || e.PointsPenalty < 0 || e.TimePenalty < 0 {
			return nil, fmt.Errorf("%w: driver %d has negative points or penalties", ErrInvalidInput, e.DriverID)
		}

		attendance := e.Attendance
		if attendance == "" {
			attendance = domain.AttendancePresent
		}
		if !attendance.Valid() {
			return nil, fmt.Errorf("%w: unknown attendance %q", ErrInvalidInput, attendance)
		}

		results = append(results, domain.RaceResult{
			RaceID:        raceID,
			DriverID:      e.DriverID,
			Position:      e.Position,
			Points:        max(0, e.Points-e.PointsPenalty),
			Pole:          e.Pole,
			FastestLap:    e.FastestLap,
			DNF:           e.DNF,
			DNFReason:     e.DNFReason,
			TimePenalty:   e.TimePenalty,
			PointsPenalty: e.PointsPenalty,
			Attendance:    attendance,
		})
	}

	return results, nil
}
