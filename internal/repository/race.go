package repository

import (
	"championship/internal/db"
	"championship/internal/domain"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type RaceRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRaceRepository(queries *db.Queries, logger zerolog.Logger) *RaceRepository {
	return &RaceRepository{queries: queries, logger: logger}
}

func (r *RaceRepository) Get(ctx context.Context, id int64) (*domain.Race, error) {
	race, err := r.queries.GetRace(ctx, id)
	if err != nil {
		return nil, notFound(err, "race")
	}
	result := toDomainRace(race)
	return &result, nil
}

func (r *RaceRepository) Create(ctx context.Context, seasonID int64, name, track string, date time.Time, status domain.RaceStatus) (int64, error) {
	return r.queries.CreateRace(ctx, db.CreateRaceParams{
		SeasonID: seasonID,
		Name:     name,
		Track:    track,
		RaceDate: date,
		Status:   string(status),
	})
}

func (r *RaceRepository) SetStatus(ctx context.Context, id int64, status domain.RaceStatus) error {
	n, err := r.queries.UpdateRaceStatus(ctx, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set race %d status: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("race %d: %w", id, ErrNotFound)
	}
	r.logger.Info().Int64("race_id", id).Str("status", string(status)).Msg("race status changed")
	return nil
}

func (r *RaceRepository) ListBySeason(ctx context.Context, seasonID int64) ([]domain.RaceSummary, error) {
	rows, err := r.queries.ListSeasonRaces(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RaceSummary, len(rows))
	for i, row := range rows {
		result[i] = domain.RaceSummary{
			Race:         toDomainRace(row.Race),
			Participants: int(row.Participants),
			Winner:       row.Winner,
		}
	}
	return result, nil
}

func toDomainRace(r db.Race) domain.Race {
	return domain.Race{
		ID:        r.ID,
		SeasonID:  r.SeasonID,
		Name:      r.Name,
		Track:     r.Track,
		RaceDate:  r.RaceDate,
		Status:    domain.RaceStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
