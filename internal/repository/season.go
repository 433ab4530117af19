package repository

import (
	"championship/internal/db"
	"championship/internal/domain"
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

type SeasonRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSeasonRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SeasonRepository {
	return &SeasonRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *SeasonRepository) Get(ctx context.Context, id int64) (*domain.Season, error) {
	season, err := r.queries.GetSeason(ctx, id)
	if err != nil {
		return nil, notFound(err, "season")
	}
	return toDomainSeason(season), nil
}

func (r *SeasonRepository) Active(ctx context.Context) (*domain.Season, error) {
	season, err := r.queries.GetActiveSeason(ctx)
	if err != nil {
		return nil, notFound(err, "active season")
	}
	return toDomainSeason(season), nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]domain.Season, error) {
	seasons, err := r.queries.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Season, len(seasons))
	for i, s := range seasons {
		result[i] = *toDomainSeason(s)
	}
	return result, nil
}

func (r *SeasonRepository) Create(ctx context.Context, name string, year int, active bool) (*domain.Season, error) {
	season, err := r.queries.CreateSeason(ctx, db.CreateSeasonParams{
		Name:     name,
		Year:     int64(year),
		IsActive: active,
	})
	if err != nil {
		return nil, err
	}
	return toDomainSeason(season), nil
}

func toDomainSeason(s db.Season) *domain.Season {
	return &domain.Season{
		ID:        s.ID,
		Name:      s.Name,
		Year:      int(s.Year),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
