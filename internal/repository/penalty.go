package repository

import (
	"championship/internal/db"
	"championship/internal/domain"
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PenaltyRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPenaltyRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PenaltyRepository {
	return &PenaltyRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Apply records a penalty. A points deduction tied to a race is also taken
// off that race's result, never below zero points, and the amount actually
// taken is stored with the penalty.
func (r *PenaltyRepository) Apply(ctx context.Context, penalty domain.Penalty) (*domain.Penalty, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if penalty.ID == "" {
		penalty.ID, err = gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}
	if penalty.CreatedAt.IsZero() {
		penalty.CreatedAt = time.Now().UTC()
	}

	if affectsResult(penalty) {
		points, err := qtx.GetResultPoints(ctx, *penalty.RaceID, penalty.DriverID)
		if err != nil {
			return nil, notFound(err, fmt.Sprintf("result for driver %d in race %d", penalty.DriverID, *penalty.RaceID))
		}
		penalty.PointsDeducted = min(penalty.Value, int(points))

		err = qtx.DeductResultPoints(ctx, db.AdjustResultPointsParams{
			PenaltyValue: int64(penalty.Value),
			Points:       int64(penalty.PointsDeducted),
			RaceID:       *penalty.RaceID,
			DriverID:     penalty.DriverID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to deduct points: %w", err)
		}
	}

	err = qtx.InsertPenalty(ctx, db.Penalty{
		ID:             penalty.ID,
		DriverID:       penalty.DriverID,
		RaceID:         penalty.RaceID,
		Type:           string(penalty.Type),
		Value:          int64(penalty.Value),
		Reason:         penalty.Reason,
		AppliedBy:      penalty.AppliedBy,
		PointsDeducted: int64(penalty.PointsDeducted),
		CreatedAt:      penalty.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert penalty: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit penalty: %w", err)
	}

	r.logger.Info().
		Str("penalty_id", penalty.ID).
		Int64("driver_id", penalty.DriverID).
		Str("type", string(penalty.Type)).
		Int("value", penalty.Value).
		Int("points_deducted", penalty.PointsDeducted).
		Msg("penalty applied")
	return &penalty, nil
}

// Remove deletes a penalty and gives back exactly the points it deducted.
func (r *PenaltyRepository) Remove(ctx context.Context, id string) (*domain.Penalty, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	row, err := qtx.GetPenalty(ctx, id)
	if err != nil {
		return nil, notFound(err, "penalty")
	}
	penalty := toDomainPenalty(row)

	if affectsResult(penalty) {
		err := qtx.RestoreResultPoints(ctx, db.AdjustResultPointsParams{
			PenaltyValue: int64(penalty.Value),
			Points:       int64(penalty.PointsDeducted),
			RaceID:       *penalty.RaceID,
			DriverID:     penalty.DriverID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to restore points: %w", err)
		}
	}

	if err := qtx.DeletePenalty(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete penalty: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit penalty removal: %w", err)
	}

	r.logger.Info().Str("penalty_id", id).Msg("penalty removed")
	return &penalty, nil
}

func (r *PenaltyRepository) ListBySeason(ctx context.Context, seasonID int64) ([]domain.Penalty, error) {
	rows, err := r.queries.ListSeasonPenalties(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Penalty, len(rows))
	for i, row := range rows {
		result[i] = toDomainPenalty(row)
	}
	return result, nil
}

func affectsResult(p domain.Penalty) bool {
	return p.Type == domain.PenaltyPointsDeduction && p.RaceID != nil && p.Value > 0
}

func toDomainPenalty(p db.Penalty) domain.Penalty {
	return domain.Penalty{
		ID:             p.ID,
		DriverID:       p.DriverID,
		RaceID:         p.RaceID,
		Type:           domain.PenaltyType(p.Type),
		Value:          int(p.Value),
		Reason:         p.Reason,
		AppliedBy:      p.AppliedBy,
		PointsDeducted: int(p.PointsDeducted),
		CreatedAt:      p.CreatedAt,
	}
}
