package standings

import (
	"championship/internal/domain"
	"context"
)

// Source is the read side of the result store.
type Source interface {
	// SeasonResults returns every result row whose race belongs to the season.
	SeasonResults(ctx context.Context, seasonID int64) ([]domain.ResultRow, error)
	// SeasonTeams returns all teams with their currently assigned drivers.
	SeasonTeams(ctx context.Context, seasonID int64) ([]domain.TeamRoster, error)
	// SeasonDrivers returns the full driver roster.
	SeasonDrivers(ctx context.Context, seasonID int64) ([]domain.Driver, error)
}

type Options struct {
	// IncludeRoster emits zero summaries for drivers without results.
	IncludeRoster bool
}

// Engine recomputes standings from the source on every call.
type Engine struct {
	source Source
	opts   Options
}

func NewEngine(source Source, opts Options) *Engine {
	return &Engine{source: source, opts: opts}
}

func (e *Engine) DriverStandings(ctx context.Context, seasonID int64) ([]domain.DriverStanding, error) {
	summaries, err := e.driverSummaries(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return Rank(summaries, DriverKey), nil
}

func (e *Engine) TeamStandings(ctx context.Context, seasonID int64) ([]domain.TeamStanding, error) {
	summaries, err := e.driverSummaries(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	rosters, err := e.source.SeasonTeams(ctx, seasonID)
	if err != nil {
		return nil, &DataAccessError{Op: "load teams", Err: err}
	}

	return Rank(FoldTeams(summaries, rosters), TeamKey), nil
}

func (e *Engine) driverSummaries(ctx context.Context, seasonID int64) ([]domain.DriverSummary, error) {
	rows, err := e.source.SeasonResults(ctx, seasonID)
	if err != nil {
		return nil, &DataAccessError{Op: "load results", Err: err}
	}

	var roster []domain.Driver
	if e.opts.IncludeRoster {
		roster, err = e.source.SeasonDrivers(ctx, seasonID)
		if err != nil {
			return nil, &DataAccessError{Op: "load drivers", Err: err}
		}
	}

	return Aggregate(seasonID, rows, roster)
}
