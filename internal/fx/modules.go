package fx

import (
	"championship/internal/auth"
	"championship/internal/config"
	"championship/internal/database"
	"championship/internal/db"
	"championship/internal/logger"
	"championship/internal/metrics"
	"championship/internal/notify"
	"championship/internal/repository"
	"championship/internal/server"
	"championship/internal/service"
	"championship/internal/standings"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideEngine(results *repository.ResultRepository, cfg *config.Config) *standings.Engine {
	return standings.NewEngine(results, standings.Options{IncludeRoster: cfg.FullRoster})
}

func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func ProvideStandingsService(
	seasons *repository.SeasonRepository,
	races *repository.RaceRepository,
	engine *standings.Engine,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *service.StandingsService {
	return service.NewStandingsService(seasons, races, engine, m, logger)
}

func ProvideResultService(
	races *repository.RaceRepository,
	results *repository.ResultRepository,
	penalties *repository.PenaltyRepository,
	engine *standings.Engine,
	notifier *notify.DiscordNotifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *service.ResultService {
	return service.NewResultService(races, results, penalties, engine, notifier, m, logger)
}

func ProvideExportService(
	standingsSvc *service.StandingsService,
	races *repository.RaceRepository,
	results *repository.ResultRepository,
	penalties *repository.PenaltyRepository,
	roster *repository.RosterRepository,
	logger zerolog.Logger,
) *service.ExportService {
	return service.NewExportService(standingsSvc, races, results, penalties, roster, logger)
}

func ProvideRosterService(
	seasons *repository.SeasonRepository,
	roster *repository.RosterRepository,
	logger zerolog.Logger,
) *service.RosterService {
	return service.NewRosterService(seasons, roster, logger)
}

// Storage is everything needed to read and write championship data.
var Storage = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewSeasonRepository),
	fx.Provide(repository.NewRaceRepository),
	fx.Provide(repository.NewRosterRepository),
	fx.Provide(repository.NewResultRepository),
	fx.Provide(repository.NewPenaltyRepository),
	// standings
	fx.Provide(ProvideEngine),
	fx.Provide(metrics.NewRegistry),
	fx.Provide(ProvideMetrics),
	fx.Provide(ProvideStandingsService),
	fx.Provide(ProvideExportService),
)

var Module = fx.Options(
	Storage,
	fx.Provide(notify.NewDiscordNotifier),
	fx.Provide(auth.NewJWTService),
	// svc
	fx.Provide(ProvideResultService),
	fx.Provide(ProvideRosterService),
	// server
	fx.Provide(server.NewStandingsServer),
)
