package main

import (
	"bytes"
	"championship/internal/database"
	"championship/internal/db"
	"championship/internal/domain"
	"championship/internal/metrics"
	"championship/internal/repository"
	"championship/internal/service"
	"championship/internal/standings"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "cli.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	seasons := repository.NewSeasonRepository(sqlDB, queries, logger)
	races := repository.NewRaceRepository(queries, logger)
	roster := repository.NewRosterRepository(queries, logger)
	results := repository.NewResultRepository(sqlDB, queries, logger)

	_, err = seasons.Create(ctx, "Season 2026", 2026, true)
	require.NoError(t, err)
	season, err := seasons.Active(ctx)
	require.NoError(t, err)

	standingsSvc := service.NewStandingsService(seasons, races, standings.NewEngine(results, standings.Options{}), metrics.New(prometheus.NewRegistry()), logger)
	penalties := repository.NewPenaltyRepository(sqlDB, queries, logger)
	exportSvc := service.NewExportService(standingsSvc, races, results, penalties, roster, logger)

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, options{}, standingsSvc, exportSvc))
	assert.Contains(t, out.String(), service.NoticeNoResults)

	team, err := roster.CreateTeam(ctx, "Apex Racing")
	require.NoError(t, err)
	driver, err := roster.CreateDriver(ctx, "Alice", 16, &team.ID)
	require.NoError(t, err)
	race, err := races.Create(ctx, season.ID, "Monza", "Monza", time.Now(), domain.RaceScheduled)
	require.NoError(t, err)
	first := 1
	require.NoError(t, results.ReplaceForRace(ctx, race, []domain.RaceResult{
		{DriverID: driver, Position: &first, Points: 25, Attendance: domain.AttendancePresent},
	}))

	t.Run("drivers", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, &out, options{}, standingsSvc, exportSvc))
		assert.Contains(t, out.String(), "Season 2026 drivers")
		assert.Contains(t, out.String(), "#16 Alice")
	})

	t.Run("teams", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, &out, options{teams: true}, standingsSvc, exportSvc))
		assert.Contains(t, out.String(), "Apex Racing")
	})

	t.Run("csv", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, &out, options{csv: true}, standingsSvc, exportSvc))
		assert.Contains(t, out.String(), "1,Alice,16,Apex Racing,25")
	})

	t.Run("unknown season prints a notice", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, &out, options{seasonID: 99}, standingsSvc, exportSvc))
		assert.Equal(t, service.NoticeNoSeason+"\n", out.String())

		out.Reset()
		require.NoError(t, run(ctx, &out, options{seasonID: 99, teams: true}, standingsSvc, exportSvc))
		assert.Equal(t, service.NoticeNoSeason+"\n", out.String())
	})

	t.Run("csv of unknown season fails", func(t *testing.T) {
		err := run(ctx, &bytes.Buffer{}, options{seasonID: 99, csv: true}, standingsSvc, exportSvc)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
