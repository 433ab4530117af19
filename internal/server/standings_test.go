package server

import (
	"bytes"
	"championship/internal/auth"
	"championship/internal/config"
	"championship/internal/database"
	"championship/internal/db"
	"championship/internal/domain"
	"championship/internal/metrics"
	"championship/internal/middleware"
	"championship/internal/notify"
	"championship/internal/repository"
	"championship/internal/service"
	"championship/internal/standings"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	jwt      *auth.JWTService
	seasonID int64
	raceIDs  []int64
	drivers  map[string]int64
}

func newTestServer(t *testing.T, activeSeason bool) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()
	cfg := &config.Config{AdminJWTSecret: "test-secret", NotifyTopN: 3}

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "championship.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	seasons := repository.NewSeasonRepository(sqlDB, queries, logger)
	races := repository.NewRaceRepository(queries, logger)
	roster := repository.NewRosterRepository(queries, logger)
	results := repository.NewResultRepository(sqlDB, queries, logger)
	penalties := repository.NewPenaltyRepository(sqlDB, queries, logger)

	ts := &testServer{drivers: map[string]int64{}}

	season, err := seasons.Create(ctx, "Season 2026", 2026, activeSeason)
	require.NoError(t, err)
	ts.seasonID = season.ID

	team, err := roster.CreateTeam(ctx, "Apex Racing")
	require.NoError(t, err)
	for i, name := range []string{"Alice", "Bruno"} {
		id, err := roster.CreateDriver(ctx, name, i+1, &team.ID)
		require.NoError(t, err)
		ts.drivers[name] = id
	}

	start := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	for i, name := range []string{"Monza", "Spa"} {
		id, err := races.Create(ctx, season.ID, name, name, start.AddDate(0, 0, 7*i), domain.RaceScheduled)
		require.NoError(t, err)
		ts.raceIDs = append(ts.raceIDs, id)
	}

	m := metrics.New(prometheus.NewRegistry())
	engine := standings.NewEngine(results, standings.Options{})
	standingsSvc := service.NewStandingsService(seasons, races, engine, m, logger)
	resultSvc := service.NewResultService(races, results, penalties, engine, notify.NewDiscordNotifier(cfg, logger), m, logger)
	rosterSvc := service.NewRosterService(seasons, roster, logger)
	exportSvc := service.NewExportService(standingsSvc, races, results, penalties, roster, logger)
	ts.jwt, err = auth.NewJWTService(cfg)
	require.NoError(t, err)

	srv := NewStandingsServer(standingsSvc, resultSvc, rosterSvc, exportSvc, ts.jwt, logger)
	mux := http.NewServeMux()
	path, handler := srv.Handler()
	mux.Handle(path, handler)
	mux.Handle(ExportsPath, srv.ExportHandler())

	ts.Server = httptest.NewServer(middleware.RequestID(logger)(mux))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) adminToken(t *testing.T, role string) string {
	t.Helper()
	token, err := ts.jwt.GenerateToken("marshal", role, time.Hour)
	require.NoError(t, err)
	return token
}

// call posts a connect unary JSON request and decodes the reply into out.
func (ts *testServer) call(t *testing.T, procedure, token string, body any, out any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+procedure, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (ts *testServer) get(t *testing.T, path string) (int, [][]string) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	return resp.StatusCode, records
}

func TestStandingsServer(t *testing.T) {
	ts := newTestServer(t, true)
	admin := ts.adminToken(t, auth.RoleAdmin)

	t.Run("empty season", func(t *testing.T) {
		var resp DriverStandingsResponse
		status := ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{}, &resp)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Season 2026", resp.Season.Name)
		assert.Empty(t, resp.Standings)
		assert.Equal(t, service.NoticeNoResults, resp.Notice)
	})

	t.Run("unknown season", func(t *testing.T) {
		var resp DriverStandingsResponse
		status := ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{SeasonID: 99}, &resp)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp.Season)
		assert.Empty(t, resp.Standings)
		assert.Equal(t, service.NoticeNoSeason, resp.Notice)
		assert.False(t, resp.Degraded)
	})

	t.Run("writes require a token", func(t *testing.T) {
		req := RecordRaceResultsRequest{RaceID: ts.raceIDs[0]}
		assert.Equal(t, http.StatusUnauthorized, ts.call(t, RecordRaceResultsProcedure, "", req, nil))
		assert.Equal(t, http.StatusUnauthorized, ts.call(t, RecordRaceResultsProcedure, "garbage", req, nil))
		assert.Equal(t, http.StatusForbidden, ts.call(t, RecordRaceResultsProcedure, ts.adminToken(t, "viewer"), req, nil))
	})

	one, two := 1, 2
	var recorded RecordRaceResultsResponse
	status := ts.call(t, RecordRaceResultsProcedure, admin, RecordRaceResultsRequest{
		RaceID: ts.raceIDs[0],
		Results: []ResultEntry{
			{DriverID: ts.drivers["Alice"], Position: &one, Points: 25, Pole: true},
			{DriverID: ts.drivers["Bruno"], Position: &two, Points: 18, FastestLap: true},
		},
	}, &recorded)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(domain.RaceCompleted), recorded.Race.Status)

	t.Run("invalid results are rejected", func(t *testing.T) {
		status := ts.call(t, RecordRaceResultsProcedure, admin, RecordRaceResultsRequest{
			RaceID:  ts.raceIDs[1],
			Results: []ResultEntry{{DriverID: ts.drivers["Alice"], Points: -4}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("driver standings", func(t *testing.T) {
		var resp DriverStandingsResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{SeasonID: ts.seasonID}, &resp))
		require.Len(t, resp.Standings, 2)
		assert.Equal(t, "Alice", resp.Standings[0].Name)
		assert.Equal(t, 25, resp.Standings[0].Points)
		assert.Equal(t, "1.00", resp.Standings[0].AvgPosition)
		assert.Equal(t, "Apex Racing", resp.Standings[1].Team)
		assert.Empty(t, resp.Notice)
	})

	t.Run("team standings", func(t *testing.T) {
		var resp TeamStandingsResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetTeamStandingsProcedure, "", SeasonRequest{}, &resp))
		require.Len(t, resp.Standings, 1)
		assert.Equal(t, 43, resp.Standings[0].Points)
		assert.Equal(t, 2, resp.Standings[0].Drivers)
	})

	var penalty PenaltyResponse
	status = ts.call(t, ApplyPenaltyProcedure, admin, ApplyPenaltyRequest{
		DriverID: ts.drivers["Alice"],
		RaceID:   &ts.raceIDs[0],
		Type:     string(domain.PenaltyPointsDeduction),
		Value:    10,
		Reason:   "unsafe release",
	}, &penalty)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, penalty.Penalty.ID)
	assert.Equal(t, "marshal", penalty.Penalty.AppliedBy)
	assert.Equal(t, 10, penalty.Penalty.PointsDeducted)

	t.Run("penalty changes the order", func(t *testing.T) {
		var resp DriverPositionResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetDriverPositionProcedure, "", DriverPositionRequest{DriverID: ts.drivers["Bruno"]}, &resp))
		require.True(t, resp.Ranked)
		assert.Equal(t, 1, resp.Standing.Position)
	})

	t.Run("unranked driver", func(t *testing.T) {
		var resp DriverPositionResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetDriverPositionProcedure, "", DriverPositionRequest{DriverID: 999}, &resp))
		assert.False(t, resp.Ranked)
		assert.Nil(t, resp.Standing)
	})

	t.Run("overview", func(t *testing.T) {
		var resp SeasonOverviewResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetSeasonOverviewProcedure, "", SeasonRequest{}, &resp))
		assert.Len(t, resp.Races, 2)
		assert.Len(t, resp.Drivers.Standings, 2)
		assert.Len(t, resp.Teams.Standings, 1)
	})

	t.Run("csv export", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + StandingsExportPath)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "standings-2026.csv")
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		records, err := csv.NewReader(resp.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Bruno", records[1][1])
		assert.Equal(t, "18", records[1][4])
		assert.Equal(t, "Alice", records[2][1])
		assert.Equal(t, "15", records[2][4])
	})

	t.Run("csv export of unknown season", func(t *testing.T) {
		status, _ := ts.get(t, StandingsExportPath+"?season_id=42")
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = ts.get(t, StandingsExportPath+"?season_id=abc")
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = ts.get(t, ExportsPath+"drivers.csv")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("penalties csv", func(t *testing.T) {
		status, records := ts.get(t, PenaltiesExportPath)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"Monza", "Alice", "1", "Apex Racing", "Points Deduction", "10", "10", "unsafe release", "marshal"}, records[1][:9])
	})

	t.Run("race results csv", func(t *testing.T) {
		status, records := ts.get(t, fmt.Sprintf("%s?race_id=%d", ResultsExportPath, ts.raceIDs[0]))
		require.Equal(t, http.StatusOK, status)
		require.Len(t, records, 3)
		assert.Equal(t, "Alice", records[1][4])
		assert.Equal(t, "15", records[1][7])
		assert.Equal(t, "10", records[1][13])
		assert.Equal(t, "Bruno", records[2][4])
		assert.Equal(t, "2", records[2][3])

		status, _ = ts.get(t, ResultsExportPath)
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = ts.get(t, ResultsExportPath+"?race_id=999")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("remove penalty restores the order", func(t *testing.T) {
		require.Equal(t, http.StatusOK, ts.call(t, RemovePenaltyProcedure, admin, RemovePenaltyRequest{PenaltyID: penalty.Penalty.ID}, nil))
		assert.Equal(t, http.StatusNotFound, ts.call(t, RemovePenaltyProcedure, admin, RemovePenaltyRequest{PenaltyID: penalty.Penalty.ID}, nil))

		var resp DriverPositionResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetDriverPositionProcedure, "", DriverPositionRequest{DriverID: ts.drivers["Alice"]}, &resp))
		assert.Equal(t, 1, resp.Standing.Position)
	})

	t.Run("unknown race", func(t *testing.T) {
		status := ts.call(t, RecordRaceResultsProcedure, admin, RecordRaceResultsRequest{RaceID: 999}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("list seasons and drivers", func(t *testing.T) {
		var seasons ListSeasonsResponse
		require.Equal(t, http.StatusOK, ts.call(t, ListSeasonsProcedure, "", ListSeasonsRequest{}, &seasons))
		require.Len(t, seasons.Seasons, 1)
		assert.Equal(t, ts.seasonID, seasons.Seasons[0].ID)

		var drivers ListDriversResponse
		require.Equal(t, http.StatusOK, ts.call(t, ListDriversProcedure, "", ListDriversRequest{}, &drivers))
		require.Len(t, drivers.Drivers, 2)
		require.NotNil(t, drivers.Drivers[0].Team)
		assert.Equal(t, "Apex Racing", *drivers.Drivers[0].Team)
	})

	t.Run("moving a driver changes the team championship", func(t *testing.T) {
		req := AssignDriverTeamRequest{DriverID: ts.drivers["Bruno"]}
		assert.Equal(t, http.StatusUnauthorized, ts.call(t, AssignDriverTeamProcedure, "", req, nil))

		var moved DriverResponse
		require.Equal(t, http.StatusOK, ts.call(t, AssignDriverTeamProcedure, admin, req, &moved))
		assert.Nil(t, moved.Driver.TeamID)

		var teams TeamStandingsResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetTeamStandingsProcedure, "", SeasonRequest{}, &teams))
		require.Len(t, teams.Standings, 1)
		assert.Equal(t, 25, teams.Standings[0].Points)
		assert.Equal(t, 1, teams.Standings[0].Drivers)

		unknownTeam := int64(999)
		status := ts.call(t, AssignDriverTeamProcedure, admin, AssignDriverTeamRequest{DriverID: ts.drivers["Bruno"], TeamID: &unknownTeam}, nil)
		assert.Equal(t, http.StatusNotFound, status)
		status = ts.call(t, AssignDriverTeamProcedure, admin, AssignDriverTeamRequest{DriverID: 999}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("cancelling a race drops its results", func(t *testing.T) {
		req := SetRaceStatusRequest{RaceID: ts.raceIDs[0], Status: string(domain.RaceCancelled)}
		assert.Equal(t, http.StatusForbidden, ts.call(t, SetRaceStatusProcedure, ts.adminToken(t, "viewer"), req, nil))

		var race RaceResponse
		require.Equal(t, http.StatusOK, ts.call(t, SetRaceStatusProcedure, admin, req, &race))
		assert.Equal(t, string(domain.RaceCancelled), race.Race.Status)

		var resp DriverStandingsResponse
		require.Equal(t, http.StatusOK, ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{}, &resp))
		assert.Empty(t, resp.Standings)
		assert.Equal(t, service.NoticeNoResults, resp.Notice)

		status := ts.call(t, SetRaceStatusProcedure, admin, SetRaceStatusRequest{RaceID: ts.raceIDs[0], Status: "Postponed"}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		status = ts.call(t, SetRaceStatusProcedure, admin, SetRaceStatusRequest{RaceID: 999, Status: string(domain.RaceRunning)}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestStandingsServerWithoutActiveSeason(t *testing.T) {
	ts := newTestServer(t, false)

	var drivers DriverStandingsResponse
	require.Equal(t, http.StatusOK, ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{}, &drivers))
	assert.Nil(t, drivers.Season)
	assert.Empty(t, drivers.Standings)
	assert.Equal(t, service.NoticeNoSeason, drivers.Notice)

	var teams TeamStandingsResponse
	require.Equal(t, http.StatusOK, ts.call(t, GetTeamStandingsProcedure, "", SeasonRequest{}, &teams))
	assert.Empty(t, teams.Standings)
	assert.Equal(t, service.NoticeNoSeason, teams.Notice)

	var overview SeasonOverviewResponse
	require.Equal(t, http.StatusOK, ts.call(t, GetSeasonOverviewProcedure, "", SeasonRequest{}, &overview))
	assert.Nil(t, overview.Season)
	assert.Empty(t, overview.Races)
	assert.Equal(t, service.NoticeNoSeason, overview.Drivers.Notice)

	var position DriverPositionResponse
	require.Equal(t, http.StatusOK, ts.call(t, GetDriverPositionProcedure, "", DriverPositionRequest{DriverID: ts.drivers["Alice"]}, &position))
	assert.False(t, position.Ranked)

	var seasonDrivers DriverStandingsResponse
	require.Equal(t, http.StatusOK, ts.call(t, GetDriverStandingsProcedure, "", SeasonRequest{SeasonID: ts.seasonID}, &seasonDrivers))
	require.NotNil(t, seasonDrivers.Season)
	assert.Equal(t, "Season 2026", seasonDrivers.Season.Name)
	assert.Equal(t, service.NoticeNoResults, seasonDrivers.Notice)
}
