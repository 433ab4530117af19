package server

import (
	"bytes"
	"championship/internal/auth"
	"championship/internal/domain"
	"championship/internal/repository"
	"championship/internal/service"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	StandingsServiceName = "championship.v1.Standings"
	StandingsPath        = "/" + StandingsServiceName + "/"

	GetDriverStandingsProcedure = StandingsPath + "GetDriverStandings"
	GetTeamStandingsProcedure   = StandingsPath + "GetTeamStandings"
	GetDriverPositionProcedure  = StandingsPath + "GetDriverPosition"
	GetSeasonOverviewProcedure  = StandingsPath + "GetSeasonOverview"
	RecordRaceResultsProcedure  = StandingsPath + "RecordRaceResults"
	ApplyPenaltyProcedure       = StandingsPath + "ApplyPenalty"
	RemovePenaltyProcedure      = StandingsPath + "RemovePenalty"
	SetRaceStatusProcedure      = StandingsPath + "SetRaceStatus"
	AssignDriverTeamProcedure   = StandingsPath + "AssignDriverTeam"
	ListSeasonsProcedure        = StandingsPath + "ListSeasons"
	ListDriversProcedure        = StandingsPath + "ListDrivers"

	ExportsPath         = "/exports/"
	StandingsExportPath = ExportsPath + "standings.csv"
	PenaltiesExportPath = ExportsPath + "penalties.csv"
	ResultsExportPath   = ExportsPath + "results.csv"
)

type StandingsServer struct {
	standingsSvc *service.StandingsService
	resultSvc    *service.ResultService
	rosterSvc    *service.RosterService
	exportSvc    *service.ExportService
	jwt          *auth.JWTService
	logger       zerolog.Logger
}

func NewStandingsServer(
	standingsSvc *service.StandingsService,
	resultSvc *service.ResultService,
	rosterSvc *service.RosterService,
	exportSvc *service.ExportService,
	jwt *auth.JWTService,
	logger zerolog.Logger,
) *StandingsServer {
	return &StandingsServer{
		standingsSvc: standingsSvc,
		resultSvc:    resultSvc,
		rosterSvc:    rosterSvc,
		exportSvc:    exportSvc,
		jwt:          jwt,
		logger:       logger,
	}
}

// Handler returns the path prefix and handler for every standings procedure.
func (s *StandingsServer) Handler() (string, http.Handler) {
	codec := connect.WithCodec(jsonCodec{})
	admin := connect.WithInterceptors(s.adminInterceptor())

	handlers := map[string]http.Handler{
		GetDriverStandingsProcedure: connect.NewUnaryHandler(GetDriverStandingsProcedure, s.GetDriverStandings, codec),
		GetTeamStandingsProcedure:   connect.NewUnaryHandler(GetTeamStandingsProcedure, s.GetTeamStandings, codec),
		GetDriverPositionProcedure:  connect.NewUnaryHandler(GetDriverPositionProcedure, s.GetDriverPosition, codec),
		GetSeasonOverviewProcedure:  connect.NewUnaryHandler(GetSeasonOverviewProcedure, s.GetSeasonOverview, codec),
		RecordRaceResultsProcedure:  connect.NewUnaryHandler(RecordRaceResultsProcedure, s.RecordRaceResults, codec, admin),
		ApplyPenaltyProcedure:       connect.NewUnaryHandler(ApplyPenaltyProcedure, s.ApplyPenalty, codec, admin),
		RemovePenaltyProcedure:      connect.NewUnaryHandler(RemovePenaltyProcedure, s.RemovePenalty, codec, admin),
		SetRaceStatusProcedure:      connect.NewUnaryHandler(SetRaceStatusProcedure, s.SetRaceStatus, codec, admin),
		AssignDriverTeamProcedure:   connect.NewUnaryHandler(AssignDriverTeamProcedure, s.AssignDriverTeam, codec, admin),
		ListSeasonsProcedure:        connect.NewUnaryHandler(ListSeasonsProcedure, s.ListSeasons, codec),
		ListDriversProcedure:        connect.NewUnaryHandler(ListDriversProcedure, s.ListDrivers, codec),
	}

	return StandingsPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func (s *StandingsServer) GetDriverStandings(ctx context.Context, req *connect.Request[SeasonRequest]) (*connect.Response[DriverStandingsResponse], error) {
	table, err := s.standingsSvc.DriverTable(ctx, req.Msg.SeasonID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := toDriverStandingsResponse(table)
	return connect.NewResponse(&resp), nil
}

func (s *StandingsServer) GetTeamStandings(ctx context.Context, req *connect.Request[SeasonRequest]) (*connect.Response[TeamStandingsResponse], error) {
	table, err := s.standingsSvc.TeamTable(ctx, req.Msg.SeasonID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := toTeamStandingsResponse(table)
	return connect.NewResponse(&resp), nil
}

func (s *StandingsServer) GetDriverPosition(ctx context.Context, req *connect.Request[DriverPositionRequest]) (*connect.Response[DriverPositionResponse], error) {
	if req.Msg.DriverID <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("driverId is required"))
	}

	standing, err := s.standingsSvc.DriverPosition(ctx, req.Msg.SeasonID, req.Msg.DriverID)
	if errors.Is(err, service.ErrNotRanked) {
		return connect.NewResponse(&DriverPositionResponse{}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	ds := toDriverStanding(*standing)
	return connect.NewResponse(&DriverPositionResponse{Ranked: true, Standing: &ds}), nil
}

func (s *StandingsServer) GetSeasonOverview(ctx context.Context, req *connect.Request[SeasonRequest]) (*connect.Response[SeasonOverviewResponse], error) {
	overview, err := s.standingsSvc.Overview(ctx, req.Msg.SeasonID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &SeasonOverviewResponse{
		Season:  toSeasonRef(overview.Season),
		Races:   make([]Race, len(overview.Races)),
		Drivers: toDriverStandingsResponse(overview.Drivers),
		Teams:   toTeamStandingsResponse(overview.Teams),
	}
	for i, r := range overview.Races {
		race := toRace(r.Race)
		race.Participants = r.Participants
		race.Winner = r.Winner
		resp.Races[i] = race
	}
	return connect.NewResponse(resp), nil
}

func (s *StandingsServer) RecordRaceResults(ctx context.Context, req *connect.Request[RecordRaceResultsRequest]) (*connect.Response[RecordRaceResultsResponse], error) {
	race, err := s.resultSvc.RecordRaceResults(ctx, req.Msg.RaceID, toResultEntries(req.Msg.Results))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RecordRaceResultsResponse{Race: toRace(*race)}), nil
}

func (s *StandingsServer) ApplyPenalty(ctx context.Context, req *connect.Request[ApplyPenaltyRequest]) (*connect.Response[PenaltyResponse], error) {
	penalty := domain.Penalty{
		DriverID: req.Msg.DriverID,
		RaceID:   req.Msg.RaceID,
		Type:     domain.PenaltyType(req.Msg.Type),
		Value:    req.Msg.Value,
		Reason:   req.Msg.Reason,
	}
	if claims, ok := auth.FromContext(ctx); ok {
		penalty.AppliedBy = claims.Steward
	}

	applied, err := s.resultSvc.ApplyPenalty(ctx, penalty)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PenaltyResponse{Penalty: toPenalty(*applied)}), nil
}

func (s *StandingsServer) RemovePenalty(ctx context.Context, req *connect.Request[RemovePenaltyRequest]) (*connect.Response[PenaltyResponse], error) {
	removed, err := s.resultSvc.RemovePenalty(ctx, req.Msg.PenaltyID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PenaltyResponse{Penalty: toPenalty(*removed)}), nil
}

func (s *StandingsServer) SetRaceStatus(ctx context.Context, req *connect.Request[SetRaceStatusRequest]) (*connect.Response[RaceResponse], error) {
	race, err := s.resultSvc.SetRaceStatus(ctx, req.Msg.RaceID, domain.RaceStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RaceResponse{Race: toRace(*race)}), nil
}

func (s *StandingsServer) AssignDriverTeam(ctx context.Context, req *connect.Request[AssignDriverTeamRequest]) (*connect.Response[DriverResponse], error) {
	driver, err := s.rosterSvc.AssignDriverTeam(ctx, req.Msg.DriverID, req.Msg.TeamID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DriverResponse{Driver: toDriver(*driver)}), nil
}

func (s *StandingsServer) ListSeasons(ctx context.Context, _ *connect.Request[ListSeasonsRequest]) (*connect.Response[ListSeasonsResponse], error) {
	seasons, err := s.rosterSvc.ListSeasons(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListSeasonsResponse{Seasons: make([]Season, len(seasons))}
	for i, season := range seasons {
		resp.Seasons[i] = toSeason(season)
	}
	return connect.NewResponse(resp), nil
}

func (s *StandingsServer) ListDrivers(ctx context.Context, _ *connect.Request[ListDriversRequest]) (*connect.Response[ListDriversResponse], error) {
	drivers, err := s.rosterSvc.ListDrivers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListDriversResponse{Drivers: make([]Driver, len(drivers))}
	for i, d := range drivers {
		resp.Drivers[i] = toDriver(d)
	}
	return connect.NewResponse(resp), nil
}

// csvExport writes one download and returns its file name. id comes from
// the query parameter named param.
type csvExport struct {
	param    string
	required bool
	write    func(ctx context.Context, w io.Writer, id int64) (string, error)
}

// ExportHandler serves the CSV downloads under ExportsPath.
func (s *StandingsServer) ExportHandler() http.Handler {
	exports := map[string]csvExport{
		StandingsExportPath: {
			param: "season_id",
			write: func(ctx context.Context, w io.Writer, id int64) (string, error) {
				season, err := s.exportSvc.StandingsCSV(ctx, w, id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("standings-%d.csv", season.Year), nil
			},
		},
		PenaltiesExportPath: {
			param: "season_id",
			write: func(ctx context.Context, w io.Writer, id int64) (string, error) {
				season, err := s.exportSvc.PenaltiesCSV(ctx, w, id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("penalties-%d.csv", season.Year), nil
			},
		},
		ResultsExportPath: {
			param:    "race_id",
			required: true,
			write: func(ctx context.Context, w io.Writer, id int64) (string, error) {
				race, err := s.exportSvc.RaceResultsCSV(ctx, w, id)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("results-race-%d.csv", race.ID), nil
			},
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		export, ok := exports[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var id int64
		raw := r.URL.Query().Get(export.param)
		if raw == "" && export.required {
			http.Error(w, export.param+" is required", http.StatusBadRequest)
			return
		}
		if raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 || (export.required && parsed == 0) {
				http.Error(w, "invalid "+export.param, http.StatusBadRequest)
				return
			}
			id = parsed
		}

		var buf bytes.Buffer
		filename, err := export.write(r.Context(), &buf, id)
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Int64(export.param, id).Msg("csv export failed")
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		w.Write(buf.Bytes())
	})
}

func (s *StandingsServer) adminInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token := auth.BearerToken(req.Header().Get("Authorization"))
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("missing bearer token"))
			}

			claims, err := s.jwt.Admin(token)
			if err != nil {
				s.logger.Warn().Err(err).Str("procedure", req.Spec().Procedure).Msg("admin call rejected")
				return nil, toConnectError(err)
			}

			return next(auth.NewContext(ctx, claims), req)
		}
	}
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, service.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, service.ErrRaceCancelled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
