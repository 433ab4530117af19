package service

import (
	"championship/internal/domain"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	csvHeader = []string{
		"Position", "Driver", "Number", "Team", "Points", "Races", "Wins",
		"Podiums", "Poles", "Fastest Laps", "DNFs", "Avg Position", "Best Position",
	}
	penaltyCSVHeader = []string{
		"Race", "Driver", "Number", "Team", "Type", "Value", "Points Deducted",
		"Reason", "Applied By", "Issued At",
	}
	resultCSVHeader = []string{
		"Race", "Track", "Date", "Position", "Driver", "Number", "Team", "Points",
		"Pole", "Fastest Lap", "DNF", "DNF Reason", "Time Penalty", "Points Penalty", "Attendance",
	}
)

type PenaltyLister interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]domain.Penalty, error)
}

type RaceResultReader interface {
	GetByRace(ctx context.Context, raceID int64) ([]domain.RaceResult, error)
}

type DriverLister interface {
	Drivers(ctx context.Context) ([]domain.Driver, error)
}

type ExportService struct {
	standings *StandingsService
	races     RaceStore
	results   RaceResultReader
	penalties PenaltyLister
	drivers   DriverLister
	logger    zerolog.Logger
}

func NewExportService(
	standings *StandingsService,
	races RaceStore,
	results RaceResultReader,
	penalties PenaltyLister,
	drivers DriverLister,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		standings: standings,
		races:     races,
		results:   results,
		penalties: penalties,
		drivers:   drivers,
		logger:    logger,
	}
}

// StandingsCSV writes the season's driver standings as CSV. Unlike the
// display tables it fails instead of degrading.
func (s *ExportService) StandingsCSV(ctx context.Context, w io.Writer, seasonID int64) (*domain.Season, error) {
	season, err := s.standings.ResolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	entries, err := s.standings.driverStandings(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute driver standings: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := cw.Write(csvRecord(e)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	s.logger.Info().Int64("season_id", season.ID).Int("rows", len(entries)).Msg("standings exported")
	return season, nil
}

// PenaltiesCSV writes every penalty issued at one of the season's races,
// newest first.
func (s *ExportService) PenaltiesCSV(ctx context.Context, w io.Writer, seasonID int64) (*domain.Season, error) {
	season, err := s.standings.ResolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	penalties, err := s.penalties.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}
	races, err := s.races.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	drivers, err := s.driverIndex(ctx)
	if err != nil {
		return nil, err
	}

	raceNames := make(map[int64]string, len(races))
	for _, r := range races {
		raceNames[r.ID] = r.Name
	}

	records := make([][]string, 0, len(penalties)+1)
	records = append(records, penaltyCSVHeader)
	for _, p := range penalties {
		race := ""
		if p.RaceID != nil {
			race = raceNames[*p.RaceID]
		}
		name, number, team := driverColumns(drivers, p.DriverID)
		records = append(records, []string{
			race,
			name,
			number,
			team,
			string(p.Type),
			strconv.Itoa(p.Value),
			strconv.Itoa(p.PointsDeducted),
			p.Reason,
			p.AppliedBy,
			p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if err := writeCSV(w, records); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("season_id", season.ID).Int("rows", len(penalties)).Msg("penalties exported")
	return season, nil
}

// RaceResultsCSV writes one race's result sheet in finishing order.
func (s *ExportService) RaceResultsCSV(ctx context.Context, w io.Writer, raceID int64) (*domain.Race, error) {
	race, err := s.races.Get(ctx, raceID)
	if err != nil {
		return nil, err
	}

	results, err := s.results.GetByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load race results: %w", err)
	}
	drivers, err := s.driverIndex(ctx)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(results)+1)
	records = append(records, resultCSVHeader)
	for _, r := range results {
		position := ""
		if r.Position != nil {
			position = strconv.Itoa(*r.Position)
		}
		name, number, team := driverColumns(drivers, r.DriverID)
		records = append(records, []string{
			race.Name,
			race.Track,
			race.RaceDate.UTC().Format(time.DateOnly),
			position,
			name,
			number,
			team,
			strconv.Itoa(r.Points),
			strconv.FormatBool(r.Pole),
			strconv.FormatBool(r.FastestLap),
			strconv.FormatBool(r.DNF),
			r.DNFReason,
			strconv.Itoa(r.TimePenalty),
			strconv.Itoa(r.PointsPenalty),
			string(r.Attendance),
		})
	}

	if err := writeCSV(w, records); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("race_id", raceID).Int("rows", len(results)).Msg("race results exported")
	return race, nil
}

func (s *ExportService) driverIndex(ctx context.Context) (map[int64]domain.Driver, error) {
	drivers, err := s.drivers.Drivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	index := make(map[int64]domain.Driver, len(drivers))
	for _, d := range drivers {
		index[d.ID] = d
	}
	return index, nil
}

// driverColumns returns name, number and team for a driver. Unknown drivers
// are written with their id so the row is still traceable.
func driverColumns(drivers map[int64]domain.Driver, id int64) (string, string, string) {
	d, ok := drivers[id]
	if !ok {
		return fmt.Sprintf("#%d", id), "", ""
	}
	team := "Independent"
	if d.TeamName != nil {
		team = *d.TeamName
	}
	return d.Name, strconv.Itoa(d.DriverNumber), team
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func csvRecord(e domain.DriverStanding) []string {
	s := e.Summary
	best := ""
	if s.BestPosition != nil {
		best = strconv.Itoa(*s.BestPosition)
	}
	return []string{
		strconv.Itoa(e.Rank),
		s.Name,
		strconv.Itoa(s.DriverNumber),
		s.TeamLabel(),
		strconv.Itoa(s.TotalPoints),
		strconv.Itoa(s.RacesEntered),
		strconv.Itoa(s.Wins),
		strconv.Itoa(s.Podiums),
		strconv.Itoa(s.Poles),
		strconv.Itoa(s.FastestLaps),
		strconv.Itoa(s.DNFs),
		s.AvgPositionLabel(),
		best,
	}
}
