package standings

import (
	"championship/internal/domain"
	"cmp"
	"slices"
)

type tally struct {
	summary     domain.DriverSummary
	positionSum int
	classified  int
}

// Aggregate reduces a season's result rows into one summary per driver.
// Rows of cancelled races are ignored. Drivers in roster without any result
// row are emitted as zero summaries; pass a nil roster to skip them.
// Summaries are returned ordered by driver ID.
func Aggregate(seasonID int64, rows []domain.ResultRow, roster []domain.Driver) ([]domain.DriverSummary, error) {
	tallies := make(map[int64]*tally)

	for _, row := range rows {
		if err := validateRow(seasonID, row); err != nil {
			return nil, err
		}
		if row.RaceStatus == domain.RaceCancelled {
			continue
		}

		t, ok := tallies[row.DriverID]
		if !ok {
			t = &tally{summary: domain.DriverSummary{
				DriverID:     row.DriverID,
				Name:         *row.DriverName,
				DriverNumber: row.DriverNumber,
				TeamID:       row.TeamID,
				TeamName:     row.TeamName,
			}}
			tallies[row.DriverID] = t
		}
		t.add(row.RaceResult)
	}

	for _, d := range roster {
		if _, ok := tallies[d.ID]; ok {
			continue
		}
		tallies[d.ID] = &tally{summary: domain.DriverSummary{
			DriverID:     d.ID,
			Name:         d.Name,
			DriverNumber: d.DriverNumber,
			TeamID:       d.TeamID,
			TeamName:     d.TeamName,
		}}
	}

	summaries := make([]domain.DriverSummary, 0, len(tallies))
	for _, t := range tallies {
		summaries = append(summaries, t.finish())
	}
	slices.SortFunc(summaries, func(a, b domain.DriverSummary) int {
		return cmp.Compare(a.DriverID, b.DriverID)
	})
	return summaries, nil
}

func (t *tally) add(r domain.RaceResult) {
	s := &t.summary
	s.RacesEntered++
	s.TotalPoints += r.Points
	s.PenaltyPoints += r.PointsPenalty
	if r.Pole {
		s.Poles++
	}
	if r.FastestLap {
		s.FastestLaps++
	}
	if r.DNF {
		s.DNFs++
		return
	}
	if r.Position == nil {
		return
	}

	pos := *r.Position
	if pos == 1 {
		s.Wins++
	}
	if pos <= 3 {
		s.Podiums++
	}
	if s.BestPosition == nil || pos < *s.BestPosition {
		best := pos
		s.BestPosition = &best
	}
	t.positionSum += pos
	t.classified++
}

func (t *tally) finish() domain.DriverSummary {
	s := t.summary
	if t.classified > 0 {
		avg := float64(t.positionSum) / float64(t.classified)
		s.AvgPosition = &avg
	}
	return s
}

func validateRow(seasonID int64, row domain.ResultRow) error {
	corrupt := func(reason string) error {
		return &CorruptDataError{RaceID: row.RaceID, DriverID: row.DriverID, Reason: reason}
	}

	if row.DriverName == nil {
		return corrupt("driver does not exist")
	}
	if row.RaceSeasonID == nil {
		return corrupt("race does not exist")
	}
	if *row.RaceSeasonID != seasonID {
		return corrupt("race belongs to another season")
	}
	if row.Position != nil && *row.Position < 1 {
		return corrupt("finishing position below 1")
	}
	if row.Attendance != "" && !row.Attendance.Valid() {
		return corrupt("unknown attendance " + string(row.Attendance))
	}
	return nil
}
