package render

import (
	"bytes"
	"championship/internal/domain"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	colPos     = "Pos"
	colDriver  = "Driver"
	colTeam    = "Team"
	colPoints  = "Pts"
	colWins    = "W"
	colPoles   = "PP"
	colFastest = "FL"
	colDNF     = "DNF"
	colAvg     = "Avg"
	colDrivers = "Drivers"
)

// DriverTable renders driver standings as a rounded text table.
// A compact table keeps only position, driver and points.
func DriverTable(entries []domain.DriverStanding, compact bool) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	if compact {
		t.AppendHeader(table.Row{colPos, colDriver, colPoints})
	} else {
		t.AppendHeader(table.Row{colPos, colDriver, colTeam, colPoints, colWins, colPoles, colFastest, colDNF, colAvg})
	}

	for _, e := range entries {
		s := e.Summary
		if compact {
			t.AppendRow(table.Row{e.Rank, driverName(s), s.TotalPoints})
			continue
		}
		t.AppendRow(table.Row{
			e.Rank,
			driverName(s),
			s.TeamLabel(),
			s.TotalPoints,
			s.Wins,
			s.Poles,
			s.FastestLaps,
			s.DNFs,
			s.AvgPositionLabel(),
		})
	}

	t.Render()
	return b.String()
}

func TeamTable(entries []domain.TeamStanding) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{colPos, colTeam, colPoints, colWins, colPoles, colFastest, colDrivers})
	for _, e := range entries {
		s := e.Summary
		t.AppendRow(table.Row{e.Rank, s.Name, s.TotalPoints, s.Wins, s.Poles, s.FastestLaps, s.DriverCount})
	}

	t.Render()
	return b.String()
}

func driverName(s domain.DriverSummary) string {
	if s.DriverNumber > 0 {
		return fmt.Sprintf("#%d %s", s.DriverNumber, s.Name)
	}
	return s.Name
}
