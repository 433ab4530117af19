package domain

import "fmt"

type DriverSummary struct {
	DriverID      int64
	Name          string
	DriverNumber  int
	TeamID        *int64
	TeamName      *string
	TotalPoints   int
	Wins          int
	Podiums       int
	Poles         int
	FastestLaps   int
	DNFs          int
	RacesEntered  int
	PenaltyPoints int
	AvgPosition   *float64 // nil without a classified finish
	BestPosition  *int
}

// AvgPositionLabel renders the average finishing position, "N/A" when undefined.
func (s DriverSummary) AvgPositionLabel() string {
	if s.AvgPosition == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *s.AvgPosition)
}

func (s DriverSummary) TeamLabel() string {
	if s.TeamName == nil {
		return "Independent"
	}
	return *s.TeamName
}

type TeamSummary struct {
	TeamID      int64
	Name        string
	TotalPoints int
	Wins        int
	Poles       int
	FastestLaps int
	DriverCount int
}

// StandingsEntry is a summary placed at a 1-based rank.
type StandingsEntry[T any] struct {
	Rank    int
	Summary T
}

type DriverStanding = StandingsEntry[DriverSummary]

type TeamStanding = StandingsEntry[TeamSummary]
