package server

import (
	"championship/internal/domain"
	"championship/internal/service"
	"time"
)

type Season struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	IsActive bool   `json:"isActive"`
}

type Race struct {
	ID           int64   `json:"id"`
	SeasonID     int64   `json:"seasonId"`
	Name         string  `json:"name"`
	Track        string  `json:"track"`
	RaceDate     string  `json:"raceDate"`
	Status       string  `json:"status"`
	Participants int     `json:"participants,omitempty"`
	Winner       *string `json:"winner,omitempty"`
}

type DriverStanding struct {
	Position      int    `json:"position"`
	DriverID      int64  `json:"driverId"`
	Name          string `json:"name"`
	Number        int    `json:"number"`
	TeamID        *int64 `json:"teamId,omitempty"`
	Team          string `json:"team"`
	Points        int    `json:"points"`
	Wins          int    `json:"wins"`
	Podiums       int    `json:"podiums"`
	Poles         int    `json:"poles"`
	FastestLaps   int    `json:"fastestLaps"`
	DNFs          int    `json:"dnfs"`
	Races         int    `json:"races"`
	PenaltyPoints int    `json:"penaltyPoints"`
	AvgPosition   string `json:"avgPosition"`
	BestPosition  *int   `json:"bestPosition,omitempty"`
}

type TeamStanding struct {
	Position    int    `json:"position"`
	TeamID      int64  `json:"teamId"`
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Wins        int    `json:"wins"`
	Poles       int    `json:"poles"`
	FastestLaps int    `json:"fastestLaps"`
	Drivers     int    `json:"drivers"`
}

type Driver struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Number int     `json:"number"`
	TeamID *int64  `json:"teamId,omitempty"`
	Team   *string `json:"team,omitempty"`
}

type Penalty struct {
	ID             string `json:"id"`
	DriverID       int64  `json:"driverId"`
	RaceID         *int64 `json:"raceId,omitempty"`
	Type           string `json:"type"`
	Value          int    `json:"value"`
	PointsDeducted int    `json:"pointsDeducted"`
	Reason         string `json:"reason,omitempty"`
	AppliedBy      string `json:"appliedBy,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

type ListSeasonsRequest struct{}

type ListSeasonsResponse struct {
	Seasons []Season `json:"seasons"`
}

type ListDriversRequest struct{}

type ListDriversResponse struct {
	Drivers []Driver `json:"drivers"`
}

// SeasonRequest selects a season; 0 means the active one.
type SeasonRequest struct {
	SeasonID int64 `json:"seasonId"`
}

// Standings responses carry no season when none exists yet.
type DriverStandingsResponse struct {
	Season    *Season          `json:"season,omitempty"`
	Standings []DriverStanding `json:"standings"`
	Notice    string           `json:"notice,omitempty"`
	Degraded  bool             `json:"degraded,omitempty"`
}

type TeamStandingsResponse struct {
	Season    *Season        `json:"season,omitempty"`
	Standings []TeamStanding `json:"standings"`
	Notice    string         `json:"notice,omitempty"`
	Degraded  bool           `json:"degraded,omitempty"`
}

type DriverPositionRequest struct {
	SeasonID int64 `json:"seasonId"`
	DriverID int64 `json:"driverId"`
}

type DriverPositionResponse struct {
	Ranked   bool            `json:"ranked"`
	Standing *DriverStanding `json:"standing,omitempty"`
}

type SeasonOverviewResponse struct {
	Season  *Season                 `json:"season,omitempty"`
	Races   []Race                  `json:"races"`
	Drivers DriverStandingsResponse `json:"drivers"`
	Teams   TeamStandingsResponse   `json:"teams"`
}

type ResultEntry struct {
	DriverID      int64  `json:"driverId"`
	Position      *int   `json:"position,omitempty"`
	Points        int    `json:"points"`
	Pole          bool   `json:"pole"`
	FastestLap    bool   `json:"fastestLap"`
	DNF           bool   `json:"dnf"`
	DNFReason     string `json:"dnfReason,omitempty"`
	TimePenalty   int    `json:"timePenalty"`
	PointsPenalty int    `json:"pointsPenalty"`
	Attendance    string `json:"attendance,omitempty"`
}

type RecordRaceResultsRequest struct {
	RaceID  int64         `json:"raceId"`
	Results []ResultEntry `json:"results"`
}

type RecordRaceResultsResponse struct {
	Race Race `json:"race"`
}

type ApplyPenaltyRequest struct {
	DriverID int64  `json:"driverId"`
	RaceID   *int64 `json:"raceId,omitempty"`
	Type     string `json:"type"`
	Value    int    `json:"value"`
	Reason   string `json:"reason,omitempty"`
}

type SetRaceStatusRequest struct {
	RaceID int64  `json:"raceId"`
	Status string `json:"status"`
}

type RaceResponse struct {
	Race Race `json:"race"`
}

// AssignDriverTeamRequest moves a driver; a missing teamId makes them
// independent.
type AssignDriverTeamRequest struct {
	DriverID int64  `json:"driverId"`
	TeamID   *int64 `json:"teamId,omitempty"`
}

type DriverResponse struct {
	Driver Driver `json:"driver"`
}

type RemovePenaltyRequest struct {
	PenaltyID string `json:"penaltyId"`
}

type PenaltyResponse struct {
	Penalty Penalty `json:"penalty"`
}

func toSeason(s domain.Season) Season {
	return Season{ID: s.ID, Name: s.Name, Year: s.Year, IsActive: s.IsActive}
}

func toSeasonRef(s domain.Season) *Season {
	if s.ID == 0 {
		return nil
	}
	season := toSeason(s)
	return &season
}

func toDriver(d domain.Driver) Driver {
	return Driver{
		ID:     d.ID,
		Name:   d.Name,
		Number: d.DriverNumber,
		TeamID: d.TeamID,
		Team:   d.TeamName,
	}
}

func toRace(r domain.Race) Race {
	return Race{
		ID:       r.ID,
		SeasonID: r.SeasonID,
		Name:     r.Name,
		Track:    r.Track,
		RaceDate: r.RaceDate.Format(time.RFC3339),
		Status:   string(r.Status),
	}
}

func toDriverStanding(e domain.DriverStanding) DriverStanding {
	s := e.Summary
	return DriverStanding{
		Position:      e.Rank,
		DriverID:      s.DriverID,
		Name:          s.Name,
		Number:        s.DriverNumber,
		TeamID:        s.TeamID,
		Team:          s.TeamLabel(),
		Points:        s.TotalPoints,
		Wins:          s.Wins,
		Podiums:       s.Podiums,
		Poles:         s.Poles,
		FastestLaps:   s.FastestLaps,
		DNFs:          s.DNFs,
		Races:         s.RacesEntered,
		PenaltyPoints: s.PenaltyPoints,
		AvgPosition:   s.AvgPositionLabel(),
		BestPosition:  s.BestPosition,
	}
}

func toDriverStandingsResponse(t *service.Table[domain.DriverSummary]) DriverStandingsResponse {
	resp := DriverStandingsResponse{
		Season:    toSeasonRef(t.Season),
		Standings: make([]DriverStanding, len(t.Entries)),
		Notice:    t.Notice,
		Degraded:  t.Degraded,
	}
	for i, e := range t.Entries {
		resp.Standings[i] = toDriverStanding(e)
	}
	return resp
}

func toTeamStandingsResponse(t *service.Table[domain.TeamSummary]) TeamStandingsResponse {
	resp := TeamStandingsResponse{
		Season:    toSeasonRef(t.Season),
		Standings: make([]TeamStanding, len(t.Entries)),
		Notice:    t.Notice,
		Degraded:  t.Degraded,
	}
	for i, e := range t.Entries {
		s := e.Summary
		resp.Standings[i] = TeamStanding{
			Position:    e.Rank,
			TeamID:      s.TeamID,
			Name:        s.Name,
			Points:      s.TotalPoints,
			Wins:        s.Wins,
			Poles:       s.Poles,
			FastestLaps: s.FastestLaps,
			Drivers:     s.DriverCount,
		}
	}
	return resp
}

func toPenalty(p domain.Penalty) Penalty {
	return Penalty{
		ID:             p.ID,
		DriverID:       p.DriverID,
		RaceID:         p.RaceID,
		Type:           string(p.Type),
		Value:          p.Value,
		PointsDeducted: p.PointsDeducted,
		Reason:         p.Reason,
		AppliedBy:      p.AppliedBy,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toResultEntries(in []ResultEntry) []service.ResultEntry {
	out := make([]service.ResultEntry, len(in))
	for i, e := range in {
		out[i] = service.ResultEntry{
			DriverID:      e.DriverID,
			Position:      e.Position,
			Points:        e.Points,
			Pole:          e.Pole,
			FastestLap:    e.FastestLap,
			DNF:           e.DNF,
			DNFReason:     e.DNFReason,
			TimePenalty:   e.TimePenalty,
			PointsPenalty: e.PointsPenalty,
			Attendance:    domain.Attendance(e.Attendance),
		}
	}
	return out
}
