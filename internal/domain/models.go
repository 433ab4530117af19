package domain

import (
	"time"
)

type Season struct {
	ID        int64
	Name      string
	Year      int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RaceStatus string

const (
	RaceScheduled RaceStatus = "Scheduled"
	RaceRunning   RaceStatus = "Running"
	RaceCompleted RaceStatus = "Completed"
	RaceCancelled RaceStatus = "Cancelled"
)

type Race struct {
	ID        int64
	SeasonID  int64
	Name      string
	Track     string
	RaceDate  time.Time
	Status    RaceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Driver struct {
	ID           int64
	Name         string
	DriverNumber int
	TeamID       *int64 // current team, nil when independent
	TeamName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamRoster is a team together with the drivers currently assigned to it.
type TeamRoster struct {
	Team      Team
	DriverIDs []int64
}

type Attendance string

const (
	AttendancePresent Attendance = "Present"
	AttendanceAbsent  Attendance = "Absent"
	AttendanceExcused Attendance = "Excused"
	AttendanceUnknown Attendance = "Unknown"
)

func (a Attendance) Valid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused, AttendanceUnknown:
		return true
	}
	return false
}

type RaceResult struct {
	RaceID        int64
	DriverID      int64
	Position      *int // nil when unclassified
	Points        int  // already net of PointsPenalty
	Pole          bool
	FastestLap    bool
	DNF           bool
	DNFReason     string
	TimePenalty   int // seconds
	PointsPenalty int
	Attendance    Attendance
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ResultRow is a RaceResult joined with its race and the driver's current
// team. A nil DriverName or RaceSeasonID means the reference did not resolve.
type ResultRow struct {
	RaceResult
	RaceSeasonID *int64
	RaceStatus   RaceStatus
	DriverName   *string
	DriverNumber int
	TeamID       *int64
	TeamName     *string
}

type PenaltyType string

const (
	PenaltyPointsDeduction PenaltyType = "Points Deduction"
	PenaltyTime            PenaltyType = "Time Penalty"
	PenaltyGrid            PenaltyType = "Grid Penalty"
	PenaltyWarning         PenaltyType = "Warning"
)

type Penalty struct {
	ID             string // nanoid
	DriverID       int64
	RaceID         *int64
	Type           PenaltyType
	Value          int
	Reason         string
	AppliedBy      string
	PointsDeducted int // what was actually taken off the result, at most Value
	CreatedAt      time.Time
}

// RaceSummary is a race with its result count and winner, if any.
type RaceSummary struct {
	Race
	Participants int
	Winner       *string
}
