package db

import (
	"time"
)

type Season struct {
	ID        int64
	Name      string
	Year      int64
	IsActive  bool
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
	DriverNumber int64
	TeamID       *int64
	TeamName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Race struct {
	ID        int64
	SeasonID  int64
	Name      string
	Track     string
	RaceDate  time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RaceResult struct {
	ID            int64
	RaceID        int64
	DriverID      int64
	Position      *int64
	Points        int64
	PolePosition  bool
	FastestLap    bool
	Dnf           bool
	DnfReason     string
	TimePenalty   int64
	PointsPenalty int64
	Attendance    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Penalty struct {
	ID             string
	DriverID       int64
	RaceID         *int64
	Type           string
	Value          int64
	Reason         string
	AppliedBy      string
	PointsDeducted int64
	CreatedAt      time.Time
}
