package model

import "time"

// PointsPerLevel is how many reward points advance a user one level.
const PointsPerLevel = 100

// Reward is a user's accumulated reward balance.
type Reward struct {
	UpdatedAt      time.Time
	Name           string
	CollectionInfo string
	UserID         int64
	Points         int
	Level          int
}

// LevelForPoints returns the level reached with the given points.
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	return 1 + points/PointsPerLevel
}

// CollectedWaste records a verified collection.
type CollectedWaste struct {
	CollectionDate   time.Time
	Status           string
	VerificationJSON string
	ID               int64
	ReportID         int64
	CollectorID      int64
}

// VerificationAttempt is the audit record of one verification attempt.
type VerificationAttempt struct {
	CreatedAt  time.Time
	ID         string
	Decision   string
	ErrorKind  string
	RawOutput  string
	ReportID   int64
	UserID     int64
	Confidence float64
	Reward     int
}
