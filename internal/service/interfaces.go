// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/wastewise/internal/model"
)

// TaskFilter narrows collection task queries.
type TaskFilter struct {
	Status   model.TaskStatus
	Location string
	Limit    int
	Offset   int
}

// CollectionRecord is everything persisted when a collection is verified.
type CollectionRecord struct {
	Attempt          *model.VerificationAttempt
	VerificationJSON string
	ReportID         int64
	CollectorID      int64
	Points           int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, email, name string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	// Report and collection task operations
	CreateReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, id int64) (*model.Report, error)
	GetRecentReports(ctx context.Context, limit int) ([]model.Report, error)
	GetCollectionTasks(ctx context.Context, filter TaskFilter) ([]model.Report, error)
	UpdateTaskStatus(ctx context.Context, reportID int64, status model.TaskStatus, collectorID int64) (*model.Report, error)

	// Reward operations
	GetReward(ctx context.Context, userID int64) (*model.Reward, error)
	GetAllRewards(ctx context.Context) ([]model.Reward, error)

	// Verification operations
	SaveVerificationAttempt(ctx context.Context, attempt *model.VerificationAttempt) error
	GetVerificationAttempts(ctx context.Context, reportID int64) ([]model.VerificationAttempt, error)
	RecordCollection(ctx context.Context, record CollectionRecord) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ImpactSummary aggregates the community's overall impact.
type ImpactSummary struct {
	WasteCollected   float64 `json:"wasteCollected"`
	ReportsSubmitted int     `json:"reportsSubmitted"`
	TokensEarned     int     `json:"tokensEarned"`
	CO2Offset        float64 `json:"co2Offset"`
}
