package model

import (
	"fmt"
	"time"
)

// TaskStatus is the collection lifecycle of a report.
type TaskStatus string

// Task status values.
const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskVerified   TaskStatus = "verified"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress},
	TaskInProgress: {TaskCompleted, TaskVerified},
	TaskCompleted:  {TaskVerified},
}

// ParseTaskStatus converts a string to a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch status := TaskStatus(s); status {
	case TaskPending, TaskInProgress, TaskCompleted, TaskVerified:
		return status, nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

// CanTransitionTo reports whether a task may move from s to next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Verifiable reports whether a task in this status may be verified.
func (s TaskStatus) Verifiable() bool {
	return s.CanTransitionTo(TaskVerified)
}

// Report is a user's waste report. Each report is also a collection task.
type Report struct {
	CreatedAt        time.Time
	CollectorID      *int64
	Location         string
	WasteType        string
	Amount           string
	ImageURL         string
	VerificationJSON string
	Status           TaskStatus
	ID               int64
	UserID           int64
}
