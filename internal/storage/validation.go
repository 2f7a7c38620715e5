// Package storage provides the data persistence layer for the wastewise application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
)

// Validation errors.
var (
	ErrNilContext              = errors.New("context cannot be nil")
	ErrEmptyString             = errors.New("string parameter cannot be empty")
	ErrNilParameter            = errors.New("parameter cannot be nil")
	ErrInvalidID               = errors.New("invalid id")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrInvalidReport           = errors.New("invalid report")
	ErrInvalidStatus           = errors.New("invalid task status")
	ErrInvalidStatusTransition = errors.New("invalid task status transition")
	ErrNotCollector            = errors.New("task is claimed by another collector")
	ErrInvalidAttempt          = errors.New("invalid verification attempt")
	ErrInvalidCollection       = errors.New("invalid collection record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	return nil
}

// validateReport validates a report before insertion.
func validateReport(report *model.Report) error {
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if report.UserID <= 0 {
		return fmt.Errorf("%w: missing user ID", ErrInvalidReport)
	}
	if strings.TrimSpace(report.Location) == "" {
		return fmt.Errorf("%w: missing location", ErrInvalidReport)
	}
	if strings.TrimSpace(report.WasteType) == "" {
		return fmt.Errorf("%w: missing waste type", ErrInvalidReport)
	}
	if strings.TrimSpace(report.Amount) == "" {
		return fmt.Errorf("%w: missing amount", ErrInvalidReport)
	}
	if report.Status != "" {
		if _, err := model.ParseTaskStatus(string(report.Status)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
	}
	return nil
}

func validateAttempt(attempt *model.VerificationAttempt) error {
	if attempt == nil {
		return fmt.Errorf("%w: attempt", ErrNilParameter)
	}
	if attempt.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAttempt)
	}
	if attempt.ReportID <= 0 || attempt.UserID <= 0 {
		return fmt.Errorf("%w: missing report or user", ErrInvalidAttempt)
	}
	if attempt.Decision == "" {
		return fmt.Errorf("%w: missing decision", ErrInvalidAttempt)
	}
	return nil
}

func validateCollection(record service.CollectionRecord) error {
	if record.ReportID <= 0 || record.CollectorID <= 0 {
		return fmt.Errorf("%w: missing report or collector", ErrInvalidCollection)
	}
	if record.Points < 0 {
		return fmt.Errorf("%w: negative points", ErrInvalidCollection)
	}
	return nil
}
