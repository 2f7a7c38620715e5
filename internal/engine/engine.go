// Package engine ties verification and image analysis to persistence on
// behalf of the session user.
package engine

import (
	"errors"
	"fmt"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/session"
)

// ErrNotAssigned is returned when the session user is not the task's collector.
var ErrNotAssigned = errors.New("task is not assigned to you")

// ErrorKindPersistence marks an accepted attempt whose collection could not be saved.
const ErrorKindPersistence = "persistence"

func sessionError(err error) error {
	if errors.Is(err, session.ErrNoSession) {
		return common.NewUserError("No user selected. Pass --user or set user.email.", err)
	}
	return fmt.Errorf("failed to resolve session: %w", err)
}
