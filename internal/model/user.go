// Package model defines the core domain models used throughout the application.
package model

import "time"

// User is a participant who reports or collects waste.
type User struct {
	CreatedAt time.Time
	Email     string
	Name      string
	ID        int64
}
