// Package session carries the acting user's identity through a context.
package session

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when a context carries no session.
var ErrNoSession = errors.New("no active session")

// Session identifies the user a command acts on behalf of.
type Session struct {
	Email  string
	UserID int64
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok || s.UserID == 0 {
		return Session{}, ErrNoSession
	}
	return s, nil
}
