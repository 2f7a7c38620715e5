package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), Session{UserID: 7, Email: "  Ada@Example.com "})

	s, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, "ada@example.com", s.Email)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = FromContext(WithSession(context.Background(), Session{Email: "anon@example.com"}))
	assert.ErrorIs(t, err, ErrNoSession)
}
