package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/config"
	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/session"
	"github.com/Veraticus/wastewise/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withSession resolves the acting user once and carries it in the context.
func withSession(ctx context.Context, store service.Storage) (context.Context, error) {
	email := viper.GetString("user.email")
	if email == "" {
		return nil, common.NewUserError("No user selected. Pass --user or set user.email.", session.ErrNoSession)
	}

	user, err := store.GetUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown user %s. Create one with: wastewise user create --email %s", email, email),
			common.ErrUnknownUser)
	}
	if err != nil {
		return nil, err
	}

	return session.WithSession(ctx, session.Session{UserID: user.ID, Email: user.Email}), nil
}

// newClassifier builds the configured classifier client. The returned
// cleanup releases its rate limiter.
func newClassifier(ctx context.Context) (llm.Client, func(), error) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, nil, common.NewUserError("Classifier is not configured", err)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if closer, ok := client.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("Failed to close classifier", "error", err)
			}
		}
	}
	return client, cleanup, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("Invalid task ID %q", arg), err)
	}
	return id, nil
}
