// Package testutil provides test utilities for the wastewise project: an
// isolated, migrated database plus helpers for seeding users and reports.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/session"
	"github.com/Veraticus/wastewise/internal/storage"
)

// PNGHeader is the smallest byte sequence sniffed as image/png.
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	ctx := db.UserContext("ana")
//	report := db.CreateReport(ctx, "Pier 4", "plastic", "2 kg")
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// UserContext creates the user <name>@example.com and returns a context
// carrying its session.
func (db *TestDB) UserContext(name string) context.Context {
	db.t.Helper()

	user, err := db.Storage.CreateUser(context.Background(), name+"@example.com", name)
	if err != nil {
		db.t.Fatalf("failed to create user %q: %v", name, err)
	}
	return session.WithSession(context.Background(), session.Session{UserID: user.ID, Email: user.Email})
}

// UserID returns the user ID of the session in ctx.
func (db *TestDB) UserID(ctx context.Context) int64 {
	db.t.Helper()

	sess, err := session.FromContext(ctx)
	if err != nil {
		db.t.Fatalf("context has no session: %v", err)
	}
	return sess.UserID
}

// CreateReport files a pending report owned by the session user in ctx.
func (db *TestDB) CreateReport(ctx context.Context, location, wasteType, amount string) *model.Report {
	db.t.Helper()

	report := &model.Report{
		UserID:    db.UserID(ctx),
		Location:  location,
		WasteType: wasteType,
		Amount:    amount,
	}
	if err := db.Storage.CreateReport(context.Background(), report); err != nil {
		db.t.Fatalf("failed to create report: %v", err)
	}
	return report
}

// WriteImage writes a tiny PNG into a temp dir and returns its path.
func WriteImage(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, PNGHeader, 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}
