package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					email TEXT UNIQUE NOT NULL,
					name TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS reports (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					location TEXT NOT NULL,
					waste_type TEXT NOT NULL,
					amount TEXT NOT NULL,
					image_url TEXT,
					verification_result TEXT,
					status TEXT NOT NULL DEFAULT 'pending',
					collector_id INTEGER,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id),
					FOREIGN KEY (collector_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_reports_status ON reports(status)`,
				`CREATE INDEX idx_reports_created_at ON reports(created_at)`,

				`CREATE TABLE IF NOT EXISTS rewards (
					user_id INTEGER PRIMARY KEY,
					points INTEGER NOT NULL DEFAULT 0,
					level INTEGER NOT NULL DEFAULT 1,
					collection_info TEXT NOT NULL DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,

				`CREATE TABLE IF NOT EXISTS collected_wastes (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					report_id INTEGER NOT NULL,
					collector_id INTEGER NOT NULL,
					collection_date DATETIME DEFAULT CURRENT_TIMESTAMP,
					status TEXT NOT NULL DEFAULT 'collected',
					verification_result TEXT,
					FOREIGN KEY (report_id) REFERENCES reports(id),
					FOREIGN KEY (collector_id) REFERENCES users(id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add verification attempts for auditing",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS verification_attempts (
					id TEXT PRIMARY KEY,
					report_id INTEGER NOT NULL,
					user_id INTEGER NOT NULL,
					decision TEXT NOT NULL,
					reward INTEGER NOT NULL DEFAULT 0,
					confidence REAL DEFAULT 0,
					error_kind TEXT NOT NULL DEFAULT '',
					raw_output TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (report_id) REFERENCES reports(id),
					FOREIGN KEY (user_id) REFERENCES users(id)
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Optimize database indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_verification_attempts_report_id ON verification_attempts(report_id)`,
				`CREATE INDEX IF NOT EXISTS idx_collected_wastes_report_id ON collected_wastes(report_id)`,
				`CREATE INDEX IF NOT EXISTS idx_reports_collector_id ON reports(collector_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion returns the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate runs all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
