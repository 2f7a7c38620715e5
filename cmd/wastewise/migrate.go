package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/wastewise/internal/cli"
	"github.com/Veraticus/wastewise/internal/config"
	"github.com/Veraticus/wastewise/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on startup; this one is for checking
the schema or preparing a database ahead of time.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Database %s is at schema version %d (latest %d)",
			dbPath, current, storage.ExpectedSchemaVersion)))
		return nil
	}

	slog.Info("Running database migrations", "database", dbPath)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return nil
}
