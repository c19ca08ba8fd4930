package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amar-295/student-finance-db-sub001/internal/storage/sqlite"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Create or update the database schema to the latest version.

The server also migrates on startup; this command is for preparing a
database ahead of a deploy.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			slog.Info("Starting database migration", "database", cfg.Database.Path)
			if err := sqlite.RunMigrations(cfg.Database.Path); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Database is up to date", "database", cfg.Database.Path)
			return nil
		},
	}
}
