package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/cinefav/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
//
// --status lists migrations without applying them; --rollback reverts the latest one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	if dir := filepath.Dir(path); path != shared.MemoryPath && dir != "." {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	r.logger.Info("opening database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database)

	switch {
	case cmd.Bool("status"):
		status, err := shared.MigrationStatus(db)
		if err != nil {
			return err
		}
		r.writePlainHeader("Migrations · " + path)
		for _, m := range status {
			state := "pending"
			if m.Applied {
				state = "applied " + m.AppliedAt.Local().Format(time.DateTime)
			}
			r.writePlain("%03d  %-32s  %s\n", m.Version, m.Name, state)
		}
		return nil

	case cmd.Bool("rollback"):
		r.logger.Warn("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		return r.writePlain("✓ Rolled back latest migration\n")
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s\n", path)
}

// SetupConfig writes the example configuration to --path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = cmd.String("config")
	}
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set backend.base_url to your favorites API (or %s)\n", shared.EnvAPIURL)
	r.writePlain("2. Set catalog.api_key to your TMDB key (or %s)\n", shared.EnvTMDBKey)
	r.writePlain("3. Run 'cinefav setup database'\n")
	return nil
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Show applied and pending migrations",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file (default: --config)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
