package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/desertthunder/spotify-stats/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the session database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	r.writePlain("%s database ready at %s (schema version %d, %d applied)\n",
		ui.Styles.OK("✓"), config.Database.Path, version, len(applied))
	if !strings.EqualFold(config.Session.Store, shared.StoreSQLite) {
		r.writePlain("%s\n", ui.Styles.Help(`set session.store = "sqlite" (or SESSION_STORE=sqlite) to use it`))
	}
	return nil
}
