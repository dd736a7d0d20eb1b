package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/desertthunder/spotify-stats/internal/ui"
	"github.com/urfave/cli/v3"
)

const redacted = "********"

// ConfigInit writes the embedded example configuration to --config.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s wrote %s\n", ui.Styles.OK("✓"), path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set spotify.client_id and spotify.redirect_uri from your Spotify app settings\n")
	r.writePlain("2. Set session.secret (or SESSION_SECRET) to a long random string\n")
	r.writePlain("3. Run 'spotify-stats serve'\n")
	return nil
}

// ConfigCheck resolves configuration the way serve does, validates it and prints it with secrets redacted.
func (r *Runner) ConfigCheck(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	shown := *config
	if shown.Session.Secret != "" {
		shown.Session.Secret = redacted
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(shown, true); err != nil {
			return err
		}
	} else {
		data, err := toml.Marshal(shown)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		r.writePlain("%s", data)
	}

	if err := config.Validate(); err != nil {
		r.writePlainln("%s %v", ui.Styles.Err("✗"), err)
		return err
	}

	r.writePlainln("%s configuration is valid", ui.Styles.OK("✓"))
	return nil
}
