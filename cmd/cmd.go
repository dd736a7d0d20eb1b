// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlags are accepted by every command that reads configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a dotenv file loaded before reading the environment",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// serveCommand starts the web application
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server",
		Flags: append(configFlags(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port and PORT)",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Development mode: allows running without a session secret",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the landing page in the default browser",
			},
		),
		Action: r.Serve,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration file",
				Flags:  configFlags(),
				Action: r.ConfigInit,
			},
			{
				Name:  "check",
				Usage: "Resolve and validate configuration, printing it with secrets redacted",
				Flags: append(configFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.ConfigCheck,
			},
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the session database and run migrations",
				Flags:  configFlags(),
				Action: r.SetupDatabase,
			},
		},
	}
}

func topFlags() []cli.Flag {
	return append(configFlags(),
		&cli.StringFlag{
			Name:     "token",
			Aliases:  []string{"t"},
			Usage:    "Spotify access token (shown after logging in through the web app)",
			Sources:  cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "Only show one time range (last4Weeks, last6Months, allTime)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, markdown, csv, json)",
			Value:   "text",
		},
	)
}

// topCommand prints top items from the terminal
func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Show your top tracks or artists",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "Show top tracks",
				Flags:  topFlags(),
				Action: r.TopTracks,
			},
			{
				Name:   "artists",
				Usage:  "Show top artists",
				Flags:  topFlags(),
				Action: r.TopArtists,
			},
		},
	}
}

// pkceCommand prints a verifier/challenge pair
func pkceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "pkce",
		Usage: "Generate a PKCE code verifier and S256 challenge",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "verifier",
				Usage: "Derive the challenge for an existing verifier instead of generating one",
			},
		},
		Action: r.PKCE,
	}
}
