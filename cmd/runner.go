package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/services"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	spotify    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config and Spotify are normally resolved per command from flags; setting them pins the values (tests do this).
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		spotify:    opts.Spotify,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, configCommand, setupCommand, topCommand, pkceCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves configuration from the --config and --env-file flags and applies --log-level.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config
	if config == nil {
		var err error
		if config, err = shared.ResolveConfig(cmd.String("config"), cmd.String("env-file")); err != nil {
			return nil, err
		}
	}

	level := config.LogLevel
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return nil, err
	}

	return config, nil
}

// spotifyService returns the pinned service or builds a client from config.
func (r *Runner) spotifyService(config *shared.Config) (services.Service, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	return services.NewSpotifyClient(services.SpotifyOpts{
		ClientID:    config.Spotify.ClientID,
		RedirectURI: config.Spotify.RedirectURI,
		AccountsURL: config.Spotify.AccountsURL,
		APIURL:      config.Spotify.APIURL,
		Timeout:     config.Spotify.Timeout.Duration(),
		RateLimit:   config.Spotify.RateLimit,
		HTTPClient:  r.httpClient,
		Logger:      r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
