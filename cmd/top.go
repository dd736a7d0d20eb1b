package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotify-stats/internal/formatter"
	"github.com/desertthunder/spotify-stats/internal/models"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/urfave/cli/v3"
)

// TopTracks prints the user's top tracks.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	return r.top(ctx, cmd, models.CategoryTracks)
}

// TopArtists prints the user's top artists.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	return r.top(ctx, cmd, models.CategoryArtists)
}

func (r *Runner) top(ctx context.Context, cmd *cli.Command, category models.Category) error {
	format := cmd.String("format")
	switch format {
	case formatter.FormatText, formatter.FormatMarkdown, formatter.FormatCSV, formatter.FormatJSON:
	default:
		return fmt.Errorf("%w: --format must be text, markdown, csv or json", shared.ErrInvalidArgument)
	}

	only := ""
	if name := cmd.String("range"); name != "" {
		tr, ok := models.LookupTimeRange(name)
		if !ok {
			return fmt.Errorf("%w: --range must be last4Weeks, last6Months or allTime", shared.ErrInvalidArgument)
		}
		only = tr.Key
	}

	token := cmd.String("token")
	if token == "" {
		return fmt.Errorf("%w: --token", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	spotify, err := r.spotifyService(config)
	if err != nil {
		return err
	}

	r.logger.Debug("fetching top items", "category", category, "range", only)

	items, err := spotify.TopItems(ctx, token, category)
	if err != nil {
		return fmt.Errorf("failed to fetch top %s: %w", category, err)
	}

	out, err := formatter.Render(format, category, items, only)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if format == formatter.FormatJSON {
		return r.writePlain("\n")
	}
	return nil
}
