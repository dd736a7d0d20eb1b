package main

import (
	"context"

	"github.com/desertthunder/spotify-stats/internal/pkce"
	"github.com/urfave/cli/v3"
)

// PKCE prints a code verifier and its S256 challenge.
func (r *Runner) PKCE(ctx context.Context, cmd *cli.Command) error {
	pair := &pkce.Pair{Verifier: cmd.String("verifier"), Method: pkce.MethodS256}

	if pair.Verifier == "" {
		var err error
		if pair, err = pkce.New(); err != nil {
			return err
		}
	} else {
		pair.Challenge = pkce.Challenge(pair.Verifier)
	}

	if cmd.Bool("json") {
		return r.writeJSON(pair, true)
	}

	r.writePlain("verifier:  %s\n", pair.Verifier)
	r.writePlain("challenge: %s\n", pair.Challenge)
	r.writePlain("method:    %s\n", pair.Method)
	return nil
}
