package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/desertthunder/spotify-stats/internal/server"
	"github.com/desertthunder/spotify-stats/internal/session"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the web server until SIGINT/SIGTERM, then drains in-flight requests.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.Bool("dev") {
		config.Server.Dev = true
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := r.newHandler(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		stop()
		cleanup()
	}()

	srv := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       config.Server.ReadTimeout.Duration(),
		WriteTimeout:      config.Server.WriteTimeout.Duration(),
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	url := localURL(config.Server)
	r.logger.Info("server listening", "addr", srv.Addr, "url", url, "store", config.Session.Store, "dev", config.Server.Dev)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(ctx, url); err != nil {
			r.logger.Warn("failed to open browser", "err", err)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newHandler wires the session store, Spotify client and router for config.
//
// The returned cleanup closes the session store and any database it opened.
func (r *Runner) newHandler(ctx context.Context, config *shared.Config) (http.Handler, func(), error) {
	store, closeStore, err := r.newSessionStore(ctx, config)
	if err != nil {
		return nil, nil, err
	}

	secret := []byte(config.Session.Secret)
	if len(secret) == 0 {
		if !config.Server.Dev {
			closeStore()
			return nil, nil, fmt.Errorf("%w: session.secret", shared.ErrMissingConfig)
		}

		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		r.logger.Warn("no session secret configured; using an ephemeral key, sessions end when the process exits")
	}

	sessions, err := session.NewManager(session.ManagerOpts{
		Store:      store,
		Secret:     secret,
		CookieName: config.Session.CookieName,
		TTL:        config.Session.TTL.Duration(),
		Secure:     config.Session.SecureCookie,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	spotify, err := r.spotifyService(config)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	router, err := server.New(server.Opts{Spotify: spotify, Sessions: sessions, Logger: r.logger})
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	return router, closeStore, nil
}

// newSessionStore opens the configured store. The sqlite store gets a pruning loop bound to ctx.
func (r *Runner) newSessionStore(ctx context.Context, config *shared.Config) (session.Store, func(), error) {
	ttl := config.Session.TTL.Duration()

	switch strings.ToLower(config.Session.Store) {
	case shared.StoreSQLite:
		db, err := shared.OpenDatabase(ctx, config.Database)
		if err != nil {
			return nil, nil, err
		}

		applied, err := shared.RunMigrations(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) > 0 {
			r.logger.Info("applied migrations", "versions", applied)
		}

		store := session.NewSQLiteStore(db)
		go r.pruneSessions(ctx, store, ttl)

		return store, func() { store.Close(); db.Close() }, nil
	default:
		store := session.NewMemoryStore(ttl, r.logger)
		return store, func() { store.Close() }, nil
	}
}

func (r *Runner) pruneSessions(ctx context.Context, store *session.SQLiteStore, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx)
			if err != nil {
				r.logger.Warn("failed to prune sessions", "err", err)
				continue
			}
			if n > 0 {
				r.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

// localURL is the address a local browser should open.
func localURL(s shared.ServerConfig) string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprint(s.Port)))
}
