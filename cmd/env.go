// ABOUTME: Builds the API client, local storage and session store shared by commands
// ABOUTME: Also maps client errors to exit codes

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/config"
	"github.com/gursheyss/cs157a/internal/localstore"
	"github.com/gursheyss/cs157a/internal/session"
)

// Exit codes
const (
	exitOK       = 0
	exitRejected = 1 // not found, not allowed or invalid input
	exitError    = 2
)

// clientEnv is everything a command needs to talk to the API
type clientEnv struct {
	cfg   *config.Config
	api   *client.Client
	local *localstore.Store
	auth  *session.Store
}

// openClientEnv loads config, restores the saved cookie and builds the
// session store. Local storage is optional: without it the session only
// lasts for one command.
func openClientEnv(ctx context.Context) (*clientEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	rt := &clientEnv{cfg: cfg}
	opts := []client.Option{
		client.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
		client.WithDedupe(cfg.Dedupe),
	}

	local, err := localstore.Open(ctx, cfg.DataDir)
	if err != nil {
		slog.Warn("Local storage unavailable, session will not persist", "error", err)
	} else {
		rt.local = local
		opts = append(opts, client.WithCookieStore(local))
	}

	rt.api = client.New(cfg.APIURL, opts...)
	if rt.local != nil {
		if err := rt.api.LoadCookies(ctx); err != nil {
			slog.Warn("Ignoring saved cookies", "error", err)
		}
		rt.auth = session.New(rt.api, rt.local)
	} else {
		rt.auth = session.New(rt.api, nil)
	}
	return rt, nil
}

func (rt *clientEnv) Close() {
	if rt.local != nil {
		if err := rt.local.Close(); err != nil {
			slog.Warn("Failed to close local storage", "error", err)
		}
	}
}

// withClientEnv opens a clientEnv, runs fn and closes it. Setup failures print
// the error and return exitError.
func withClientEnv(ctx context.Context, w io.Writer, fn func(rt *clientEnv) int) int {
	rt, err := openClientEnv(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer rt.Close()
	return fn(rt)
}

// exitCodeFor maps an error to an exit code: the server saying no (or an
// absent resource) is 1, anything else is 2.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case client.IsKind(err, client.KindHTTP),
		client.IsKind(err, client.KindHTTPStatus),
		client.IsKind(err, client.KindNotFound),
		client.IsKind(err, client.KindValidation):
		return exitRejected
	default:
		return exitError
	}
}

// fail prints err in the CLI's format and returns its exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCodeFor(err)
}

// requireSession checks the saved cookie with the server
func requireSession(ctx context.Context, w io.Writer, rt *clientEnv) (*session.Session, int) {
	if err := rt.auth.Verify(ctx); err != nil {
		if client.StatusCode(err) == 401 || client.StatusCode(err) == 403 {
			fmt.Fprintln(w, `Error: not logged in (run "campus-events login")`)
			return nil, exitRejected
		}
		return nil, fail(w, err)
	}
	return rt.auth.Snapshot().Session, exitOK
}
