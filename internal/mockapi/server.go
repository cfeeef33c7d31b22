// ABOUTME: In-memory campus events API used for local development and tests
// ABOUTME: Wires store, token and session services into a method-aware ServeMux

package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gursheyss/cs157a/internal/config"
	"github.com/gursheyss/cs157a/internal/mockapi/cache"
	"github.com/gursheyss/cs157a/internal/mockapi/handlers"
	"github.com/gursheyss/cs157a/internal/mockapi/middleware"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

const (
	defaultTokenTTL = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	RateLimit     int // requests per minute per client, 0 disables
	Seed          bool
	SecureCookies bool
	BcryptCost    int
}

// OptionsFromConfig maps the devserver section of the config file
func OptionsFromConfig(c config.DevServerConfig) Options {
	return Options{
		JWTSecret:     c.JWTSecret,
		RateLimit:     c.RateLimit,
		Seed:          c.Seed,
		SecureCookies: c.SecureCookies,
	}
}

// Server is the mock backend
type Server struct {
	store    *services.Store
	cache    *cache.Cache
	limiter  *middleware.RateLimiter
	tokens   *services.TokenService
	sessions *services.SessionService
	handler  *handlers.Handler
}

// New builds a server, seeding demo data when asked
func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	store := services.NewStore()
	hasher := services.NewHasher(opts.BcryptCost)
	if opts.Seed {
		if err := services.Seed(store, hasher, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	c := cache.New(ttl)
	s := &Server{
		store:    store,
		cache:    c,
		tokens:   services.NewTokenService(opts.JWTSecret, ttl),
		sessions: services.NewSessionService(c),
	}
	if opts.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(opts.RateLimit, 10*time.Minute)
	}
	s.handler = handlers.NewHandler(handlers.Deps{
		Store:         store,
		Tokens:        s.tokens,
		Sessions:      s.sessions,
		Hasher:        hasher,
		SecureCookies: opts.SecureCookies,
	})
	return s, nil
}

// Store exposes the backing store for tests and seeding
func (s *Server) Store() *services.Store {
	return s.store
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.handler.Routes() {
		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler, s.middlewareFor(route.Access)...))
	}
	return mux
}

func (s *Server) middlewareFor(access handlers.Access) []middleware.Middleware {
	mws := []middleware.Middleware{
		middleware.LogRequest,
		middleware.RateLimit(s.limiter, middleware.SessionKey),
	}
	switch access {
	case handlers.AccessUser:
		mws = append(mws, middleware.Auth(s.authConfig(middleware.AuthModeRequired)))
	case handlers.AccessOrganizer:
		mws = append(mws,
			middleware.Auth(s.authConfig(middleware.AuthModeRequired)),
			middleware.RequireRole(models.RoleOrganizer),
		)
	default:
		mws = append(mws, middleware.Auth(s.authConfig(middleware.AuthModeOptional)))
	}
	return mws
}

func (s *Server) authConfig(mode middleware.AuthMode) middleware.AuthConfig {
	return middleware.AuthConfig{
		Mode:     mode,
		Tokens:   s.tokens,
		Sessions: s.sessions,
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close stops background sweepers
func (s *Server) Close() {
	s.cache.Stop()
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
