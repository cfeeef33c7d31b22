// ABOUTME: Single source of truth for who is signed in
// ABOUTME: Verifies the server session once per process and mirrors a snapshot into local storage

package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/localstore"
)

// MirrorKey is the local storage key of the user snapshot
const MirrorKey = "userInfo"

// State is the position in the session lifecycle
type State int

const (
	StateUnauthenticated State = iota
	StateVerifying
	StateAuthenticated
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging-out"
	default:
		return "unknown"
	}
}

// Session is the signed-in user as this process knows it
type Session struct {
	UserID   int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// IsOrganizer reports whether the user may manage events
func (s *Session) IsOrganizer() bool {
	return s != nil && slices.Contains(s.Roles, client.RoleOrganizer)
}

// RoleLabel is "organizer" or "participant"
func (s *Session) RoleLabel() string {
	if s.IsOrganizer() {
		return "organizer"
	}
	return "participant"
}

func fromUserInfo(u *client.UserInfo) *Session {
	return &Session{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    slices.Clone(u.Roles),
	}
}

// Snapshot is a consistent view of the store at one instant
type Snapshot struct {
	State           State
	Session         *Session
	IsLoading       bool
	IsAuthenticated bool
}

// API is the subset of the HTTP client the store calls
type API interface {
	Me(ctx context.Context) (*client.UserInfo, error)
	Login(ctx context.Context, identifier, password string) (*client.LoginResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	Logout(ctx context.Context) (string, error)
}

// Mirror is where the snapshot is cached between runs. It is a display
// hint only; the server cookie decides whether a session exists.
type Mirror interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
	RemoveItem(ctx context.Context, key string) error
}

// Authenticator is what views depend on
type Authenticator interface {
	Snapshot() Snapshot
	Verify(ctx context.Context) error
	Login(ctx context.Context, identifier, password string) error
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
	Subscribe() (<-chan Snapshot, func())
}

// Store holds the current session. It is the only writer of the session
// and of its local storage mirror.
type Store struct {
	api    API
	mirror Mirror

	mu      sync.Mutex
	state   State
	session *Session
	pending int
	subs    map[int]chan Snapshot
	nextSub int

	verifyOnce sync.Once
	verifyErr  error
}

var _ Authenticator = (*Store)(nil)

// New creates a store. mirror may be nil.
func New(api API, mirror Mirror) *Store {
	return &Store{
		api:    api,
		mirror: mirror,
		subs:   make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	var sess *Session
	if s.session != nil {
		copied := *s.session
		copied.Roles = slices.Clone(s.session.Roles)
		sess = &copied
	}
	return Snapshot{
		State:           s.state,
		Session:         sess,
		IsLoading:       s.state == StateVerifying || s.pending > 0,
		IsAuthenticated: s.state == StateAuthenticated && s.session != nil,
	}
}

// Subscribe returns a channel that receives the latest snapshot after each
// change. Slow readers only see the most recent value.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// publishLocked must be called with s.mu held
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.pending++
	s.publishLocked()
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.pending--
	s.publishLocked()
	s.mu.Unlock()
}

// Verify asks the server who owns the current cookie. It runs once per
// process; later calls return the first outcome.
func (s *Store) Verify(ctx context.Context) error {
	s.verifyOnce.Do(func() {
		s.verifyErr = s.verify(ctx)
	})
	return s.verifyErr
}

func (s *Store) verify(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateVerifying
	s.publishLocked()
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		slog.Debug("Session verification failed", "error", err)
		s.clear(ctx)
		return err
	}

	s.establish(ctx, fromUserInfo(user))
	slog.Info("Session verified", "username", user.Username)
	return nil
}

// Login authenticates with the server. A failed login leaves the current
// session untouched.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	if identifier == "" || password == "" {
		return client.ValidationError("Username or email and password are required")
	}

	s.begin()
	defer s.end()

	resp, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		slog.Warn("Login failed", "identifier", identifier, "error", err)
		return err
	}

	s.establish(ctx, fromUserInfo(&resp.UserInfo))
	slog.Info("Logged in", "username", resp.Username)
	return nil
}

// Register creates an account. It does not sign the user in.
func (s *Store) Register(ctx context.Context, req client.RegisterRequest) (string, error) {
	s.begin()
	defer s.end()

	msg, err := s.api.Register(ctx, req)
	if err != nil {
		slog.Warn("Registration failed", "username", req.Username, "error", err)
		return "", err
	}
	return msg, nil
}

// Logout always calls the server and then clears local state whatever the
// outcome. The server error, if any, is returned for display.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoggingOut
	s.pending++
	s.publishLocked()
	s.mu.Unlock()

	_, err := s.api.Logout(ctx)
	if err != nil {
		slog.Warn("Logout request failed, clearing local session anyway", "error", err)
	}

	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	s.clear(ctx)
	return err
}

// Cached returns the mirrored snapshot from an earlier run without
// trusting it. Returns nil when there is none.
func (s *Store) Cached(ctx context.Context) *Session {
	if s.mirror == nil {
		return nil
	}
	var sess Session
	if err := s.mirror.GetJSON(ctx, MirrorKey, &sess); err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			slog.Debug("Ignoring unreadable session mirror", "error", err)
		}
		return nil
	}
	return &sess
}

func (s *Store) establish(ctx context.Context, sess *Session) {
	s.mu.Lock()
	s.session = sess
	s.state = StateAuthenticated
	s.publishLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.SetJSON(context.WithoutCancel(ctx), MirrorKey, sess); err != nil {
			slog.Warn("Failed to mirror session", "error", err)
		}
	}
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.state = StateUnauthenticated
	s.publishLocked()
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.RemoveItem(context.WithoutCancel(ctx), MirrorKey); err != nil {
			slog.Warn("Failed to clear session mirror", "error", err)
		}
	}
}
