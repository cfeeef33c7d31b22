// ABOUTME: Tests for the session store lifecycle
// ABOUTME: Uses a fake API and an in-memory local storage mirror

package session

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/localstore"
)

type fakeAPI struct {
	user *client.UserInfo

	meErr       error
	loginErr    error
	registerErr error
	logoutErr   error

	meCalls     atomic.Int32
	logoutCalls atomic.Int32
	meGate      chan struct{}
}

func (f *fakeAPI) Me(ctx context.Context) (*client.UserInfo, error) {
	f.meCalls.Add(1)
	if f.meGate != nil {
		<-f.meGate
	}
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAPI) Login(ctx context.Context, identifier, password string) (*client.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.LoginResponse{UserInfo: *f.user, Token: "ignored", Type: "Bearer"}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req client.RegisterRequest) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	return "User registered successfully!", nil
}

func (f *fakeAPI) Logout(ctx context.Context) (string, error) {
	f.logoutCalls.Add(1)
	if f.logoutErr != nil {
		return "", f.logoutErr
	}
	return "Logout successful!", nil
}

func sparty() *client.UserInfo {
	return &client.UserInfo{ID: 11, Username: "sparty", Email: "sparty@sjsu.edu", Roles: []string{"ROLE_USER", client.RoleOrganizer}}
}

func newMirror(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.OpenDSN(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open mirror: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestVerifyAndLoginProduceEqualSessions(t *testing.T) {
	ctx := context.Background()

	verified := New(&fakeAPI{user: sparty()}, newMirror(t))
	if err := verified.Verify(ctx); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	loggedIn := New(&fakeAPI{user: sparty()}, newMirror(t))
	if err := loggedIn.Login(ctx, "sparty", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	a, b := verified.Snapshot(), loggedIn.Snapshot()
	if !reflect.DeepEqual(a.Session, b.Session) {
		t.Errorf("session shapes differ:\nverify: %+v\nlogin:  %+v", a.Session, b.Session)
	}
	if !a.IsAuthenticated || !b.IsAuthenticated {
		t.Error("expected both stores authenticated")
	}
	if !a.Session.IsOrganizer() {
		t.Error("expected organizer role mapped")
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "server succeeds"},
		{name: "server fails", logoutErr: &client.Error{Kind: client.KindHTTPStatus, Status: 500, Message: "HTTP error! status: 500"}},
		{name: "transport fails", logoutErr: &client.Error{Kind: client.KindTransport, Message: "cannot connect"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			api := &fakeAPI{user: sparty(), logoutErr: tt.logoutErr}
			mirror := newMirror(t)
			s := New(api, mirror)

			if err := s.Login(ctx, "sparty", "pw"); err != nil {
				t.Fatalf("login failed: %v", err)
			}
			if s.Cached(ctx) == nil {
				t.Fatal("expected mirror populated after login")
			}

			err := s.Logout(ctx)
			if (err != nil) != (tt.logoutErr != nil) {
				t.Errorf("expected error %v, got %v", tt.logoutErr, err)
			}
			if api.logoutCalls.Load() != 1 {
				t.Errorf("expected server logout called once, got %d", api.logoutCalls.Load())
			}

			snap := s.Snapshot()
			if snap.Session != nil || snap.IsAuthenticated || snap.State != StateUnauthenticated {
				t.Errorf("expected cleared session, got %+v", snap)
			}
			if _, err := mirror.GetItem(ctx, MirrorKey); !errors.Is(err, localstore.ErrNotFound) {
				t.Errorf("expected mirror cleared, got %v", err)
			}
		})
	}
}

func TestVerifyRunsOnce(t *testing.T) {
	api := &fakeAPI{user: sparty()}
	s := New(api, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Verify(context.Background())
		}()
	}
	wg.Wait()
	s.Verify(context.Background())

	if api.meCalls.Load() != 1 {
		t.Errorf("expected exactly 1 verification call, got %d", api.meCalls.Load())
	}
}

func TestVerifyFailureClearsStaleMirror(t *testing.T) {
	ctx := context.Background()
	mirror := newMirror(t)
	mirror.SetJSON(ctx, MirrorKey, Session{UserID: 1, Username: "stale"})

	s := New(&fakeAPI{meErr: &client.Error{Kind: client.KindHTTPStatus, Status: 401, Message: "HTTP error! status: 401"}}, mirror)
	if err := s.Verify(ctx); err == nil {
		t.Fatal("expected verify error")
	}

	if s.Snapshot().IsAuthenticated {
		t.Error("stale mirror must not authenticate")
	}
	if s.Cached(ctx) != nil {
		t.Error("expected mirror cleared after failed verification")
	}
}

func TestVerifyIsLoadingWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	s := New(&fakeAPI{user: sparty(), meGate: gate}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Verify(context.Background()) }()

	deadline := time.After(time.Second)
	for s.Snapshot().State != StateVerifying {
		select {
		case <-deadline:
			t.Fatal("store never entered verifying state")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if snap := s.Snapshot(); !snap.IsLoading || snap.IsAuthenticated {
		t.Errorf("expected loading and unauthenticated, got %+v", snap)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if snap := s.Snapshot(); snap.IsLoading || !snap.IsAuthenticated {
		t.Errorf("expected settled and authenticated, got %+v", snap)
	}
}

func TestLoginFailureDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{user: sparty()}
	s := New(api, newMirror(t))

	if err := s.Login(ctx, "sparty", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	before := s.Snapshot()

	api.loginErr = &client.Error{Kind: client.KindHTTP, Status: 401, Message: "Invalid username or password"}
	err := s.Login(ctx, "other", "wrong")
	if err == nil || err.Error() != "Invalid username or password" {
		t.Fatalf("expected server message, got %v", err)
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("failed login mutated state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	s := New(&fakeAPI{user: sparty()}, nil)
	err := s.Login(context.Background(), "", "")
	if !client.IsKind(err, client.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	s := New(&fakeAPI{user: sparty()}, nil)
	msg, err := s.Register(context.Background(), client.RegisterRequest{Username: "new", Email: "new@sjsu.edu", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if msg != "User registered successfully!" {
		t.Errorf("unexpected message %q", msg)
	}
	if s.Snapshot().IsAuthenticated {
		t.Error("registration must not sign the user in")
	}
}

func TestSubscribeSeesChanges(t *testing.T) {
	s := New(&fakeAPI{user: sparty()}, nil)
	ch, unsubscribe := s.Subscribe()

	if err := s.Login(context.Background(), "sparty", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	select {
	case snap := <-ch:
		if !snap.IsAuthenticated || snap.IsLoading {
			t.Errorf("expected latest snapshot to be settled and authenticated, got %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}

	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after unsubscribe")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(&fakeAPI{user: sparty()}, nil)
	s.Login(context.Background(), "sparty", "pw")

	snap := s.Snapshot()
	snap.Session.Roles[0] = "ROLE_ADMIN"
	snap.Session.Username = "mutated"

	if got := s.Snapshot().Session; got.Username != "sparty" || got.Roles[0] != "ROLE_USER" {
		t.Errorf("snapshot aliased store state: %+v", got)
	}
}
