// ABOUTME: End-to-end tests driving the mock API through the real client
// ABOUTME: Covers cookie sessions, role gating, registration rules and rate limiting

package mockapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/mockapi/middleware"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.JWTSecret == "" {
		opts.JWTSecret = "test-secret"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	srv, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func loggedIn(t *testing.T, baseURL, identifier string) *client.Client {
	t.Helper()
	c := client.New(baseURL)
	if _, err := c.Login(context.Background(), identifier, services.DemoPassword); err != nil {
		t.Fatalf("Login(%s) error = %v", identifier, err)
	}
	return c
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without a jwt secret")
	}
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})

	h, err := client.New(ts.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Status != "ok" || h.Events != 5 || h.Users != 2 {
		t.Errorf("Health() = %+v, want ok with 5 events and 2 users", h)
	}
}

func TestServer_LoginSetsSessionCookie(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})
	ctx := context.Background()

	c := client.New(ts.URL)
	if c.HasSessionCookie() {
		t.Fatal("fresh client should hold no cookie")
	}
	resp, err := c.Login(ctx, "student@sjsu.edu", services.DemoPassword)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Username != "student" {
		t.Errorf("Username = %q, want student", resp.Username)
	}
	if !c.HasSessionCookie() {
		t.Fatal("expected session cookie after login")
	}

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.ID != resp.ID || me.IsOrganizer() {
		t.Errorf("Me() = %+v, want student without organizer role", me)
	}
}

func TestServer_SecureCookieSessionOverLoopback(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true, SecureCookies: true})
	ctx := context.Background()

	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"usernameOrEmail":"student","password":"`+services.DemoPassword+`"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	resp.Body.Close()
	var secure bool
	for _, c := range resp.Cookies() {
		if c.Name == "jwt-token" {
			secure = c.Secure
		}
	}
	if !secure {
		t.Fatal("expected jwt-token to be marked Secure")
	}

	c := loggedIn(t, ts.URL, "student")
	if !c.HasSessionCookie() {
		t.Fatal("expected the client to keep the Secure cookie on loopback")
	}
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if _, err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := c.Me(ctx); !client.IsKind(err, client.KindHTTP) {
		t.Errorf("Me() after logout = %v, want HTTP error", err)
	}
}

func TestServer_LoginRejectsBadPassword(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})

	_, err := client.New(ts.URL).Login(context.Background(), "student", "wrong")
	if client.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (err %v)", client.StatusCode(err), err)
	}
	if !strings.Contains(err.Error(), "Invalid username or password") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestServer_MeWithoutSession(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})

	_, err := client.New(ts.URL).Me(context.Background())
	if client.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", client.StatusCode(err))
	}
	if !client.IsKind(err, client.KindHTTP) {
		t.Errorf("kind should be http for a JSON message, got %v", err)
	}
}

func TestServer_RegisterDoesNotSignIn(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	ctx := context.Background()
	c := client.New(ts.URL)

	msg, err := c.Register(ctx, client.RegisterRequest{
		Username: "newbie",
		Email:    "newbie@sjsu.edu",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if msg != "User registered successfully!" {
		t.Errorf("message = %q", msg)
	}
	if c.HasSessionCookie() {
		t.Error("sign-up must not set a session cookie")
	}

	_, err = c.Register(ctx, client.RegisterRequest{Username: "NEWBIE", Email: "x@sjsu.edu", Password: "secret1"})
	if err == nil || !strings.Contains(err.Error(), "Username is already taken") {
		t.Errorf("duplicate username error = %v", err)
	}
	_, err = c.Register(ctx, client.RegisterRequest{Username: "other", Email: "Newbie@sjsu.edu", Password: "secret1"})
	if err == nil || !strings.Contains(err.Error(), "Email is already in use") {
		t.Errorf("duplicate email error = %v", err)
	}
}

func TestServer_OrganizerRoutesRequireRole(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})
	student := loggedIn(t, ts.URL, "student")

	_, err := student.CreateEvent(context.Background(), client.EventRequest{Title: "Nope"})
	if client.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", client.StatusCode(err))
	}
	if !strings.Contains(err.Error(), "Insufficient permissions") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestServer_EventLifecycle(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})
	ctx := context.Background()
	org := loggedIn(t, ts.URL, "organizer")

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	limit := 1
	created, err := org.CreateEvent(ctx, client.EventRequest{
		Title:        "Robotics Demo",
		Description:  "Student teams show off their robots.",
		Location:     "Engineering 189",
		StartTime:    client.NewLocalTime(start),
		EndTime:      client.NewLocalTime(start.Add(2 * time.Hour)),
		Category:     "Academic",
		MaxAttendees: &limit,
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if created.OrganizerUsername != "organizer" || !created.IsActive {
		t.Errorf("created = %+v", created)
	}

	updated, err := org.UpdateEventTitle(ctx, created.EventID, "Robotics Showcase")
	if err != nil {
		t.Fatalf("UpdateEventTitle() error = %v", err)
	}
	if updated.Title != "Robotics Showcase" {
		t.Errorf("Title = %q", updated.Title)
	}

	student := loggedIn(t, ts.URL, "student")
	if _, err := student.RegisterForEvent(ctx, created.EventID); err != nil {
		t.Fatalf("RegisterForEvent() error = %v", err)
	}
	attendees, err := org.ListEventRegistrations(ctx, created.EventID)
	if err != nil {
		t.Fatalf("ListEventRegistrations() error = %v", err)
	}
	if len(attendees) != 1 || attendees[0].UserUsername != "student" {
		t.Errorf("attendees = %+v", attendees)
	}

	msg, err := org.DeleteEvent(ctx, created.EventID)
	if err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if msg != "Event deleted successfully" {
		t.Errorf("message = %q", msg)
	}
	got, err := org.GetEvent(ctx, created.EventID)
	if err != nil || got != nil {
		t.Errorf("GetEvent after delete = %v, %v; want nil, nil", got, err)
	}
}

func TestServer_RegistrationRules(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})
	ctx := context.Background()
	student := loggedIn(t, ts.URL, "student")

	if !student.CheckRegistrationStatus(ctx, 1) {
		t.Error("seeded student should be registered for event 1")
	}
	_, err := student.RegisterForEvent(ctx, 1)
	if client.StatusCode(err) != http.StatusConflict {
		t.Errorf("duplicate registration status = %d, want 409", client.StatusCode(err))
	}

	_, err = student.DeregisterFromEvent(ctx, 5)
	if client.StatusCode(err) != http.StatusNotFound {
		t.Errorf("deregister without registration status = %d, want 404", client.StatusCode(err))
	}

	before, _ := student.GetEvent(ctx, 5)
	if _, err := student.RegisterForEvent(ctx, 5); err != nil {
		t.Fatalf("RegisterForEvent(5) error = %v", err)
	}
	after, _ := student.GetEvent(ctx, 5)
	if after.RegistrationCount != before.RegistrationCount+1 {
		t.Errorf("count = %d, want %d", after.RegistrationCount, before.RegistrationCount+1)
	}

	regs, err := student.ListMyRegistrations(ctx)
	if err != nil {
		t.Fatalf("ListMyRegistrations() error = %v", err)
	}
	if len(regs) != 2 {
		t.Errorf("got %d registrations, want 2", len(regs))
	}
}

func TestServer_NonOwnerCannotMutate(t *testing.T) {
	srv, ts := newTestServer(t, Options{Seed: true})
	ctx := context.Background()

	// a second organizer who does not own the seeded events
	hash, _ := services.NewHasher(bcrypt.MinCost).Hash(services.DemoPassword)
	if _, err := srv.Store().CreateUser(models.User{
		Username:     "rival",
		Email:        "rival@sjsu.edu",
		PasswordHash: hash,
		Roles:        []string{models.RoleUser, models.RoleOrganizer},
	}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	rival := loggedIn(t, ts.URL, "rival")

	_, err := rival.UpdateEventTitle(ctx, 1, "Hijacked Title")
	if client.StatusCode(err) != http.StatusForbidden {
		t.Errorf("title update status = %d, want 403", client.StatusCode(err))
	}
	_, err = rival.DeleteEvent(ctx, 1)
	if client.StatusCode(err) != http.StatusForbidden {
		t.Errorf("delete status = %d, want 403", client.StatusCode(err))
	}
	if !strings.Contains(err.Error(), "You are not the organizer of this event") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestServer_LogoutRevokesToken(t *testing.T) {
	_, ts := newTestServer(t, Options{Seed: true})
	ctx := context.Background()

	// log in by hand so the raw cookie can be replayed afterwards
	body := strings.NewReader(`{"usernameOrEmail":"student","password":"` + services.DemoPassword + `"}`)
	resp, err := http.Post(ts.URL+"/api/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	resp.Body.Close()

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			session = ck
		}
	}
	if session == nil {
		t.Fatal("login did not set jwt-token")
	}
	if session.Path != "/api" || !session.HttpOnly {
		t.Errorf("cookie = %+v, want HttpOnly scoped to /api", session)
	}

	send := func(method, path string) *http.Response {
		req, _ := http.NewRequestWithContext(ctx, method, ts.URL+path, nil)
		req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s error = %v", method, path, err)
		}
		resp.Body.Close()
		return resp
	}

	if got := send(http.MethodGet, "/api/users/me").StatusCode; got != http.StatusOK {
		t.Fatalf("me before logout = %d", got)
	}
	if got := send(http.MethodPost, "/api/auth/logout").StatusCode; got != http.StatusOK {
		t.Fatalf("logout = %d", got)
	}
	if got := send(http.MethodGet, "/api/users/me").StatusCode; got != http.StatusUnauthorized {
		t.Errorf("me after logout = %d, want 401", got)
	}
}

func TestServer_LogoutWithoutSession(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	msg, err := client.New(ts.URL).Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if msg != "Logout successful!" {
		t.Errorf("message = %q", msg)
	}
}

func TestServer_RateLimit(t *testing.T) {
	_, ts := newTestServer(t, Options{RateLimit: 2})
	c := client.New(ts.URL, client.WithDedupe(false))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Health(ctx); err != nil {
			t.Fatalf("request %d error = %v", i, err)
		}
	}
	_, err := c.Health(ctx)
	if client.StatusCode(err) != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", client.StatusCode(err))
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	srv, err := New(Options{JWTSecret: "test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	h, err := client.New("http://" + ln.Addr().String()).Health(context.Background())
	if err != nil || h.Status != "ok" {
		t.Fatalf("Health() = %v, %v", h, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
