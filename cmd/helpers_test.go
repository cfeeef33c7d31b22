// ABOUTME: Shared fixtures for command tests
// ABOUTME: Runs commands against the in-memory API with isolated config and storage

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/gursheyss/cs157a/internal/mockapi"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

type testBackend struct {
	url string
	mu  sync.Mutex
	log []string
}

func (b *testBackend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.log...)
}

// isolate points config and storage at temp dirs and clears global flags
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CAMPUS_EVENTS_DATA_DIR", dir)
	t.Setenv("CAMPUS_EVENTS_API_URL", "")
	t.Setenv("CAMPUS_EVENTS_PASSWORD", "")

	apiURL, jsonOutput, configPath = "", false, ""
	t.Cleanup(func() {
		apiURL, jsonOutput, configPath = "", false, ""
	})
}

// newBackend starts a seeded API and points the CLI at it
func newBackend(t *testing.T) *testBackend {
	t.Helper()
	isolate(t)

	srv, err := mockapi.New(mockapi.Options{JWTSecret: "test-secret", Seed: true, SecureCookies: true, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("mockapi.New() error = %v", err)
	}
	b := &testBackend{}
	handler := srv.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.log = append(b.log, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	b.url = ts.URL
	apiURL = ts.URL
	return b
}

func loginAs(t *testing.T, username string) {
	t.Helper()
	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, username, services.DemoPassword); code != 0 {
		t.Fatalf("login as %s exit %d: %s", username, code, buf.String())
	}
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}
