// ABOUTME: Tests for login, logout, whoami and signup
// ABOUTME: The session must survive between command runs via local storage

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/gursheyss/cs157a/internal/client"
)

func TestLogin_PersistsSessionAcrossRuns(t *testing.T) {
	newBackend(t)
	ctx := context.Background()

	var buf bytes.Buffer
	if code := runLogin(ctx, &buf, "organizer", "password123"); code != 0 {
		t.Fatalf("login exit %d: %s", code, buf.String())
	}
	assertContains(t, buf.String(), "Logged in as organizer (organizer)")

	buf.Reset()
	if code := runWhoami(ctx, &buf); code != 0 {
		t.Fatalf("whoami exit %d: %s", code, buf.String())
	}
	assertContains(t, buf.String(), "Username: organizer")
	assertContains(t, buf.String(), "Role:     organizer")
}

func TestLogin_WrongPassword(t *testing.T) {
	newBackend(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "student", "nope")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	assertContains(t, buf.String(), "Error: Invalid username or password")
}

func TestLogin_MissingPassword(t *testing.T) {
	b := newBackend(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, "student", "")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if n := len(b.requests()); n != 0 {
		t.Errorf("expected no requests, got %v", b.requests())
	}
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	newBackend(t)

	var buf bytes.Buffer
	code := runWhoami(context.Background(), &buf)

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	assertContains(t, buf.String(), "not logged in")
}

func TestLogout_ClearsSavedSession(t *testing.T) {
	newBackend(t)
	ctx := context.Background()
	loginAs(t, "student")

	var buf bytes.Buffer
	if code := runLogout(ctx, &buf); code != 0 {
		t.Fatalf("logout exit %d: %s", code, buf.String())
	}
	assertContains(t, buf.String(), "Logged out")

	buf.Reset()
	if code := runWhoami(ctx, &buf); code != 1 {
		t.Errorf("whoami after logout: expected exit code 1, got %d", code)
	}
}

func TestSignup_ValidatesLocally(t *testing.T) {
	b := newBackend(t)

	var buf bytes.Buffer
	code := runSignup(context.Background(), &buf, client.RegisterRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "123",
	})

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	assertContains(t, buf.String(), "Error: Username must be between 3 and 20 characters")
	assertContains(t, buf.String(), "Error: Email must be a valid address")
	assertContains(t, buf.String(), "Error: Password must be at least 6 characters")
	if n := len(b.requests()); n != 0 {
		t.Errorf("invalid signup sent %d requests", n)
	}
}

func TestSignup_CreatesAccountWithoutSigningIn(t *testing.T) {
	newBackend(t)
	ctx := context.Background()

	var buf bytes.Buffer
	code := runSignup(ctx, &buf, client.RegisterRequest{
		Username:  "newbie",
		Email:     "newbie@sjsu.edu",
		Password:  "secret1",
		FirstName: "New",
		LastName:  "Bie",
	})
	if code != 0 {
		t.Fatalf("signup exit %d: %s", code, buf.String())
	}
	assertContains(t, buf.String(), `campus-events login -u newbie`)

	buf.Reset()
	if code := runWhoami(ctx, &buf); code != 1 {
		t.Errorf("signup should not sign in; whoami exit %d", code)
	}

	buf.Reset()
	if code := runLogin(ctx, &buf, "newbie", "secret1"); code != 0 {
		t.Errorf("login as new account exit %d: %s", code, buf.String())
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	newBackend(t)

	var buf bytes.Buffer
	code := runSignup(context.Background(), &buf, client.RegisterRequest{
		Username: "student",
		Email:    "another@sjsu.edu",
		Password: "secret1",
	})

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	assertContains(t, buf.String(), "Error:")
}
