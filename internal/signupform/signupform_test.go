// ABOUTME: Tests for sign-up validation
// ABOUTME: Field rules, trimming and joined errors

package signupform

import (
	"strings"
	"testing"

	"github.com/gursheyss/cs157a/internal/client"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		check   func(string) error
		input   string
		wantErr bool
	}{
		{"username ok", ValidateUsername, "sam_student", false},
		{"username short", ValidateUsername, "ab", true},
		{"username long", ValidateUsername, "abcdefghijklmnopqrstu", true},
		{"username trimmed", ValidateUsername, "  ab  ", true},
		{"email ok", ValidateEmail, "sam@sjsu.edu", false},
		{"email missing at", ValidateEmail, "sam.sjsu.edu", true},
		{"email empty", ValidateEmail, "", true},
		{"password ok", ValidatePassword, "secret", false},
		{"password short", ValidatePassword, "12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("got error %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeKeepsPassword(t *testing.T) {
	got := Normalize(client.RegisterRequest{
		Username:  "  sam ",
		Email:     " sam@sjsu.edu",
		Password:  " keep spaces ",
		FirstName: "Sam ",
		LastName:  " Student",
	})
	want := client.RegisterRequest{
		Username:  "sam",
		Email:     "sam@sjsu.edu",
		Password:  " keep spaces ",
		FirstName: "Sam",
		LastName:  "Student",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestValidateJoinsFailures(t *testing.T) {
	if err := Validate(client.RegisterRequest{Username: "sam", Email: "sam@sjsu.edu", Password: "secret"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	err := Validate(client.RegisterRequest{Username: "ab", Email: "nope", Password: "123"})
	if err == nil {
		t.Fatal("expected errors")
	}
	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "Username") || !strings.HasPrefix(lines[2], "Password") {
		t.Errorf("error lines = %q", lines)
	}
}
