// ABOUTME: Client-side validation for account sign-up
// ABOUTME: Shared by the sign-up screen and `campus-events signup`

package signupform

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gursheyss/cs157a/internal/client"
)

// ValidateUsername requires 3 to 20 characters
func ValidateUsername(s string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(s)); n < 3 || n > 20 {
		return errors.New("Username must be between 3 and 20 characters")
	}
	return nil
}

// ValidateEmail requires a parseable address
func ValidateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("Email must be a valid address")
	}
	return nil
}

// ValidatePassword requires at least 6 characters
func ValidatePassword(s string) error {
	if len(s) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

// Normalize trims every field except the password
func Normalize(req client.RegisterRequest) client.RegisterRequest {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	return req
}

// Validate joins every field failure, one per line, in form order
func Validate(req client.RegisterRequest) error {
	return errors.Join(
		ValidateUsername(req.Username),
		ValidateEmail(req.Email),
		ValidatePassword(req.Password),
	)
}
