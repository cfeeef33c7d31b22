// ABOUTME: Request and response shapes for the campus events REST API
// ABOUTME: Timestamps travel as ISO-8601 local date-times without a zone

package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RoleOrganizer marks a user allowed to create and manage events
const RoleOrganizer = "ROLE_ORGANIZER"

// LocalTimeLayout is the wire format of event timestamps
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock timestamp as sent by the server
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t, dropping sub-second precision
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.Truncate(time.Second)}
}

// ParseLocalTime accepts the server's local layout (with or without
// fractional seconds) as well as RFC 3339.
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{LocalTimeLayout, "2006-01-02T15:04", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(LocalTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseLocalTime(*s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// String renders the wire format, or "" for the zero time
func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LocalTimeLayout)
}

// UserInfo is the authenticated user as reported by the server
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// IsOrganizer reports whether the user holds the organizer role
func (u *UserInfo) IsOrganizer() bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == RoleOrganizer {
			return true
		}
	}
	return false
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// LoginResponse is the login reply. Token and Type are present when the
// server also issues a bearer token; the client relies on the cookie instead.
type LoginResponse struct {
	UserInfo
	Token string `json:"token,omitempty"`
	Type  string `json:"type,omitempty"`
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// MessageResponse is the generic {message} reply
type MessageResponse struct {
	Message string `json:"message"`
}

// Event is a campus event as returned by the server
type Event struct {
	EventID           int64     `json:"eventId"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	StartTime         LocalTime `json:"startTime"`
	EndTime           LocalTime `json:"endTime"`
	Category          string    `json:"category"`
	OrganizerID       int64     `json:"organizerId"`
	OrganizerUsername string    `json:"organizerUsername"`
	CreatedAt         LocalTime `json:"createdAt"`
	UpdatedAt         LocalTime `json:"updatedAt"`
	RegistrationCount int       `json:"registrationCount"`
	MaxAttendees      *int      `json:"maxAttendees,omitempty"`
	IsActive          bool      `json:"isActive"`
}

// IsFull reports whether the event has reached its attendee cap
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && *e.MaxAttendees > 0 && e.RegistrationCount >= *e.MaxAttendees
}

// EventRequest is the create/update body for an event
type EventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartTime    LocalTime `json:"startTime"`
	EndTime      LocalTime `json:"endTime"`
	Category     string    `json:"category"`
	MaxAttendees *int      `json:"maxAttendees,omitempty"`
}

// TitleRequest is the body of PUT /api/events/{id}/title
type TitleRequest struct {
	Title string `json:"title"`
}

// Registration links a user to an event
type Registration struct {
	ID               int64     `json:"registrationId"`
	UserID           int64     `json:"userId"`
	EventID          int64     `json:"eventId"`
	RegistrationTime LocalTime `json:"registrationTime"`
	EventTitle       string    `json:"eventTitle,omitempty"`
	EventStartTime   LocalTime `json:"eventStartTime"`
	EventEndTime     LocalTime `json:"eventEndTime"`
	EventLocation    string    `json:"eventLocation,omitempty"`
	UserUsername     string    `json:"userUsername,omitempty"`
	UserEmail        string    `json:"userEmail,omitempty"`
}

// UnmarshalJSON also accepts the short "id" key some servers send
func (r *Registration) UnmarshalJSON(data []byte) error {
	type alias Registration
	aux := struct {
		*alias
		ShortID *int64 `json:"id"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == 0 && aux.ShortID != nil {
		r.ID = *aux.ShortID
	}
	return nil
}

// RegistrationStatus is the reply of the status endpoint
type RegistrationStatus struct {
	IsRegistered bool `json:"isRegistered"`
}

// HealthResponse represents the /api/health endpoint response
type HealthResponse struct {
	Status string `json:"status"`
	Events int    `json:"events"`
	Users  int    `json:"users"`
}

// ErrorResponse is the failure body the server sends when it can
type ErrorResponse struct {
	Message string `json:"message"`
}
