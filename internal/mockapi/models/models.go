// ABOUTME: Domain records and wire DTOs of the mock campus events backend
// ABOUTME: Timestamps are rendered as ISO-8601 local date-times like the real server

package models

import (
	"fmt"
	"strings"
	"time"
)

// Role names as issued in tokens and user info
const (
	RoleUser      = "ROLE_USER"
	RoleOrganizer = "ROLE_ORGANIZER"
)

// TimestampLayout is the wire format of every timestamp
const TimestampLayout = "2006-01-02T15:04:05"

// FormatTimestamp renders t in wire format; zero renders as ""
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads the wire format, also accepting RFC 3339
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// User is an account
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Roles        []string
	CreatedAt    time.Time
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Event is a scheduled campus event
type Event struct {
	ID           int64
	Title        string
	Description  string
	Location     string
	StartTime    time.Time
	EndTime      time.Time
	Category     string
	OrganizerID  int64
	MaxAttendees *int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration records one user attending one event
type Registration struct {
	ID               int64
	UserID           int64
	EventID          int64
	RegistrationTime time.Time
}

// LoginRequest is the login body
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// SignupRequest is the registration body
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserInfoResponse describes the signed-in user
type UserInfoResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// JwtResponse is the login reply; the token is also set as a cookie
type JwtResponse struct {
	UserInfoResponse
	Token string `json:"token"`
	Type  string `json:"type"`
}

// MessageResponse is the generic {message} body
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// EventRequest is the create/update body
type EventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Category     string `json:"category"`
	MaxAttendees *int   `json:"maxAttendees,omitempty"`
}

// TitleRequest is the title-only update body
type TitleRequest struct {
	Title string `json:"title"`
}

// EventResponse is an event as sent to clients
type EventResponse struct {
	EventID           int64  `json:"eventId"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Category          string `json:"category"`
	OrganizerID       int64  `json:"organizerId"`
	OrganizerUsername string `json:"organizerUsername"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
	RegistrationCount int    `json:"registrationCount"`
	MaxAttendees      *int   `json:"maxAttendees,omitempty"`
	IsActive          bool   `json:"isActive"`
}

// RegistrationResponse is a registration joined with its event and user
type RegistrationResponse struct {
	RegistrationID   int64  `json:"registrationId"`
	RegistrationTime string `json:"registrationTime"`
	EventID          int64  `json:"eventId"`
	EventTitle       string `json:"eventTitle"`
	EventStartTime   string `json:"eventStartTime"`
	EventEndTime     string `json:"eventEndTime"`
	EventLocation    string `json:"eventLocation"`
	UserID           int64  `json:"userId"`
	UserUsername     string `json:"userUsername"`
	UserEmail        string `json:"userEmail"`
}

// RegistrationStatusResponse answers "am I registered?"
type RegistrationStatusResponse struct {
	IsRegistered bool `json:"isRegistered"`
}

// HealthResponse is the liveness reply
type HealthResponse struct {
	Status string `json:"status"`
	Events int    `json:"events"`
	Users  int    `json:"users"`
}
