// ABOUTME: Unit tests for handler helpers
// ABOUTME: Covers request validation and the store error to status mapping

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

func TestHealth_NilStore(t *testing.T) {
	h := NewHandler(Deps{})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestParseEventRequest(t *testing.T) {
	valid := models.EventRequest{
		Title:     "Hack Night",
		Location:  "ENG 325",
		Category:  "Academic",
		StartTime: "2026-11-02T18:00:00",
		EndTime:   "2026-11-02T21:00:00",
	}
	zero := 0

	tests := []struct {
		name    string
		mutate  func(*models.EventRequest)
		wantErr string
	}{
		{"valid", func(*models.EventRequest) {}, ""},
		{"blank title", func(r *models.EventRequest) { r.Title = "  " }, "Title is required"},
		{"no location", func(r *models.EventRequest) { r.Location = "" }, "Location is required"},
		{"no category", func(r *models.EventRequest) { r.Category = "" }, "Category is required"},
		{"bad start", func(r *models.EventRequest) { r.StartTime = "tomorrow" }, "Invalid start time"},
		{"end equals start", func(r *models.EventRequest) { r.EndTime = r.StartTime }, "End time must be after start time"},
		{"zero capacity", func(r *models.EventRequest) { r.MaxAttendees = &zero }, "Max attendees must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := parseEventRequest(req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name string
		req  models.SignupRequest
		want string
	}{
		{"valid", models.SignupRequest{Username: "spartan", Email: "s@sjsu.edu", Password: "secret1"}, ""},
		{"short username", models.SignupRequest{Username: "ab", Email: "s@sjsu.edu", Password: "secret1"}, "Username must be between 3 and 20 characters"},
		{"bad email", models.SignupRequest{Username: "spartan", Email: "nope", Password: "secret1"}, "Email must be a valid address"},
		{"short password", models.SignupRequest{Username: "spartan", Email: "s@sjsu.edu", Password: "12345"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateSignup(tt.req); got != tt.want {
				t.Errorf("validateSignup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrEventNotFound, http.StatusNotFound, "Event not found"},
		{fmt.Errorf("wrapped: %w", errNotOwner), http.StatusForbidden, "You are not the organizer of this event"},
		{services.ErrAlreadyRegistered, http.StatusConflict, "You are already registered for this event"},
		{services.ErrNotRegistered, http.StatusNotFound, "You are not registered for this event"},
		{services.ErrEventFull, http.StatusConflict, "Event is full"},
		{validationError("Title is required"), http.StatusBadRequest, "Title is required"},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	h := NewHandler(Deps{})
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeStoreError(rec, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}
		})
	}
}

func TestEventID_Invalid(t *testing.T) {
	h := NewHandler(Deps{})
	req := httptest.NewRequest(http.MethodGet, "/api/events/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()

	if _, ok := h.eventID(rec, req); ok {
		t.Fatal("expected failure for non-numeric id")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
