// ABOUTME: Tests for event form validation
// ABOUTME: Table-driven cases for each rule plus request building

package eventform

import (
	"errors"
	"strings"
	"testing"
)

func validForm() Form {
	return Form{
		Title:       "Spring Career Fair",
		Description: "Meet recruiters from over fifty Bay Area companies.",
		Location:    "Student Union Ballroom",
		Date:        "2025-04-10",
		StartTime:   "10:00",
		EndTime:     "15:30",
		Category:    "Career & Networking",
	}
}

func TestValidate_ValidForm(t *testing.T) {
	if errs := validForm().Validate(); errs != nil {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		field   string
		message string
	}{
		{"short title", func(f *Form) { f.Title = "Fair" }, FieldTitle, "Title must be at least 5 characters"},
		{"whitespace title", func(f *Form) { f.Title = "   ab   " }, FieldTitle, "Title must be at least 5 characters"},
		{"short description", func(f *Form) { f.Description = "Too short" }, FieldDescription, "Description must be at least 20 characters"},
		{"short location", func(f *Form) { f.Location = "MQ" }, FieldLocation, "Location is required"},
		{"missing date", func(f *Form) { f.Date = "" }, FieldDate, "Date is required"},
		{"bad date", func(f *Form) { f.Date = "04/10/2025" }, FieldDate, "Date must be YYYY-MM-DD"},
		{"missing start", func(f *Form) { f.StartTime = "" }, FieldStartTime, "Start time is required"},
		{"missing end", func(f *Form) { f.EndTime = "" }, FieldEndTime, "End time is required"},
		{"bad end", func(f *Form) { f.EndTime = "3pm" }, FieldEndTime, "End time must be HH:MM"},
		{"end before start", func(f *Form) { f.EndTime = "09:00" }, FieldEndTime, "End time must be after start time"},
		{"end equals start", func(f *Form) { f.EndTime = f.StartTime }, FieldEndTime, "End time must be after start time"},
		{"missing category", func(f *Form) { f.Category = "" }, FieldCategory, "Category is required"},
		{"unknown category", func(f *Form) { f.Category = "Parties" }, FieldCategory, `Unknown category "Parties"`},
		{"zero attendees", func(f *Form) { f.MaxAttendees = "0" }, FieldMaxAttendees, "Max attendees must be a positive number"},
		{"text attendees", func(f *Form) { f.MaxAttendees = "lots" }, FieldMaxAttendees, "Max attendees must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			errs := form.Validate()
			if errs == nil {
				t.Fatal("expected errors, got none")
			}
			if got := errs[tt.field]; got != tt.message {
				t.Errorf("expected %s error %q, got %q (all: %v)", tt.field, tt.message, got, errs)
			}
			if len(errs) != 1 {
				t.Errorf("expected exactly one failing field, got %v", errs.Fields())
			}
		})
	}
}

func TestValidate_EndBeforeStartOnlyWhenTimesParse(t *testing.T) {
	form := validForm()
	form.StartTime = ""
	form.EndTime = "09:00"

	errs := form.Validate()
	if errs[FieldEndTime] != "" {
		t.Errorf("ordering rule must not fire without a start time, got %q", errs[FieldEndTime])
	}
	if errs[FieldStartTime] == "" {
		t.Error("expected start time error")
	}
}

func TestFieldErrors_OrderedMessage(t *testing.T) {
	errs := Form{}.Validate()
	fields := errs.Fields()
	if fields[0] != FieldTitle || fields[len(fields)-1] != FieldCategory {
		t.Errorf("unexpected field order %v", fields)
	}
	if !strings.HasPrefix(errs.Error(), "Title must be at least 5 characters; ") {
		t.Errorf("unexpected message %q", errs.Error())
	}
}

func TestRequest_BuildsLocalTimes(t *testing.T) {
	form := validForm()
	form.MaxAttendees = "120"

	req, err := form.Request()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.StartTime.String() != "2025-04-10T10:00:00" {
		t.Errorf("unexpected start %q", req.StartTime.String())
	}
	if req.EndTime.String() != "2025-04-10T15:30:00" {
		t.Errorf("unexpected end %q", req.EndTime.String())
	}
	if req.MaxAttendees == nil || *req.MaxAttendees != 120 {
		t.Errorf("unexpected max attendees %v", req.MaxAttendees)
	}
}

func TestRequest_InvalidReturnsFieldErrors(t *testing.T) {
	form := validForm()
	form.EndTime = "08:00"

	_, err := form.Request()
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if fe[FieldEndTime] == "" {
		t.Error("expected endTime error")
	}
}

func TestFromEvent_RoundTrip(t *testing.T) {
	req, err := validForm().Request()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form := FromEvent(eventFromRequest(req))
	if form != validForm() {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", form, validForm())
	}
}

func TestValidateTitle(t *testing.T) {
	if ValidateTitle("Gala") == nil {
		t.Error("expected short title rejected")
	}
	if err := ValidateTitle("Winter Gala"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
