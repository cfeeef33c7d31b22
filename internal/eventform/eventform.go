// ABOUTME: Client-side validation for event create and edit forms
// ABOUTME: Rejects bad input before any request is sent; errors are keyed by field

package eventform

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gursheyss/cs157a/internal/client"
)

// Field names used as keys in FieldErrors
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldLocation     = "location"
	FieldDate         = "date"
	FieldStartTime    = "startTime"
	FieldEndTime      = "endTime"
	FieldCategory     = "category"
	FieldMaxAttendees = "maxAttendees"
)

// Input layouts
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Categories offered by the event form
var Categories = []string{
	"Academic",
	"Arts & Culture",
	"Career & Networking",
	"Community Service",
	"Health & Wellness",
	"Social",
	"Sports & Recreation",
	"Workshops & Training",
	"Other",
}

// fieldOrder is the order fields appear on screen
var fieldOrder = []string{
	FieldTitle, FieldDescription, FieldLocation, FieldDate,
	FieldStartTime, FieldEndTime, FieldCategory, FieldMaxAttendees,
}

// Form is the raw text a user typed. Start and end share one date.
type Form struct {
	Title        string
	Description  string
	Location     string
	Date         string
	StartTime    string
	EndTime      string
	Category     string
	MaxAttendees string
}

// FieldErrors maps a field name to its message
type FieldErrors map[string]string

// Error lists messages in on-screen field order
func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		msgs = append(msgs, fe[f])
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failing field names in on-screen order
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return slices.Index(fieldOrder, fields[i]) < slices.Index(fieldOrder, fields[j])
	})
	return fields
}

// Validate checks every rule and returns all failures, or nil
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(f.Title)) < 5 {
		errs[FieldTitle] = "Title must be at least 5 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Description)) < 20 {
		errs[FieldDescription] = "Description must be at least 20 characters"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Location)) < 3 {
		errs[FieldLocation] = "Location is required"
	}

	date, dateErr := parseDate(f.Date)
	if dateErr != "" {
		errs[FieldDate] = dateErr
	}
	start, startErr := parseClock(f.StartTime, "Start time")
	if startErr != "" {
		errs[FieldStartTime] = startErr
	}
	end, endErr := parseClock(f.EndTime, "End time")
	if endErr != "" {
		errs[FieldEndTime] = endErr
	}

	if dateErr == "" && startErr == "" && endErr == "" {
		if !combine(date, end).After(combine(date, start)) {
			errs[FieldEndTime] = "End time must be after start time"
		}
	}

	category := strings.TrimSpace(f.Category)
	switch {
	case category == "":
		errs[FieldCategory] = "Category is required"
	case !slices.Contains(Categories, category):
		errs[FieldCategory] = fmt.Sprintf("Unknown category %q", category)
	}

	if _, msg := parseMaxAttendees(f.MaxAttendees); msg != "" {
		errs[FieldMaxAttendees] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Request validates the form and builds the API body. The error is either
// FieldErrors or nil.
func (f Form) Request() (client.EventRequest, error) {
	if errs := f.Validate(); errs != nil {
		return client.EventRequest{}, errs
	}

	date, _ := parseDate(f.Date)
	start, _ := parseClock(f.StartTime, "")
	end, _ := parseClock(f.EndTime, "")
	maxAttendees, _ := parseMaxAttendees(f.MaxAttendees)

	return client.EventRequest{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Location:     strings.TrimSpace(f.Location),
		StartTime:    client.NewLocalTime(combine(date, start)),
		EndTime:      client.NewLocalTime(combine(date, end)),
		Category:     strings.TrimSpace(f.Category),
		MaxAttendees: maxAttendees,
	}, nil
}

// FromEvent pre-fills a form for editing an existing event
func FromEvent(e *client.Event) Form {
	form := Form{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Category:    e.Category,
	}
	if !e.StartTime.IsZero() {
		form.Date = e.StartTime.Format(DateLayout)
		form.StartTime = e.StartTime.Format(ClockLayout)
	}
	if !e.EndTime.IsZero() {
		form.EndTime = e.EndTime.Format(ClockLayout)
	}
	if e.MaxAttendees != nil {
		form.MaxAttendees = strconv.Itoa(*e.MaxAttendees)
	}
	return form
}

// ValidateTitle applies the title rule on its own, for title-only edits
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < 5 {
		return FieldErrors{FieldTitle: "Title must be at least 5 characters"}
	}
	return nil
}

func parseDate(s string) (time.Time, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, "Date is required"
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, "Date must be YYYY-MM-DD"
	}
	return d, ""
}

func parseClock(s, label string) (time.Time, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, label + " is required"
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, label + " must be HH:MM"
	}
	return t, ""
}

func parseMaxAttendees(s string) (*int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, "Max attendees must be a positive number"
	}
	return &n, ""
}

func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
}
