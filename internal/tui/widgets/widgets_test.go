// ABOUTME: Tests for badge and capacity widgets
// ABOUTME: Checks capacity grading and attendance text

package widgets

import (
	"strings"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestCapacityLevel(t *testing.T) {
	tests := []struct {
		name  string
		count int
		max   *int
		want  StatusLevel
	}{
		{"unlimited", 500, nil, StatusNeutral},
		{"plenty of room", 10, intPtr(40), StatusOK},
		{"nearly full", 35, intPtr(40), StatusWarning},
		{"full", 40, intPtr(40), StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapacityLevel(tt.count, tt.max); got != tt.want {
				t.Errorf("CapacityLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAttendance(t *testing.T) {
	if got := Attendance(3, nil); got != "3 registered" {
		t.Errorf("Attendance(unlimited) = %q", got)
	}
	if got := Attendance(3, intPtr(10)); got != "3/10" {
		t.Errorf("Attendance(limited) = %q", got)
	}
}

func TestCapacityBar(t *testing.T) {
	if got := CapacityBar(2, nil, 10); got != "2 registered" {
		t.Errorf("CapacityBar(unlimited) = %q", got)
	}
	bar := CapacityBar(5, intPtr(10), 10)
	if !strings.Contains(bar, "5/10") || !strings.HasPrefix(bar, "[") {
		t.Errorf("CapacityBar() = %q", bar)
	}
}

func TestBadgeContainsText(t *testing.T) {
	if got := Badge("Registered", StatusOK); !strings.Contains(got, "Registered") {
		t.Errorf("Badge() = %q", got)
	}
}
