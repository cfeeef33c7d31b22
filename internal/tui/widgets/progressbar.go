// ABOUTME: Capacity bar for events with an attendee limit
// ABOUTME: Green until the warning zone, amber near the limit, red when full

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // Percentage where warning zone starts (default 80)
	CritThreshold float64 // Percentage where critical zone starts (default 100)
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: 80,
		CritThreshold: 100,
		OKColor:       lipgloss.Color("#10B981"), // Green
		WarnColor:     lipgloss.Color("#F59E0B"), // Amber
		CritColor:     lipgloss.Color("#EF4444"), // Red
		EmptyColor:    lipgloss.Color("#374151"), // Dark gray
	}
}

// ProgressBar renders a bar filled to percent
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = max(0, min(percent, 100))

	filled := int(percent / 100.0 * float64(config.Width))

	color := config.OKColor
	if percent >= config.CritThreshold {
		color = config.CritColor
	} else if percent >= config.WarnThreshold {
		color = config.WarnColor
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// CapacityBar renders registrations against the attendee limit.
// Events without a limit get a plain count.
func CapacityBar(count int, limit *int, width int) string {
	if limit == nil || *limit <= 0 {
		return Attendance(count, limit)
	}
	config := DefaultProgressBarConfig()
	config.Width = width
	percent := float64(count) / float64(*limit) * 100
	return fmt.Sprintf("%s %s", ProgressBar(percent, config), Attendance(count, limit))
}
