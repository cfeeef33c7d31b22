// ABOUTME: Category filter and free-text search over the event catalog
// ABOUTME: Shared by the list screen and `events list` so both narrow results the same way

package eventfilter

import (
	"strings"

	"github.com/gursheyss/cs157a/internal/client"
)

// All is the category choice that matches every event
const All = "All"

// Filter narrows a list of events. The zero value matches everything.
type Filter struct {
	Category string
	Search   string
}

// Active reports whether the filter excludes anything
func (f Filter) Active() bool {
	return f.category() != "" || f.search() != ""
}

func (f Filter) category() string {
	c := strings.TrimSpace(f.Category)
	if strings.EqualFold(c, All) {
		return ""
	}
	return c
}

func (f Filter) search() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// Match compares the category case-insensitively and looks for the search
// term in the title, description and location
func (f Filter) Match(e client.Event) bool {
	if c := f.category(); c != "" && !strings.EqualFold(e.Category, c) {
		return false
	}
	term := f.search()
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(e.Location), term)
}

// Apply returns the matching events in their original order
func (f Filter) Apply(events []client.Event) []client.Event {
	if !f.Active() {
		return events
	}
	out := make([]client.Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists All followed by each category present, in first-seen order
func Categories(events []client.Event) []string {
	cats := []string{All}
	seen := make(map[string]bool)
	for _, e := range events {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		cats = append(cats, e.Category)
	}
	return cats
}

// EmptyTitle is shown when the filter leaves nothing
const EmptyTitle = "No events found"

// EmptyHint suggests what to change when nothing matches
func (f Filter) EmptyHint() string {
	if f.search() != "" {
		return "Try a different search term or category."
	}
	return "There are no events in this category yet."
}
