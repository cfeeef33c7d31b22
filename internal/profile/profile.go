// ABOUTME: Loads the profile page data: my registrations and, for organizers, my events
// ABOUTME: Sections are fetched concurrently and fail independently

package profile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gursheyss/cs157a/internal/client"
)

// API is the subset of the client the profile needs
type API interface {
	ListMyRegistrations(ctx context.Context) ([]client.Registration, error)
	ListMyOrganizedEvents(ctx context.Context) ([]client.Event, error)
}

// Section holds one list and its own error
type Section[T any] struct {
	Items   []T
	Err     error
	Skipped bool // not fetched for this user
}

// Loaded reports whether the section has usable items
func (s Section[T]) Loaded() bool {
	return !s.Skipped && s.Err == nil
}

// Profile is everything the profile screen shows
type Profile struct {
	Registrations Section[client.Registration]
	Events        Section[client.Event]
}

// Load fetches both sections at once. A failure in one does not cancel or
// hide the other.
func Load(ctx context.Context, api API, organizer bool) Profile {
	var p Profile
	var g errgroup.Group

	g.Go(func() error {
		p.Registrations.Items, p.Registrations.Err = api.ListMyRegistrations(ctx)
		return nil
	})

	if organizer {
		g.Go(func() error {
			p.Events.Items, p.Events.Err = api.ListMyOrganizedEvents(ctx)
			return nil
		})
	} else {
		p.Events.Skipped = true
	}

	_ = g.Wait()
	return p
}
