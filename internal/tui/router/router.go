// ABOUTME: Screen routes and the auth gate that decides whether a route may render
// ABOUTME: Protected routes wait while the session is loading instead of bouncing to login

package router

import (
	"fmt"

	"github.com/gursheyss/cs157a/internal/session"
)

// Screen identifies a view
type Screen int

const (
	ScreenEvents Screen = iota
	ScreenEventDetail
	ScreenLogin
	ScreenSignup
	ScreenProfile
	ScreenCreateEvent
	ScreenEditEvent
	ScreenAttendees
	ScreenMenu
)

func (s Screen) String() string {
	switch s {
	case ScreenEvents:
		return "events"
	case ScreenEventDetail:
		return "event"
	case ScreenLogin:
		return "login"
	case ScreenSignup:
		return "signup"
	case ScreenProfile:
		return "profile"
	case ScreenCreateEvent:
		return "create-event"
	case ScreenEditEvent:
		return "edit-event"
	case ScreenAttendees:
		return "attendees"
	case ScreenMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// Route is a screen plus its parameters
type Route struct {
	Screen  Screen
	EventID int64
}

func (r Route) String() string {
	if r.EventID != 0 {
		return fmt.Sprintf("%s/%d", r.Screen, r.EventID)
	}
	return r.Screen.String()
}

// Events is the public home route
var Events = Route{Screen: ScreenEvents}

// Access is who may see a screen
type Access int

const (
	Public Access = iota
	GuestOnly
	Authenticated
	OrganizerOnly
)

// AccessFor returns the access rule for s
func AccessFor(s Screen) Access {
	switch s {
	case ScreenLogin, ScreenSignup:
		return GuestOnly
	case ScreenProfile:
		return Authenticated
	case ScreenCreateEvent, ScreenEditEvent, ScreenAttendees:
		return OrganizerOnly
	default:
		return Public
	}
}

// Decision is the outcome of Gate
type Decision int

const (
	Allow Decision = iota
	// Hold keeps the target while the session is still being checked
	Hold
	RedirectLogin
	RedirectEvents
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Hold:
		return "hold"
	case RedirectLogin:
		return "redirect-login"
	case RedirectEvents:
		return "redirect-events"
	default:
		return "unknown"
	}
}

// Gate decides what to do with a navigation to r given the session.
// Client-side gating is cosmetic; the server enforces every rule again.
func Gate(r Route, snap session.Snapshot) Decision {
	access := AccessFor(r.Screen)
	if access == Public {
		return Allow
	}

	if !snap.IsAuthenticated && snap.IsLoading {
		return Hold
	}

	switch access {
	case GuestOnly:
		if snap.IsAuthenticated {
			return RedirectEvents
		}
	case Authenticated:
		if !snap.IsAuthenticated {
			return RedirectLogin
		}
	case OrganizerOnly:
		if !snap.IsAuthenticated {
			return RedirectLogin
		}
		if !snap.Session.IsOrganizer() {
			return RedirectEvents
		}
	}
	return Allow
}

// Resolve applies Gate and returns the route to show. ok is false on Hold.
func Resolve(r Route, snap session.Snapshot) (Route, bool) {
	switch Gate(r, snap) {
	case Hold:
		return r, false
	case RedirectLogin:
		return Route{Screen: ScreenLogin}, true
	case RedirectEvents:
		return Events, true
	default:
		return r, true
	}
}
