// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods, handlers and access level

package handlers

import "net/http"

// Access is the minimum caller a route admits
type Access int

const (
	// AccessPublic admits anonymous callers; claims are attached when present
	AccessPublic Access = iota
	// AccessUser requires a valid session
	AccessUser
	// AccessOrganizer requires a session with the organizer role
	AccessOrganizer
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path, may contain {id}
	Handler http.HandlerFunc // Handler function
	Access  Access
}

// Pattern is the ServeMux pattern for the route
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/health", Handler: h.Health, Access: AccessPublic},

		// Auth
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: h.Login, Access: AccessPublic},
		{Method: http.MethodPost, Path: "/api/auth/register", Handler: h.Register, Access: AccessPublic},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: h.Logout, Access: AccessPublic},

		// Current user
		{Method: http.MethodGet, Path: "/api/users/me", Handler: h.Me, Access: AccessUser},
		{Method: http.MethodGet, Path: "/api/users/me/registrations", Handler: h.MyRegistrations, Access: AccessUser},
		{Method: http.MethodGet, Path: "/api/users/me/events", Handler: h.MyEvents, Access: AccessUser},

		// Events
		{Method: http.MethodGet, Path: "/api/events", Handler: h.ListEvents, Access: AccessPublic},
		{Method: http.MethodPost, Path: "/api/events", Handler: h.CreateEvent, Access: AccessOrganizer},
		{Method: http.MethodGet, Path: "/api/events/{id}", Handler: h.GetEvent, Access: AccessPublic},
		{Method: http.MethodPut, Path: "/api/events/{id}", Handler: h.UpdateEvent, Access: AccessOrganizer},
		{Method: http.MethodDelete, Path: "/api/events/{id}", Handler: h.DeleteEvent, Access: AccessOrganizer},
		{Method: http.MethodPut, Path: "/api/events/{id}/title", Handler: h.UpdateEventTitle, Access: AccessOrganizer},

		// Registrations
		{Method: http.MethodPost, Path: "/api/events/{id}/register", Handler: h.RegisterForEvent, Access: AccessUser},
		{Method: http.MethodDelete, Path: "/api/events/{id}/register", Handler: h.DeregisterFromEvent, Access: AccessUser},
		{Method: http.MethodGet, Path: "/api/events/{id}/registrations", Handler: h.ListEventRegistrations, Access: AccessOrganizer},
		{Method: http.MethodGet, Path: "/api/events/{id}/registrations/status", Handler: h.RegistrationStatus, Access: AccessUser},
	}
}
