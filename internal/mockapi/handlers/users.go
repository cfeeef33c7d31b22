// ABOUTME: Handlers for the caller's own registrations and organized events
// ABOUTME: Backs the profile screen

package handlers

import "net/http"

// MyRegistrations lists events the caller registered for
func (h *Handler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, toRegistrationResponses(h.store.RegistrationsForUser(claims.UserID)))
}

// MyEvents lists events the caller organizes
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, toEventResponses(h.store.EventsByOrganizer(claims.UserID)))
}
