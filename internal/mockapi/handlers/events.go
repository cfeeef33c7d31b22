// ABOUTME: Event and registration handlers
// ABOUTME: Mutations check that the caller organizes the event they are changing

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

var errNotOwner = errors.New("caller does not organize this event")

type validationError string

func (e validationError) Error() string { return string(e) }

// parseEventRequest validates a create/update body into event fields
func parseEventRequest(req models.EventRequest) (models.Event, error) {
	e := models.Event{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Category:     strings.TrimSpace(req.Category),
		MaxAttendees: req.MaxAttendees,
	}
	if e.Title == "" {
		return e, validationError("Title is required")
	}
	if e.Location == "" {
		return e, validationError("Location is required")
	}
	if e.Category == "" {
		return e, validationError("Category is required")
	}

	start, err := models.ParseTimestamp(req.StartTime)
	if err != nil {
		return e, validationError("Invalid start time")
	}
	end, err := models.ParseTimestamp(req.EndTime)
	if err != nil {
		return e, validationError("Invalid end time")
	}
	if !end.After(start) {
		return e, validationError("End time must be after start time")
	}
	e.StartTime, e.EndTime = start, end

	if e.MaxAttendees != nil && *e.MaxAttendees <= 0 {
		return e, validationError("Max attendees must be positive")
	}
	return e, nil
}

// ListEvents returns every event; no session required
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, toEventResponses(h.store.ListEvents()))
}

// GetEvent returns one event or 404
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	view, err := h.store.GetEvent(id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventResponse(view))
}

// CreateEvent stores a new event organized by the caller
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req models.EventRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	event, err := parseEventRequest(req)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	event.OrganizerID = claims.UserID

	h.writeJSON(w, http.StatusCreated, toEventResponse(h.store.CreateEvent(event)))
}

// UpdateEvent replaces an event's fields
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	var req models.EventRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	fields, err := parseEventRequest(req)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	view, err := h.store.UpdateEvent(id, func(e *models.Event) error {
		if e.OrganizerID != claims.UserID {
			return errNotOwner
		}
		e.Title = fields.Title
		e.Description = fields.Description
		e.Location = fields.Location
		e.StartTime = fields.StartTime
		e.EndTime = fields.EndTime
		e.Category = fields.Category
		e.MaxAttendees = fields.MaxAttendees
		return nil
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventResponse(view))
}

// UpdateEventTitle changes only the title. Ownership is enforced like any
// other mutation.
func (h *Handler) UpdateEventTitle(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	var req models.TitleRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		h.writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	view, err := h.store.UpdateEvent(id, func(e *models.Event) error {
		if e.OrganizerID != claims.UserID {
			return errNotOwner
		}
		e.Title = title
		return nil
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventResponse(view))
}

// DeleteEvent removes an event the caller organizes
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := h.requireOwner(id, claims.UserID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	if err := h.store.DeleteEvent(id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeMessage(w, "Event deleted successfully")
}

// RegisterForEvent signs the caller up
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.Register(claims.UserID, id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeMessage(w, "Successfully registered for event")
}

// DeregisterFromEvent cancels the caller's registration
func (h *Handler) DeregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := h.store.Deregister(claims.UserID, id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeMessage(w, "Successfully deregistered from event")
}

// ListEventRegistrations shows attendees to the event's organizer
func (h *Handler) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := h.requireOwner(id, claims.UserID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	regs, err := h.store.RegistrationsForEvent(id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toRegistrationResponses(regs))
}

// RegistrationStatus answers whether the caller is registered
func (h *Handler) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.GetEvent(id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.RegistrationStatusResponse{
		IsRegistered: h.store.IsRegistered(claims.UserID, id),
	})
}

func (h *Handler) requireOwner(eventID, userID int64) error {
	view, err := h.store.GetEvent(eventID)
	if err != nil {
		return err
	}
	if view.Event.OrganizerID != userID {
		return errNotOwner
	}
	return nil
}
