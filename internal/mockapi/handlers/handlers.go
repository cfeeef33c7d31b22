// ABOUTME: HTTP handlers for the mock campus events API
// ABOUTME: Shared handler state, JSON helpers and the health endpoint

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/middleware"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

// Handler serves every endpoint from one in-memory store
type Handler struct {
	store         *services.Store
	tokens        *services.TokenService
	sessions      *services.SessionService
	hasher        *services.Hasher
	secureCookies bool
}

// Deps are the services a Handler needs
type Deps struct {
	Store         *services.Store
	Tokens        *services.TokenService
	Sessions      *services.SessionService
	Hasher        *services.Hasher
	SecureCookies bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		store:         d.Store,
		tokens:        d.Tokens,
		sessions:      d.Sessions,
		hasher:        d.Hasher,
		secureCookies: d.SecureCookies,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "ok"}
	if h.store != nil {
		resp.Events = h.store.CountEvents()
		resp.Users = h.store.CountUsers()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	middleware.WriteJSONError(w, message, code)
}

func (h *Handler) writeMessage(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}

// decodeBody reads a JSON body into v, writing a 400 on failure
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// eventID parses the {id} path segment, writing a 400 on failure
func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, "Invalid event ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// caller returns the authenticated user's claims, writing a 401 when absent
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (*middleware.UserClaims, bool) {
	claims := middleware.GetUserClaims(r)
	if claims == nil {
		h.writeError(w, "Authentication required", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

// writeStoreError maps store errors to statuses and messages
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		h.writeError(w, "Event not found", http.StatusNotFound)
	case errors.Is(err, errNotOwner):
		h.writeError(w, "You are not the organizer of this event", http.StatusForbidden)
	case errors.Is(err, services.ErrAlreadyRegistered):
		h.writeError(w, "You are already registered for this event", http.StatusConflict)
	case errors.Is(err, services.ErrNotRegistered):
		h.writeError(w, "You are not registered for this event", http.StatusNotFound)
	case errors.Is(err, services.ErrEventFull):
		h.writeError(w, "Event is full", http.StatusConflict)
	case errors.Is(err, services.ErrEventInactive):
		h.writeError(w, "Event is not active", http.StatusConflict)
	case errors.Is(err, services.ErrUserNotFound):
		h.writeError(w, "User not found", http.StatusNotFound)
	default:
		var ve validationError
		if errors.As(err, &ve) {
			h.writeError(w, ve.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Unhandled store error", "error", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func toEventResponse(v services.EventView) models.EventResponse {
	e := v.Event
	return models.EventResponse{
		EventID:           e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		StartTime:         models.FormatTimestamp(e.StartTime),
		EndTime:           models.FormatTimestamp(e.EndTime),
		Category:          e.Category,
		OrganizerID:       e.OrganizerID,
		OrganizerUsername: v.OrganizerUsername,
		CreatedAt:         models.FormatTimestamp(e.CreatedAt),
		UpdatedAt:         models.FormatTimestamp(e.UpdatedAt),
		RegistrationCount: v.RegistrationCount,
		MaxAttendees:      e.MaxAttendees,
		IsActive:          e.IsActive,
	}
}

func toEventResponses(views []services.EventView) []models.EventResponse {
	out := make([]models.EventResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toEventResponse(v))
	}
	return out
}

func toRegistrationResponses(views []services.RegistrationView) []models.RegistrationResponse {
	out := make([]models.RegistrationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, models.RegistrationResponse{
			RegistrationID:   v.Registration.ID,
			RegistrationTime: models.FormatTimestamp(v.Registration.RegistrationTime),
			EventID:          v.Registration.EventID,
			EventTitle:       v.Event.Title,
			EventStartTime:   models.FormatTimestamp(v.Event.StartTime),
			EventEndTime:     models.FormatTimestamp(v.Event.EndTime),
			EventLocation:    v.Event.Location,
			UserID:           v.Registration.UserID,
			UserUsername:     v.User.Username,
			UserEmail:        v.User.Email,
		})
	}
	return out
}

func userInfo(u *models.User) models.UserInfoResponse {
	return models.UserInfoResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.Roles,
	}
}

func cookieMaxAge(ttl time.Duration) int {
	return int(ttl / time.Second)
}
