// ABOUTME: Event and registration endpoints of the campus events API
// ABOUTME: Maps each REST call to typed results; 404 on a single event means absent

package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

func eventPath(id int64, suffix string) string {
	return fmt.Sprintf("/api/events/%d%s", id, suffix)
}

// ListEvents calls GET /api/events. No session is required.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, "/api/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent calls GET /api/events/{id}. Returns nil, nil when the event does
// not exist; any other failure is an error.
func (c *Client) GetEvent(ctx context.Context, id int64) (*Event, error) {
	resp, err := c.do(ctx, http.MethodGet, eventPath(id, ""), nil)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotFound {
		slog.Debug("Event not found", "event_id", id)
		return nil, nil
	}

	var event *Event
	if err := decodeResponse(resp, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// CreateEvent calls POST /api/events (organizers only)
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	var event *Event
	if err := c.sendJSON(ctx, http.MethodPost, "/api/events", req, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent calls PUT /api/events/{id} (owning organizer only)
func (c *Client) UpdateEvent(ctx context.Context, id int64, req EventRequest) (*Event, error) {
	var event *Event
	if err := c.sendJSON(ctx, http.MethodPut, eventPath(id, ""), req, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent calls DELETE /api/events/{id} (owning organizer only)
func (c *Client) DeleteEvent(ctx context.Context, id int64) (string, error) {
	var resp MessageResponse
	if err := c.sendJSON(ctx, http.MethodDelete, eventPath(id, ""), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// UpdateEventTitle calls PUT /api/events/{id}/title
func (c *Client) UpdateEventTitle(ctx context.Context, id int64, title string) (*Event, error) {
	var event *Event
	if err := c.sendJSON(ctx, http.MethodPut, eventPath(id, "/title"), TitleRequest{Title: title}, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// RegisterForEvent calls POST /api/events/{id}/register for the current user
func (c *Client) RegisterForEvent(ctx context.Context, id int64) (string, error) {
	var resp MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, eventPath(id, "/register"), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeregisterFromEvent calls DELETE /api/events/{id}/register for the current user
func (c *Client) DeregisterFromEvent(ctx context.Context, id int64) (string, error) {
	var resp MessageResponse
	if err := c.sendJSON(ctx, http.MethodDelete, eventPath(id, "/register"), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListEventRegistrations calls GET /api/events/{id}/registrations (organizer)
func (c *Client) ListEventRegistrations(ctx context.Context, id int64) ([]Registration, error) {
	var regs []Registration
	if err := c.getJSON(ctx, eventPath(id, "/registrations"), &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// CheckRegistrationStatus reports whether the current user is registered.
// It never fails: any transport, status or parse problem reads as false.
func (c *Client) CheckRegistrationStatus(ctx context.Context, id int64) bool {
	var status RegistrationStatus
	if err := c.getJSON(ctx, eventPath(id, "/registrations/status"), &status); err != nil {
		slog.Debug("Registration status check failed", "event_id", id, "error", err)
		return false
	}
	return status.IsRegistered
}

// ListMyRegistrations calls GET /api/users/me/registrations
func (c *Client) ListMyRegistrations(ctx context.Context) ([]Registration, error) {
	var regs []Registration
	if err := c.getJSON(ctx, "/api/users/me/registrations", &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// ListMyOrganizedEvents calls GET /api/users/me/events
func (c *Client) ListMyOrganizedEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, "/api/users/me/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Health calls the /api/health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health *HealthResponse
	if err := c.getJSON(ctx, "/api/health", &health); err != nil {
		return nil, err
	}
	if health == nil {
		return nil, &Error{Kind: KindDecode, Status: http.StatusOK, Message: "invalid response from backend: empty health reply"}
	}
	return health, nil
}
