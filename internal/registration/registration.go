// ABOUTME: Register/deregister flow with pending state and server reconciliation
// ABOUTME: Optimistic changes are confirmed by re-reading status and count, or rolled back

package registration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gursheyss/cs157a/internal/client"
)

// ErrPending is returned when a change for the same event is still in flight
var ErrPending = errors.New("a registration change for this event is already in progress")

// API is the subset of the client the tracker needs
type API interface {
	GetEvent(ctx context.Context, id int64) (*client.Event, error)
	CheckRegistrationStatus(ctx context.Context, id int64) bool
	RegisterForEvent(ctx context.Context, id int64) (string, error)
	DeregisterFromEvent(ctx context.Context, id int64) (string, error)
}

// State is what a view shows for one event
type State struct {
	EventID    int64
	Registered bool
	Count      int
	Pending    bool
}

// Result is the outcome of a register or deregister call
type Result struct {
	State   State
	Message string // server message on success
}

// Tracker remembers the last confirmed state per event
type Tracker struct {
	api API

	mu        sync.Mutex
	confirmed map[int64]State
	pending   map[int64]State
}

// New creates a tracker over api
func New(api API) *Tracker {
	return &Tracker{
		api:       api,
		confirmed: make(map[int64]State),
		pending:   make(map[int64]State),
	}
}

// Observe records server-confirmed values, e.g. after a detail screen fetched
// the event and its status. Ignored while a change is pending.
func (t *Tracker) Observe(eventID int64, registered bool, count int) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.pending[eventID]; ok {
		return p
	}
	s := State{EventID: eventID, Registered: registered, Count: count}
	t.confirmed[eventID] = s
	return s
}

// Refresh reads status and count from the server and records them
func (t *Tracker) Refresh(ctx context.Context, eventID int64) (State, error) {
	event, err := t.api.GetEvent(ctx, eventID)
	if err != nil {
		return t.State(eventID), err
	}
	if event == nil {
		return t.State(eventID), &client.Error{Kind: client.KindNotFound, Status: 404, Message: "Event not found"}
	}
	registered := t.api.CheckRegistrationStatus(ctx, eventID)
	return t.Observe(eventID, registered, event.RegistrationCount), nil
}

// State returns the pending state if a change is in flight, else the last
// confirmed one
func (t *Tracker) State(eventID int64) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.pending[eventID]; ok {
		return p
	}
	if c, ok := t.confirmed[eventID]; ok {
		return c
	}
	return State{EventID: eventID}
}

// Register signs the current user up for eventID
func (t *Tracker) Register(ctx context.Context, eventID int64) (Result, error) {
	return t.change(ctx, eventID, true, t.api.RegisterForEvent)
}

// Deregister cancels the current user's registration for eventID
func (t *Tracker) Deregister(ctx context.Context, eventID int64) (Result, error) {
	return t.change(ctx, eventID, false, t.api.DeregisterFromEvent)
}

func (t *Tracker) change(ctx context.Context, eventID int64, want bool, call func(context.Context, int64) (string, error)) (Result, error) {
	if _, err := t.begin(eventID, want); err != nil {
		return Result{State: t.State(eventID)}, err
	}

	msg, err := call(ctx, eventID)
	if err != nil {
		slog.Debug("Registration change failed", "event_id", eventID, "register", want, "error", err)
		return Result{State: t.rollback(eventID)}, err
	}

	// The server accepted the change; read back what it now reports.
	return Result{State: t.reconcile(ctx, eventID, want), Message: msg}, nil
}

func (t *Tracker) begin(eventID int64, want bool) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.pending[eventID]; busy {
		return State{}, ErrPending
	}
	s, ok := t.confirmed[eventID]
	if !ok {
		s = State{EventID: eventID, Registered: !want}
		t.confirmed[eventID] = s
	}
	p := s
	p.Pending = true
	if s.Registered != want {
		p.Registered = want
		if want {
			p.Count++
		} else if p.Count > 0 {
			p.Count--
		}
	}
	t.pending[eventID] = p
	return p, nil
}

func (t *Tracker) rollback(eventID int64) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, eventID)
	return t.confirmed[eventID]
}

func (t *Tracker) reconcile(ctx context.Context, eventID int64, want bool) State {
	t.mu.Lock()
	guess := t.pending[eventID]
	t.mu.Unlock()

	s := State{EventID: eventID, Registered: t.api.CheckRegistrationStatus(ctx, eventID), Count: guess.Count}
	if event, err := t.api.GetEvent(ctx, eventID); err == nil && event != nil {
		s.Count = event.RegistrationCount
	}
	if s.Registered != want {
		slog.Warn("Registration state disagrees with server", "event_id", eventID, "want", want)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, eventID)
	t.confirmed[eventID] = s
	return s
}
