// ABOUTME: In-memory data store for users, events and registrations
// ABOUTME: Enforces uniqueness and capacity rules the real server enforces in its database

package services

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

// Store errors; handlers map them to HTTP statuses
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already in use")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrEventFull         = errors.New("event is full")
	ErrEventInactive     = errors.New("event is not active")
)

type registrationKey struct {
	userID  int64
	eventID int64
}

// Store keeps all state in memory behind one RWMutex
type Store struct {
	mu            sync.RWMutex
	users         map[int64]*models.User
	events        map[int64]*models.Event
	registrations map[registrationKey]*models.Registration
	nextUserID    int64
	nextEventID   int64
	nextRegID     int64
	now           func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*models.User),
		events:        make(map[int64]*models.Event),
		registrations: make(map[registrationKey]*models.Registration),
		now:           time.Now,
	}
}

// CreateUser adds an account. Username and email are unique, case-insensitively.
func (s *Store) CreateUser(u models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return nil, ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, ErrEmailTaken
		}
	}

	s.nextUserID++
	u.ID = s.nextUserID
	u.Roles = slices.Clone(u.Roles)
	if len(u.Roles) == 0 {
		u.Roles = []string{models.RoleUser}
	}
	u.CreatedAt = s.now()
	s.users[u.ID] = &u

	copied := u
	return &copied, nil
}

// FindUser looks a user up by username or email
func (s *Store) FindUser(identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetUser returns a user by ID
func (s *Store) GetUser(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// CountUsers returns the number of accounts
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// EventView is an event joined with the data clients display
type EventView struct {
	Event             models.Event
	OrganizerUsername string
	RegistrationCount int
}

func (s *Store) viewLocked(e *models.Event) EventView {
	v := EventView{Event: *e}
	if org, ok := s.users[e.OrganizerID]; ok {
		v.OrganizerUsername = org.Username
	}
	for key := range s.registrations {
		if key.eventID == e.ID {
			v.RegistrationCount++
		}
	}
	return v
}

// ListEvents returns all events ordered by start time
func (s *Store) ListEvents() []EventView {
	return s.listEvents(func(*models.Event) bool { return true })
}

// EventsByOrganizer returns events created by userID
func (s *Store) EventsByOrganizer(userID int64) []EventView {
	return s.listEvents(func(e *models.Event) bool { return e.OrganizerID == userID })
}

func (s *Store) listEvents(keep func(*models.Event) bool) []EventView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]EventView, 0, len(s.events))
	for _, e := range s.events {
		if keep(e) {
			views = append(views, s.viewLocked(e))
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Event.StartTime.Equal(views[j].Event.StartTime) {
			return views[i].Event.ID < views[j].Event.ID
		}
		return views[i].Event.StartTime.Before(views[j].Event.StartTime)
	})
	return views
}

// GetEvent returns one event
func (s *Store) GetEvent(id int64) (EventView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return EventView{}, ErrEventNotFound
	}
	return s.viewLocked(e), nil
}

// CountEvents returns the number of events
func (s *Store) CountEvents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// CreateEvent stores a new event owned by e.OrganizerID
func (s *Store) CreateEvent(e models.Event) EventView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	now := s.now()
	e.ID = s.nextEventID
	e.IsActive = true
	e.CreatedAt = now
	e.UpdatedAt = now
	s.events[e.ID] = &e
	return s.viewLocked(&e)
}

// UpdateEvent applies fn to the stored event under the write lock
func (s *Store) UpdateEvent(id int64, fn func(*models.Event) error) (EventView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return EventView{}, ErrEventNotFound
	}
	updated := *e
	if err := fn(&updated); err != nil {
		return EventView{}, err
	}
	updated.ID = id
	updated.UpdatedAt = s.now()
	s.events[id] = &updated
	return s.viewLocked(&updated), nil
}

// DeleteEvent removes an event and its registrations
func (s *Store) DeleteEvent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.events, id)
	for key := range s.registrations {
		if key.eventID == id {
			delete(s.registrations, key)
		}
	}
	return nil
}

// Register adds userID to eventID. One registration per pair.
func (s *Store) Register(userID, eventID int64) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if !e.IsActive {
		return nil, ErrEventInactive
	}
	key := registrationKey{userID: userID, eventID: eventID}
	if _, exists := s.registrations[key]; exists {
		return nil, ErrAlreadyRegistered
	}
	if e.MaxAttendees != nil && s.viewLocked(e).RegistrationCount >= *e.MaxAttendees {
		return nil, ErrEventFull
	}

	s.nextRegID++
	reg := &models.Registration{
		ID:               s.nextRegID,
		UserID:           userID,
		EventID:          eventID,
		RegistrationTime: s.now(),
	}
	s.registrations[key] = reg

	copied := *reg
	return &copied, nil
}

// Deregister removes userID from eventID
func (s *Store) Deregister(userID, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return ErrEventNotFound
	}
	key := registrationKey{userID: userID, eventID: eventID}
	if _, exists := s.registrations[key]; !exists {
		return ErrNotRegistered
	}
	delete(s.registrations, key)
	return nil
}

// IsRegistered reports whether userID holds a registration for eventID
func (s *Store) IsRegistered(userID, eventID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registrations[registrationKey{userID: userID, eventID: eventID}]
	return ok
}

// RegistrationView is a registration joined with its event and user
type RegistrationView struct {
	Registration models.Registration
	Event        models.Event
	User         models.User
}

// RegistrationsForEvent lists who registered for eventID
func (s *Store) RegistrationsForEvent(eventID int64) ([]RegistrationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, ErrEventNotFound
	}
	return s.registrationsLocked(func(r *models.Registration) bool { return r.EventID == eventID }), nil
}

// RegistrationsForUser lists the events userID registered for
func (s *Store) RegistrationsForUser(userID int64) []RegistrationView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registrationsLocked(func(r *models.Registration) bool { return r.UserID == userID })
}

func (s *Store) registrationsLocked(keep func(*models.Registration) bool) []RegistrationView {
	views := []RegistrationView{}
	for _, r := range s.registrations {
		if !keep(r) {
			continue
		}
		v := RegistrationView{Registration: *r}
		if e, ok := s.events[r.EventID]; ok {
			v.Event = *e
		}
		if u, ok := s.users[r.UserID]; ok {
			v.User = *u
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Registration.ID < views[j].Registration.ID
	})
	return views
}
