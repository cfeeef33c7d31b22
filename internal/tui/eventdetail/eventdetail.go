// ABOUTME: Single event view with registration and organizer actions
// ABOUTME: Registration changes go through the tracker so the badge reflects server state

package eventdetail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/registration"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

const timeLayout = "Monday, January 2, 2006 3:04 PM"

type loadedMsg struct {
	event *client.Event
	state registration.State
	err   error
}

type changedMsg struct {
	result registration.Result
	err    error
}

type deletedMsg struct {
	message string
	err     error
}

// Model is the event detail screen
type Model struct {
	env     nav.Env
	eventID int64

	event         *client.Event
	loaded        registration.State // used when there is no tracker
	loading       bool
	notFound      bool
	err           error
	actionErr     error
	confirmDelete bool
	busy          bool
}

// New creates the detail screen for eventID
func New(env nav.Env, eventID int64) *Model {
	return &Model{env: env, eventID: eventID, loading: true}
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	api, tracker, id := m.env.API, m.env.Tracker, m.eventID
	signedIn := m.env.Snapshot().IsAuthenticated

	return m.env.Do(func(ctx context.Context) tea.Msg {
		event, err := api.GetEvent(ctx, id)
		if err != nil || event == nil {
			return loadedMsg{event: event, err: err}
		}
		registered := false
		if signedIn {
			registered = api.CheckRegistrationStatus(ctx, id)
		}
		state := registration.State{EventID: id, Registered: registered, Count: event.RegistrationCount}
		if tracker != nil {
			state = tracker.Observe(id, registered, event.RegistrationCount)
		}
		return loadedMsg{event: event, state: state}
	})
}

// state is the tracker's view of this event
func (m *Model) state() registration.State {
	if m.env.Tracker != nil {
		return m.env.Tracker.State(m.eventID)
	}
	return m.loaded
}

func (m *Model) isOwner() bool {
	snap := m.env.Snapshot()
	return m.event != nil && snap.IsAuthenticated && snap.Session != nil && snap.Session.UserID == m.event.OrganizerID
}

// Registered reports whether the badge is shown
func (m *Model) Registered() bool {
	return m.state().Registered
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		m.notFound = msg.err == nil && msg.event == nil
		m.event = msg.event
		m.loaded = msg.state
		return m, nil

	case changedMsg:
		m.busy = false
		if msg.err != nil {
			m.actionErr = msg.err
			return m, nil
		}
		m.actionErr = nil
		if m.event != nil {
			m.event.RegistrationCount = msg.result.State.Count
		}
		return m, nav.Notice(msg.result.Message, widgets.StatusOK)

	case deletedMsg:
		m.busy = false
		if msg.err != nil {
			m.actionErr = msg.err
			return m, nil
		}
		return m, tea.Batch(
			nav.Notice(msg.message, widgets.StatusOK),
			nav.Navigate(router.Events),
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (nav.Screen, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		if msg.String() == "y" {
			return m, m.delete()
		}
		return m, nil
	}

	switch msg.String() {
	case "b", "esc":
		return m, nav.Navigate(router.Events)
	case "ctrl+r":
		return m, m.load()
	}

	if m.event == nil || m.busy {
		return m, nil
	}
	snap := m.env.Snapshot()

	switch msg.String() {
	case "r":
		if !snap.IsAuthenticated {
			return m, nav.Navigate(router.Route{Screen: router.ScreenLogin})
		}
		if s := m.state(); !s.Registered && !s.Pending {
			return m, m.change(true)
		}
	case "c":
		if s := m.state(); snap.IsAuthenticated && s.Registered && !s.Pending {
			return m, m.change(false)
		}
	case "e":
		if m.isOwner() {
			return m, nav.Navigate(router.Route{Screen: router.ScreenEditEvent, EventID: m.eventID})
		}
	case "a":
		if m.isOwner() {
			return m, nav.Navigate(router.Route{Screen: router.ScreenAttendees, EventID: m.eventID})
		}
	case "d":
		if m.isOwner() {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m *Model) change(register bool) tea.Cmd {
	tracker, id := m.env.Tracker, m.eventID
	if tracker == nil {
		return nil
	}
	m.busy = true
	m.actionErr = nil

	return m.env.Do(func(ctx context.Context) tea.Msg {
		var res registration.Result
		var err error
		if register {
			res, err = tracker.Register(ctx, id)
		} else {
			res, err = tracker.Deregister(ctx, id)
		}
		return changedMsg{result: res, err: err}
	})
}

func (m *Model) delete() tea.Cmd {
	api, id := m.env.API, m.eventID
	m.busy = true
	return m.env.Do(func(ctx context.Context) tea.Msg {
		msg, err := api.DeleteEvent(ctx, id)
		return deletedMsg{message: msg, err: err}
	})
}

func (m *Model) View() string {
	switch {
	case m.loading && m.event == nil:
		return icons.Loading.String() + " Loading event..."
	case m.notFound:
		return styles.Title.Render("Event not found") + "\n" +
			styles.Subtitle.Render("It may have been deleted.") + "\n" +
			styles.Help.Render("Press b to go back to the event list")
	case m.err != nil:
		return widgets.StatusText("Failed to load event: "+m.err.Error(), widgets.StatusCritical) + "\n" +
			styles.Help.Render("Press ctrl+r to retry or b to go back")
	}

	e := m.event
	s := m.state()
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(e.Title))
	sb.WriteString("\n")
	sb.WriteString(m.badges(s))
	sb.WriteString("\n\n")

	row := func(icon icons.Icon, label, value string) {
		sb.WriteString(fmt.Sprintf("%s %s%s\n", icon.String(), styles.Label.Render(label), value))
	}
	row(icons.Calendar, "Starts", e.StartTime.Format(timeLayout))
	row(icons.Clock, "Ends", e.EndTime.Format(timeLayout))
	row(icons.Location, "Location", e.Location)
	row(icons.Organizer, "Organizer", e.OrganizerUsername)
	row(icons.Attendees, "Attendance", widgets.CapacityBar(s.Count, e.MaxAttendees, 20))
	sb.WriteString("\n")
	sb.WriteString(e.Description)
	sb.WriteString("\n")

	if m.actionErr != nil {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(m.actionErr.Error(), widgets.StatusCritical))
		sb.WriteString("\n")
	}
	if m.confirmDelete {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(icons.Delete.String()+" Delete this event? (y/n)", widgets.StatusWarning))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) badges(s registration.State) string {
	badges := []string{widgets.Badge(m.event.Category, widgets.StatusInfo)}
	if m.isOwner() {
		badges = append(badges, widgets.Badge("You're the organizer", widgets.StatusWarning))
	}
	switch {
	case s.Pending && s.Registered:
		badges = append(badges, widgets.Badge("Registering...", widgets.StatusNeutral))
	case s.Pending:
		badges = append(badges, widgets.Badge("Cancelling...", widgets.StatusNeutral))
	case s.Registered:
		badges = append(badges, widgets.Badge("Registered", widgets.StatusOK))
	}
	current := *m.event
	current.RegistrationCount = s.Count
	if current.IsFull() {
		badges = append(badges, widgets.Badge("Full", widgets.StatusCritical))
	}
	if !m.event.IsActive {
		badges = append(badges, widgets.Badge("Inactive", widgets.StatusNeutral))
	}
	return strings.Join(badges, " ")
}

func (m *Model) Help() []string {
	help := []string{"b Back"}
	snap := m.env.Snapshot()
	if m.event != nil {
		s := m.state()
		switch {
		case !snap.IsAuthenticated:
			help = append(help, "r Log in to register")
		case s.Pending:
		case s.Registered:
			help = append(help, "c Cancel registration")
		default:
			help = append(help, "r Register")
		}
		if m.isOwner() {
			help = append(help, "e Edit", "a Attendees", "d Delete")
		}
	}
	return help
}

func (m *Model) Capturing() bool {
	return false
}
