// ABOUTME: Profile screen with my registrations and, for organizers, my events
// ABOUTME: Each tab loads independently and shows its own error

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	data "github.com/gursheyss/cs157a/internal/profile"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

const dateLayout = "Jan 2 3:04PM"

// Tab is a profile section
type Tab int

const (
	TabRegistrations Tab = iota
	TabEvents
)

type loadedMsg struct {
	profile data.Profile
}

type actionMsg struct {
	message string
	err     error
}

// Model is the profile screen
type Model struct {
	env       nav.Env
	organizer bool
	tab       Tab

	loading   bool
	profile   data.Profile
	regTable  table.Model
	evTable   table.Model
	actionErr error
	confirm   int64 // event pending delete confirmation
	busy      bool
}

// New creates the profile screen
func New(env nav.Env) *Model {
	return &Model{
		env:       env,
		organizer: env.Snapshot().Session.IsOrganizer(),
		loading:   true,
		regTable: table.New(
			table.WithColumns([]table.Column{
				{Title: "Event", Width: 30},
				{Title: "When", Width: 14},
				{Title: "Where", Width: 22},
			}),
			table.WithFocused(true),
			table.WithHeight(10),
		),
		evTable: table.New(
			table.WithColumns([]table.Column{
				{Title: "Event", Width: 30},
				{Title: "When", Width: 14},
				{Title: "Attendance", Width: 14},
			}),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	api, organizer := m.env.API, m.organizer
	return m.env.Do(func(ctx context.Context) tea.Msg {
		return loadedMsg{profile: data.Load(ctx, api, organizer)}
	})
}

// Profile returns the loaded sections
func (m *Model) Profile() data.Profile {
	return m.profile
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.profile = msg.profile
		m.fillTables()
		return m, nil

	case actionMsg:
		m.busy = false
		if msg.err != nil {
			m.actionErr = msg.err
			return m, nil
		}
		m.actionErr = nil
		return m, tea.Batch(nav.Notice(msg.message, widgets.StatusOK), m.load())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (nav.Screen, tea.Cmd) {
	if m.confirm != 0 {
		id := m.confirm
		m.confirm = 0
		if msg.String() == "y" {
			return m, m.deleteEvent(id)
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		if m.organizer {
			m.tab = 1 - m.tab
		}
		return m, nil
	case "b", "esc":
		return m, nav.Navigate(router.Events)
	case "r":
		return m, m.load()
	case "enter":
		if id := m.selectedEventID(); id != 0 {
			return m, nav.Navigate(router.Route{Screen: router.ScreenEventDetail, EventID: id})
		}
		return m, nil
	case "x":
		if m.tab == TabRegistrations && !m.busy {
			if id := m.selectedEventID(); id != 0 {
				return m, m.cancelRegistration(id)
			}
		}
		return m, nil
	case "d":
		if m.tab == TabEvents && !m.busy {
			m.confirm = m.selectedEventID()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.tab == TabRegistrations {
		m.regTable, cmd = m.regTable.Update(msg)
	} else {
		m.evTable, cmd = m.evTable.Update(msg)
	}
	return m, cmd
}

func (m *Model) fillTables() {
	regRows := make([]table.Row, 0, len(m.profile.Registrations.Items))
	for _, r := range m.profile.Registrations.Items {
		regRows = append(regRows, table.Row{r.EventTitle, r.EventStartTime.Format(dateLayout), r.EventLocation})
	}
	m.regTable.SetRows(regRows)

	evRows := make([]table.Row, 0, len(m.profile.Events.Items))
	for _, e := range m.profile.Events.Items {
		evRows = append(evRows, table.Row{e.Title, e.StartTime.Format(dateLayout), widgets.Attendance(e.RegistrationCount, e.MaxAttendees)})
	}
	m.evTable.SetRows(evRows)
}

func (m *Model) selectedEventID() int64 {
	if m.tab == TabRegistrations {
		items := m.profile.Registrations.Items
		if i := m.regTable.Cursor(); i >= 0 && i < len(items) {
			return items[i].EventID
		}
		return 0
	}
	items := m.profile.Events.Items
	if i := m.evTable.Cursor(); i >= 0 && i < len(items) {
		return items[i].EventID
	}
	return 0
}

func (m *Model) cancelRegistration(id int64) tea.Cmd {
	m.busy = true
	tracker, api := m.env.Tracker, m.env.API
	return m.env.Do(func(ctx context.Context) tea.Msg {
		if tracker != nil {
			res, err := tracker.Deregister(ctx, id)
			return actionMsg{message: res.Message, err: err}
		}
		msg, err := api.DeregisterFromEvent(ctx, id)
		return actionMsg{message: msg, err: err}
	})
}

func (m *Model) deleteEvent(id int64) tea.Cmd {
	m.busy = true
	api := m.env.API
	return m.env.Do(func(ctx context.Context) tea.Msg {
		msg, err := api.DeleteEvent(ctx, id)
		return actionMsg{message: msg, err: err}
	})
}

func (m *Model) View() string {
	var sb strings.Builder

	snap := m.env.Snapshot()
	if s := snap.Session; s != nil {
		sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.User.String(), s.Username)))
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · %s", s.Email, s.RoleLabel())))
		sb.WriteString("\n")
	}

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	if m.loading {
		sb.WriteString(icons.Loading.String() + " Loading...")
		return sb.String()
	}

	if m.tab == TabRegistrations {
		sb.WriteString(m.sectionView(m.profile.Registrations.Err, len(m.profile.Registrations.Items), "You have not registered for any events.", m.regTable))
	} else {
		sb.WriteString(m.sectionView(m.profile.Events.Err, len(m.profile.Events.Items), "You have not created any events.", m.evTable))
	}

	if m.actionErr != nil {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(m.actionErr.Error(), widgets.StatusCritical))
	}
	if m.confirm != 0 {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(icons.Delete.String()+" Delete this event? (y/n)", widgets.StatusWarning))
	}
	return sb.String()
}

func (m *Model) sectionView(err error, n int, empty string, t table.Model) string {
	switch {
	case err != nil:
		return widgets.StatusText("Failed to load: "+err.Error(), widgets.StatusCritical)
	case n == 0:
		return styles.Subtitle.Render(empty)
	default:
		return t.View()
	}
}

func (m *Model) renderTabs() string {
	tab := func(t Tab, label string, err error) string {
		if err != nil {
			label += " " + icons.Warning.String()
		}
		if m.tab == t {
			return styles.ActiveTab.Render(label)
		}
		return styles.Tab.Render(label)
	}

	tabs := tab(TabRegistrations, "My registrations", m.profile.Registrations.Err)
	if m.organizer {
		tabs += tab(TabEvents, "My events", m.profile.Events.Err)
	}
	return tabs
}

// ShowTab switches sections
func (m *Model) ShowTab(t Tab) {
	if t == TabEvents && !m.organizer {
		return
	}
	m.tab = t
}

func (m *Model) Help() []string {
	help := []string{"↑↓ Navigate", "Enter Open"}
	if m.organizer {
		help = append(help, "Tab Switch")
	}
	if m.tab == TabRegistrations {
		help = append(help, "x Cancel registration")
	} else {
		help = append(help, "d Delete")
	}
	return append(help, "r Refresh", "b Back")
}

func (m *Model) Capturing() bool {
	return false
}

var _ nav.Screen = (*Model)(nil)
