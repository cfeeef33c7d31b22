// ABOUTME: Attendee list for an event, visible to the event's organizer
// ABOUTME: The server rejects anyone else; its message is shown as is

package attendees

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

type loadedMsg struct {
	event *client.Event
	regs  []client.Registration
	err   error
}

// Model is the attendee list screen
type Model struct {
	env     nav.Env
	eventID int64
	event   *client.Event
	regs    []client.Registration
	table   table.Model
	loading bool
	err     error
}

// New creates the attendee screen for eventID
func New(env nav.Env, eventID int64) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Username", Width: 20},
			{Title: "Email", Width: 30},
			{Title: "Registered", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return &Model{env: env, eventID: eventID, table: t, loading: true}
}

func (m *Model) Init() tea.Cmd {
	api, id := m.env.API, m.eventID
	return m.env.Do(func(ctx context.Context) tea.Msg {
		event, err := api.GetEvent(ctx, id)
		if err != nil {
			return loadedMsg{err: err}
		}
		regs, err := api.ListEventRegistrations(ctx, id)
		return loadedMsg{event: event, regs: regs, err: err}
	})
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.event, m.regs, m.err = msg.event, msg.regs, msg.err
		rows := make([]table.Row, 0, len(msg.regs))
		for _, r := range msg.regs {
			rows = append(rows, table.Row{r.UserUsername, r.UserEmail, r.RegistrationTime.Format("Jan 2 3:04PM")})
		}
		m.table.SetRows(rows)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "b", "esc":
			return m, nav.Navigate(router.Route{Screen: router.ScreenEventDetail, EventID: m.eventID})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var sb strings.Builder
	title := "Attendees"
	if m.event != nil {
		title = "Attendees: " + m.event.Title
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(icons.Loading.String() + " Loading attendees...")
	case m.err != nil:
		sb.WriteString(widgets.StatusText(m.err.Error(), widgets.StatusCritical))
	case m.event == nil:
		sb.WriteString("Event not found")
	case len(m.regs) == 0:
		sb.WriteString(styles.Subtitle.Render("Nobody has registered yet."))
	default:
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Attendance: %s", widgets.Attendance(len(m.regs), m.event.MaxAttendees))))
	}
	return sb.String()
}

func (m *Model) Help() []string {
	return []string{"↑↓ Navigate", "b Back"}
}

func (m *Model) Capturing() bool {
	return false
}
