// ABOUTME: Public event catalog rendered as a table under a category and search filter bar
// ABOUTME: Readable without a session; selecting a row opens the event

package eventlist

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/eventfilter"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

// DateLayout is how start times appear in the list
const DateLayout = "Mon Jan 2 3:04PM"

type loadedMsg struct {
	events []client.Event
	err    error
}

// Model is the event list screen
type Model struct {
	env     nav.Env
	table   table.Model
	search  textinput.Model
	all     []client.Event
	events  []client.Event
	filter  eventfilter.Filter
	loading bool
	err     error
}

// New creates the list screen
func New(env nav.Env) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Title", Width: 28},
			{Title: "When", Width: 17},
			{Title: "Where", Width: 22},
			{Title: "Category", Width: 20},
			{Title: "Attendance", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "title, description or location"
	search.CharLimit = 64
	search.Width = 32

	return &Model{env: env, table: t, search: search, loading: true}
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	api := m.env.API
	return m.env.Do(func(ctx context.Context) tea.Msg {
		events, err := api.ListEvents(ctx)
		return loadedMsg{events: events, err: err}
	})
}

// Events returns what is currently listed after filtering
func (m *Model) Events() []client.Event {
	return m.events
}

// Filter is the active category and search
func (m *Model) Filter() eventfilter.Filter {
	return m.filter
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.setEvents(msg.events)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(5, msg.Height-14))
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.handleSearchKey(msg)
		}
		switch msg.String() {
		case "enter":
			if e := m.selected(); e != nil {
				return m, nav.Navigate(router.Route{Screen: router.ScreenEventDetail, EventID: e.EventID})
			}
			return m, nil
		case "r":
			return m, m.load()
		case "n":
			if m.env.Snapshot().Session.IsOrganizer() {
				return m, nav.Navigate(router.Route{Screen: router.ScreenCreateEvent})
			}
			return m, nil
		case "/":
			return m, m.search.Focus()
		case "tab":
			m.cycleCategory(1)
			return m, nil
		case "shift+tab":
			m.cycleCategory(-1)
			return m, nil
		case "esc":
			m.search.SetValue("")
			m.filter = eventfilter.Filter{}
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchKey filters as the user types
func (m *Model) handleSearchKey(msg tea.KeyMsg) (nav.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.filter.Search = ""
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	m.applyFilter()
	return m, cmd
}

func (m *Model) cycleCategory(step int) {
	cats := eventfilter.Categories(m.all)
	i := slices.Index(cats, m.category())
	if i < 0 {
		i = 0
	}
	i = (i + step + len(cats)) % len(cats)
	m.filter.Category = cats[i]
	if m.filter.Category == eventfilter.All {
		m.filter.Category = ""
	}
	m.applyFilter()
}

func (m *Model) category() string {
	if m.filter.Category == "" {
		return eventfilter.All
	}
	return m.filter.Category
}

func (m *Model) setEvents(events []client.Event) {
	events = slices.Clone(events)
	slices.SortStableFunc(events, func(a, b client.Event) int {
		return a.StartTime.Compare(b.StartTime.Time)
	})
	m.all = events

	// a reload may drop the selected category
	if !slices.Contains(eventfilter.Categories(events), m.category()) {
		m.filter.Category = ""
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.events = m.filter.Apply(m.all)

	rows := make([]table.Row, 0, len(m.events))
	for _, e := range m.events {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", e.EventID),
			e.Title,
			e.StartTime.Format(DateLayout),
			e.Location,
			e.Category,
			widgets.Attendance(e.RegistrationCount, e.MaxAttendees),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *Model) selected() *client.Event {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.events) {
		return nil
	}
	return &m.events[i]
}

func (m *Model) filterBar() string {
	category := styles.Label.Render("Category") + " " + styles.ValueStyle.Render("‹"+m.category()+"›")
	search := styles.Label.Render("Search") + " "
	if m.search.Focused() || m.search.Value() != "" {
		search += m.search.View()
	} else {
		search += styles.Subtitle.Render("press / to search")
	}
	return icons.Category.String() + " " + category + "   " + icons.Search.String() + " " + search
}

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Browse Events"))
	sb.WriteString("\n")
	sb.WriteString(m.filterBar())
	sb.WriteString("\n\n")

	switch {
	case m.loading && m.all == nil:
		sb.WriteString(icons.Loading.String() + " Loading events...")
	case m.err != nil:
		sb.WriteString(widgets.StatusText("Error loading events: "+m.err.Error(), widgets.StatusCritical))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("Press r to retry"))
	case len(m.all) == 0:
		sb.WriteString(styles.Subtitle.Render("No events yet."))
	case len(m.events) == 0:
		sb.WriteString(styles.Title.Render(eventfilter.EmptyTitle))
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render(m.filter.EmptyHint()))
	default:
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		count := fmt.Sprintf("%d events", len(m.events))
		if m.filter.Active() {
			count = fmt.Sprintf("%d of %d events", len(m.events), len(m.all))
		}
		sb.WriteString(styles.Subtitle.Render(count))
	}
	return sb.String()
}

func (m *Model) Help() []string {
	if m.search.Focused() {
		return []string{"Enter Apply", "Esc Clear search"}
	}
	help := []string{"↑↓ Navigate", "Enter Open", "/ Search", "Tab Category", "r Refresh"}
	if m.filter.Active() {
		help = append(help, "Esc Clear filters")
	}
	if m.env.Snapshot().Session.IsOrganizer() {
		help = append(help, "n New")
	}
	return help
}

// Capturing is true while the search field has focus so q and m are typed
func (m *Model) Capturing() bool {
	return m.search.Focused()
}
