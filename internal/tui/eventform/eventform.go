// ABOUTME: Create and edit event screen
// ABOUTME: Input is validated locally first; nothing is sent while any field is invalid

package eventform

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gursheyss/cs157a/internal/client"
	rules "github.com/gursheyss/cs157a/internal/eventform"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

var fieldLabels = map[string]string{
	rules.FieldTitle:        "Title",
	rules.FieldDescription:  "Description",
	rules.FieldLocation:     "Location",
	rules.FieldDate:         "Date",
	rules.FieldStartTime:    "Start time",
	rules.FieldEndTime:      "End time",
	rules.FieldCategory:     "Category",
	rules.FieldMaxAttendees: "Max attendees",
}

type loadedMsg struct {
	event *client.Event
	err   error
}

type savedMsg struct {
	event *client.Event
	err   error
}

// Model is the event form screen. eventID is zero when creating.
type Model struct {
	env     nav.Env
	eventID int64
	form    *huh.Form
	values  rules.Form

	loading    bool
	submitting bool
	loadErr    error
	saveErr    error
	fieldErrs  rules.FieldErrors
}

// NewCreate opens an empty form
func NewCreate(env nav.Env) *Model {
	m := &Model{env: env}
	m.form = m.buildForm()
	return m
}

// NewEdit opens the form for an existing event
func NewEdit(env nav.Env, eventID int64) *Model {
	return &Model{env: env, eventID: eventID, loading: true}
}

func (m *Model) editing() bool {
	return m.eventID != 0
}

func (m *Model) buildForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(rules.Categories))
	for _, c := range rules.Categories {
		options = append(options, huh.NewOption(c, c))
	}
	if m.values.Category == "" {
		m.values.Category = rules.Categories[0]
	}

	title := icons.Add.String() + " Create event"
	if m.editing() {
		title = icons.Edit.String() + " Edit event"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&m.values.Title),
			huh.NewText().Title("Description").Lines(4).Value(&m.values.Description),
			huh.NewInput().Title("Location").Value(&m.values.Location),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&m.values.Date),
			huh.NewInput().Title("Start time").Placeholder("HH:MM").Value(&m.values.StartTime),
			huh.NewInput().Title("End time").Placeholder("HH:MM").Value(&m.values.EndTime),
			huh.NewSelect[string]().Title("Category").Options(options...).Value(&m.values.Category),
			huh.NewInput().Title("Max attendees").Placeholder("leave empty for no limit").Value(&m.values.MaxAttendees),
		).Title(title),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (m *Model) Init() tea.Cmd {
	if !m.editing() {
		return m.form.Init()
	}
	api, id := m.env.API, m.eventID
	return m.env.Do(func(ctx context.Context) tea.Msg {
		event, err := api.GetEvent(ctx, id)
		return loadedMsg{event: event, err: err}
	})
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.loadErr = msg.err
			return m, nil
		case msg.event == nil:
			m.loadErr = &client.Error{Kind: client.KindNotFound, Status: 404, Message: "Event not found"}
			return m, nil
		}
		if s := m.env.Snapshot().Session; s == nil || s.UserID != msg.event.OrganizerID {
			m.loadErr = &client.Error{Kind: client.KindHTTP, Status: 403, Message: "You are not the organizer of this event"}
			return m, nil
		}
		m.values = rules.FromEvent(msg.event)
		m.form = m.buildForm()
		return m, m.form.Init()

	case savedMsg:
		m.submitting = false
		if msg.err != nil {
			m.saveErr = msg.err
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		notice := "Event created successfully!"
		if m.editing() {
			notice = "Event updated successfully!"
		}
		return m, tea.Batch(
			nav.Notice(notice, widgets.StatusOK),
			nav.Navigate(router.Route{Screen: router.ScreenEventDetail, EventID: msg.event.EventID}),
		)

	case tea.KeyMsg:
		if msg.String() == "esc" && !m.submitting {
			return m, m.back()
		}
	}

	if m.form == nil || m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

func (m *Model) back() tea.Cmd {
	if m.editing() {
		return nav.Navigate(router.Route{Screen: router.ScreenEventDetail, EventID: m.eventID})
	}
	return nav.Navigate(router.Events)
}

// submit validates locally and only then sends the request
func (m *Model) submit() tea.Cmd {
	m.saveErr = nil
	req, err := m.values.Request()
	if err != nil {
		m.fieldErrs, _ = err.(rules.FieldErrors)
		m.form = m.buildForm()
		return m.form.Init()
	}
	m.fieldErrs = nil
	m.submitting = true

	api, id := m.env.API, m.eventID
	return m.env.Do(func(ctx context.Context) tea.Msg {
		var event *client.Event
		var err error
		if id != 0 {
			event, err = api.UpdateEvent(ctx, id, req)
		} else {
			event, err = api.CreateEvent(ctx, req)
		}
		return savedMsg{event: event, err: err}
	})
}

// FieldErrors returns the last local validation failures
func (m *Model) FieldErrors() rules.FieldErrors {
	return m.fieldErrs
}

func (m *Model) View() string {
	switch {
	case m.loading:
		return icons.Loading.String() + " Loading event..."
	case m.loadErr != nil:
		return widgets.StatusText(m.loadErr.Error(), widgets.StatusCritical) + "\n" +
			styles.Help.Render("Press esc to go back")
	case m.submitting:
		return "Saving event..."
	}

	var sb strings.Builder
	if m.saveErr != nil {
		sb.WriteString(widgets.StatusText(m.saveErr.Error(), widgets.StatusCritical))
		sb.WriteString("\n\n")
	}
	if len(m.fieldErrs) > 0 {
		for _, f := range m.fieldErrs.Fields() {
			sb.WriteString(widgets.StatusText(fieldLabels[f]+": "+m.fieldErrs[f], widgets.StatusCritical))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(m.form.View())
	return sb.String()
}

func (m *Model) Help() []string {
	return []string{"Tab Next field", "Enter Submit", "Esc Cancel"}
}

func (m *Model) Capturing() bool {
	return m.form != nil && !m.submitting
}
