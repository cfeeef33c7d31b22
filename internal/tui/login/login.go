// ABOUTME: Login screen built on a huh form
// ABOUTME: On success the user lands on the route that sent them here

package login

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

type resultMsg struct {
	err error
}

// Model is the login screen
type Model struct {
	env  nav.Env
	next router.Route
	form *huh.Form

	identifier string
	password   string
	submitting bool
	err        error
}

// New creates the login screen. next is where to go after signing in.
func New(env nav.Env, next router.Route) *Model {
	m := &Model{env: env, next: next}
	m.form = m.buildForm()
	return m
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username or email").
				Value(&m.identifier).
				Validate(required("Username or email is required")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("Password is required")),
		).Title("Log in").
			Description("Sign in to register for events"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.password = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		name := m.identifier
		if s := m.env.Snapshot().Session; s != nil {
			name = s.Username
		}
		return m, tea.Batch(
			nav.Notice("Welcome back, "+name+"!", widgets.StatusOK),
			nav.Navigate(m.next),
		)

	case tea.KeyMsg:
		if msg.String() == "esc" && !m.submitting {
			return m, nav.Navigate(router.Events)
		}
	}

	if m.submitting {
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

func (m *Model) submit() tea.Cmd {
	m.submitting = true
	m.err = nil
	auth := m.env.Auth
	identifier, password := strings.TrimSpace(m.identifier), m.password
	return m.env.Do(func(ctx context.Context) tea.Msg {
		return resultMsg{err: auth.Login(ctx, identifier, password)}
	})
}

func (m *Model) View() string {
	var sb strings.Builder
	if m.submitting {
		sb.WriteString("Signing in...")
		return sb.String()
	}
	if m.err != nil {
		sb.WriteString(widgets.StatusText(m.err.Error(), widgets.StatusCritical))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("No account? Press esc, then m for the menu and choose Sign up."))
	return sb.String()
}

func (m *Model) Help() []string {
	return []string{"Tab Next field", "Enter Submit", "Esc Back"}
}

func (m *Model) Capturing() bool {
	return !m.submitting
}
