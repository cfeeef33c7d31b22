// ABOUTME: Sign-up screen built on a huh form
// ABOUTME: Creating an account does not sign in; the user is sent to the login screen

package signup

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/signupform"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

type resultMsg struct {
	message string
	err     error
}

// Model is the sign-up screen
type Model struct {
	env  nav.Env
	form *huh.Form

	username   string
	email      string
	firstName  string
	lastName   string
	password   string
	confirm    string
	submitting bool
	err        error
}

// New creates the sign-up screen
func New(env nav.Env) *Model {
	m := &Model{env: env}
	m.form = m.buildForm()
	return m
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&m.username).Validate(signupform.ValidateUsername),
			huh.NewInput().Title("Email").Value(&m.email).Validate(signupform.ValidateEmail),
			huh.NewInput().Title("First name").Value(&m.firstName),
			huh.NewInput().Title("Last name").Value(&m.lastName),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&m.password).Validate(signupform.ValidatePassword),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&m.confirm).
				Validate(func(s string) error {
					if s != m.password {
						return errors.New("Passwords do not match")
					}
					return nil
				}),
		).Title("Create an account"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (m *Model) request() client.RegisterRequest {
	return signupform.Normalize(client.RegisterRequest{
		Username:  m.username,
		Email:     m.email,
		Password:  m.password,
		FirstName: m.firstName,
		LastName:  m.lastName,
	})
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
			m.password, m.confirm = "", ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, tea.Batch(
			nav.Notice(msg.message+" Please log in.", widgets.StatusOK),
			nav.Navigate(router.Route{Screen: router.ScreenLogin}),
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
	auth, req := m.env.Auth, m.request()
	return m.env.Do(func(ctx context.Context) tea.Msg {
		msg, err := auth.Register(ctx, req)
		return resultMsg{message: msg, err: err}
	})
}

func (m *Model) View() string {
	if m.submitting {
		return "Creating your account..."
	}
	var sb strings.Builder
	if m.err != nil {
		sb.WriteString(widgets.StatusText(m.err.Error(), widgets.StatusCritical))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.form.View())
	return sb.String()
}

func (m *Model) Help() []string {
	return []string{"Tab Next field", "Enter Submit", "Esc Back"}
}

func (m *Model) Capturing() bool {
	return !m.submitting
}
