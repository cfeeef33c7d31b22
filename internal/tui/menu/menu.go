// ABOUTME: Navigation menu listing the destinations open to the current user
// ABOUTME: Choices depend on whether the user is signed in and on their role

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gursheyss/cs157a/internal/session"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
)

// Action is a menu choice
type Action int

const (
	ActionEvents Action = iota
	ActionProfile
	ActionCreateEvent
	ActionLogin
	ActionSignup
	ActionLogout
	ActionQuit
)

// String returns the label of an Action
func (a Action) String() string {
	switch a {
	case ActionEvents:
		return "Browse events"
	case ActionProfile:
		return "My profile"
	case ActionCreateEvent:
		return "Create event"
	case ActionLogin:
		return "Log in"
	case ActionSignup:
		return "Sign up"
	case ActionLogout:
		return "Log out"
	case ActionQuit:
		return "Quit"
	default:
		return "unknown"
	}
}

// Actions lists the choices for snap in display order
func Actions(snap session.Snapshot) []Action {
	actions := []Action{ActionEvents}
	switch {
	case snap.IsAuthenticated:
		actions = append(actions, ActionProfile)
		if snap.Session.IsOrganizer() {
			actions = append(actions, ActionCreateEvent)
		}
		actions = append(actions, ActionLogout)
	case !snap.IsLoading:
		actions = append(actions, ActionLogin, ActionSignup)
	}
	return append(actions, ActionQuit)
}

// Model is the menu screen
type Model struct {
	actions  []Action
	selected Action
	form     *huh.Form
}

// New creates the menu for the current session
func New(env nav.Env) *Model {
	m := &Model{actions: Actions(env.Snapshot())}

	options := make([]huh.Option[Action], 0, len(m.actions))
	for _, a := range m.actions {
		options = append(options, huh.NewOption(a.String(), a))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("Where to?").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	return m
}

// Choices returns the actions on offer
func (m *Model) Choices() []Action {
	return m.actions
}

func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, nav.Navigate(router.Events)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, Command(m.selected)
	}
	return m, cmd
}

// Command returns what choosing a does
func Command(a Action) tea.Cmd {
	switch a {
	case ActionProfile:
		return nav.Navigate(router.Route{Screen: router.ScreenProfile})
	case ActionCreateEvent:
		return nav.Navigate(router.Route{Screen: router.ScreenCreateEvent})
	case ActionLogin:
		return nav.Navigate(router.Route{Screen: router.ScreenLogin})
	case ActionSignup:
		return nav.Navigate(router.Route{Screen: router.ScreenSignup})
	case ActionLogout:
		return func() tea.Msg { return nav.LogoutMsg{} }
	case ActionQuit:
		return tea.Quit
	default:
		return nav.Navigate(router.Events)
	}
}

func (m *Model) View() string {
	return m.form.View()
}

func (m *Model) Help() []string {
	return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
}

func (m *Model) Capturing() bool {
	return false
}
