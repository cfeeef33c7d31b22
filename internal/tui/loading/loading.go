// ABOUTME: Placeholder screen shown while the session check is in flight
// ABOUTME: Keeps the requested route so the user lands there once the check finishes

package loading

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/styles"
)

// Model shows a spinner for a held route
type Model struct {
	target  router.Route
	spinner spinner.Model
}

// New creates the loading screen for target
func New(target router.Route) *Model {
	return &Model{
		target: target,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Gold)),
		),
	}
}

// Target is the route waiting on the session check
func (m *Model) Target() router.Route {
	return m.target
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (nav.Screen, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	return fmt.Sprintf("%s Checking your session...", m.spinner.View())
}

func (m *Model) Help() []string {
	return nil
}

func (m *Model) Capturing() bool {
	return false
}
