// ABOUTME: Shared screen contract, navigation messages and the async result envelope
// ABOUTME: Async results carry the generation of the screen that asked, so stale ones are dropped

package nav

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/registration"
	"github.com/gursheyss/cs157a/internal/session"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

// API is the part of the HTTP client the screens call
type API interface {
	ListEvents(ctx context.Context) ([]client.Event, error)
	GetEvent(ctx context.Context, id int64) (*client.Event, error)
	CreateEvent(ctx context.Context, req client.EventRequest) (*client.Event, error)
	UpdateEvent(ctx context.Context, id int64, req client.EventRequest) (*client.Event, error)
	DeleteEvent(ctx context.Context, id int64) (string, error)
	ListEventRegistrations(ctx context.Context, id int64) ([]client.Registration, error)
	CheckRegistrationStatus(ctx context.Context, id int64) bool
	RegisterForEvent(ctx context.Context, id int64) (string, error)
	DeregisterFromEvent(ctx context.Context, id int64) (string, error)
	ListMyRegistrations(ctx context.Context) ([]client.Registration, error)
	ListMyOrganizedEvents(ctx context.Context) ([]client.Event, error)
}

var _ API = (*client.Client)(nil)

// Env is handed to each screen when it is shown. Ctx is canceled when the
// screen is left.
type Env struct {
	Ctx     context.Context
	Gen     uint64
	API     API
	Auth    session.Authenticator
	Tracker *registration.Tracker
}

// Snapshot is the current auth state
func (e Env) Snapshot() session.Snapshot {
	if e.Auth == nil {
		return session.Snapshot{}
	}
	return e.Auth.Snapshot()
}

// Result wraps a message produced off the UI goroutine
type Result struct {
	Gen uint64
	Msg tea.Msg
}

// Do runs fn in a command and tags its message with this screen's generation
func (e Env) Do(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx, gen := e.Ctx, e.Gen
	return func() tea.Msg {
		return Result{Gen: gen, Msg: fn(ctx)}
	}
}

// Screen is a view the app can show
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	// Help lists footer shortcuts as "key label"
	Help() []string
	// Capturing is true while a text field has focus, so global keys are
	// passed through
	Capturing() bool
}

// NavigateMsg asks the app to show a route
type NavigateMsg struct {
	Route router.Route
}

// Navigate returns a command that emits NavigateMsg
func Navigate(r router.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}

// NoticeMsg shows a one-line message in the footer area
type NoticeMsg struct {
	Text  string
	Level widgets.StatusLevel
}

// Notice returns a command that emits NoticeMsg
func Notice(text string, level widgets.StatusLevel) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Level: level} }
}

// LogoutMsg asks the app to end the session
type LogoutMsg struct{}
