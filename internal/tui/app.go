// ABOUTME: Root bubbletea model for the campus events TUI
// ABOUTME: Owns navigation, the auth gate and the header/footer frame around each screen

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gursheyss/cs157a/internal/registration"
	"github.com/gursheyss/cs157a/internal/session"
	"github.com/gursheyss/cs157a/internal/tui/attendees"
	"github.com/gursheyss/cs157a/internal/tui/eventdetail"
	"github.com/gursheyss/cs157a/internal/tui/eventform"
	"github.com/gursheyss/cs157a/internal/tui/eventlist"
	"github.com/gursheyss/cs157a/internal/tui/icons"
	"github.com/gursheyss/cs157a/internal/tui/loading"
	"github.com/gursheyss/cs157a/internal/tui/login"
	"github.com/gursheyss/cs157a/internal/tui/menu"
	"github.com/gursheyss/cs157a/internal/tui/nav"
	"github.com/gursheyss/cs157a/internal/tui/profile"
	"github.com/gursheyss/cs157a/internal/tui/router"
	"github.com/gursheyss/cs157a/internal/tui/signup"
	"github.com/gursheyss/cs157a/internal/tui/styles"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

// Layout constants
const (
	minTerminalWidth = 80
)

// Deps are the collaborators the app hands to screens
type Deps struct {
	API     nav.API
	Auth    session.Authenticator
	Tracker *registration.Tracker
	// Start is the first route shown. Defaults to the event list.
	Start router.Route
}

// verifiedMsg is sent when the startup session check finishes
type verifiedMsg struct {
	err error
}

// sessionMsg carries a session change from the store
type sessionMsg struct {
	snap session.Snapshot
}

// loggedOutMsg is sent when logout finishes
type loggedOutMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	deps   Deps
	width  int
	height int

	base     context.Context
	stop     context.CancelFunc
	gen      uint64
	cancel   context.CancelFunc
	route    router.Route
	screen   nav.Screen
	held     bool
	verified bool

	updates     <-chan session.Snapshot
	unsubscribe func()
	notice      *nav.NoticeMsg
	initCmd     tea.Cmd
}

// New creates the app and its first screen. Nothing touches the network
// until Init runs.
func New(deps Deps) *App {
	if deps.Tracker == nil && deps.API != nil {
		deps.Tracker = registration.New(deps.API)
	}
	base, stop := context.WithCancel(context.Background())
	a := &App{deps: deps, base: base, stop: stop}
	if deps.Auth != nil {
		a.updates, a.unsubscribe = deps.Auth.Subscribe()
	} else {
		a.verified = true
	}
	a.initCmd = a.show(deps.Start)
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, a.verify(), a.listen())
}

func (a *App) verify() tea.Cmd {
	if a.deps.Auth == nil {
		return nil
	}
	auth, ctx := a.deps.Auth, a.base
	return func() tea.Msg {
		return verifiedMsg{err: auth.Verify(ctx)}
	}
}

func (a *App) listen() tea.Cmd {
	if a.updates == nil {
		return nil
	}
	updates := a.updates
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg{snap: snap}
	}
}

// snapshot is the session as the gate sees it. Until the startup check
// has answered the session counts as loading.
func (a *App) snapshot() session.Snapshot {
	if a.deps.Auth == nil {
		return session.Snapshot{}
	}
	snap := a.deps.Auth.Snapshot()
	if !a.verified {
		snap.IsLoading = true
	}
	return snap
}

// Route is the route on screen, or the held route while waiting
func (a *App) Route() router.Route {
	return a.route
}

// Screen is the screen being shown
func (a *App) Screen() nav.Screen {
	return a.screen
}

// Held reports whether the app is waiting on the session to show a route
func (a *App) Held() bool {
	return a.held
}

// Gen is the generation of the current screen
func (a *App) Gen() uint64 {
	return a.gen
}

// show leaves the current screen and builds the one for r. Results still
// in flight for the old screen are canceled and will be dropped.
func (a *App) show(r router.Route) tea.Cmd {
	target, ok := router.Resolve(r, a.snapshot())

	if a.cancel != nil {
		a.cancel()
	}
	a.gen++
	ctx, cancel := context.WithCancel(a.base)
	a.cancel = cancel

	if !ok {
		slog.Debug("Holding route until session is known", "route", r)
		a.held = true
		a.route = r
		a.screen = loading.New(r)
		return a.screen.Init()
	}

	if target != r {
		slog.Debug("Route redirected", "from", r, "to", target)
	}
	a.held = false
	a.route = target

	env := nav.Env{
		Ctx:     ctx,
		Gen:     a.gen,
		API:     a.deps.API,
		Auth:    a.deps.Auth,
		Tracker: a.deps.Tracker,
	}

	next := router.Events
	if target.Screen == router.ScreenLogin && r.Screen != router.ScreenLogin {
		next = r
	}
	a.screen = build(target, env, next)

	cmd := a.screen.Init()
	if a.width > 0 {
		size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
		return tea.Batch(cmd, func() tea.Msg { return size })
	}
	return cmd
}

func build(r router.Route, env nav.Env, loginNext router.Route) nav.Screen {
	switch r.Screen {
	case router.ScreenEventDetail:
		return eventdetail.New(env, r.EventID)
	case router.ScreenLogin:
		return login.New(env, loginNext)
	case router.ScreenSignup:
		return signup.New(env)
	case router.ScreenProfile:
		return profile.New(env)
	case router.ScreenCreateEvent:
		return eventform.NewCreate(env)
	case router.ScreenEditEvent:
		return eventform.NewEdit(env, r.EventID)
	case router.ScreenAttendees:
		return attendees.New(env, r.EventID)
	case router.ScreenMenu:
		return menu.New(env)
	default:
		return eventlist.New(env)
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.forward(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case nav.Result:
		if msg.Gen != a.gen {
			slog.Debug("Dropping stale result", "gen", msg.Gen, "current", a.gen, "type", fmt.Sprintf("%T", msg.Msg))
			return a, nil
		}
		return a.forward(msg.Msg)

	case nav.NavigateMsg:
		return a, a.show(msg.Route)

	case nav.NoticeMsg:
		a.notice = &msg
		return a, nil

	case nav.LogoutMsg:
		return a, a.logout()

	case loggedOutMsg:
		a.notice = &nav.NoticeMsg{Text: "You have been logged out", Level: widgets.StatusOK}
		if msg.err != nil {
			a.notice = &nav.NoticeMsg{Text: "Logged out locally: " + msg.err.Error(), Level: widgets.StatusWarning}
		}
		return a, a.show(router.Events)

	case verifiedMsg:
		a.verified = true
		return a, a.regate()

	case sessionMsg:
		return a, tea.Batch(a.regate(), a.listen())
	}

	return a.forward(msg)
}

// regate re-checks the current route after the session changed. A held
// route is retried; a protected screen the user may no longer see is left.
// Guest screens navigate on their own once they finish.
func (a *App) regate() tea.Cmd {
	if a.held {
		if router.Gate(a.route, a.snapshot()) == router.Hold {
			return nil
		}
		return a.show(a.route)
	}

	switch router.AccessFor(a.route.Screen) {
	case router.Authenticated, router.OrganizerOnly:
		if router.Gate(a.route, a.snapshot()) != router.Allow {
			return a.show(a.route)
		}
	}
	return nil
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.screen == nil {
		return a, nil
	}
	screen, cmd := a.screen.Update(msg)
	a.screen = screen
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, a.quit()
	}

	a.notice = nil

	if a.screen == nil || !a.screen.Capturing() {
		switch msg.String() {
		case "q":
			return a, a.quit()
		case "m":
			if a.route.Screen != router.ScreenMenu {
				return a, a.show(router.Route{Screen: router.ScreenMenu})
			}
		}
	}
	return a.forward(msg)
}

func (a *App) logout() tea.Cmd {
	if a.deps.Auth == nil {
		return nil
	}
	auth, ctx := a.deps.Auth, a.base
	return func() tea.Msg {
		return loggedOutMsg{err: auth.Logout(ctx)}
	}
}

func (a *App) quit() tea.Cmd {
	a.Close()
	return tea.Quit
}

// Close cancels outstanding work and stops listening for session changes
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.stop()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// View implements tea.Model
func (a *App) View() string {
	content := ""
	if a.screen != nil {
		content = a.screen.View()
	}
	return a.wrapWithFrame(content)
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Campus Events"))

	rightText := icons.Lock.String() + " Guest"
	snap := a.snapshot()
	switch {
	case snap.IsAuthenticated:
		rightText = fmt.Sprintf("%s %s · %s", icons.User.String(), snap.Session.Username, snap.Session.RoleLabel())
	case snap.IsLoading:
		rightText = icons.Loading.String() + " ..."
	}
	rightRendered := contextStyle.Render(rightText) + " "

	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftRendered + strings.Repeat("─", fillWidth) + rightRendered + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	if a.screen != nil {
		shortcuts = append(shortcuts, a.screen.Help()...)
		if !a.screen.Capturing() {
			if a.route.Screen != router.ScreenMenu {
				shortcuts = append(shortcuts, "m Menu")
			}
			shortcuts = append(shortcuts, "q Quit")
		}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, styles.KeyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlain) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header, notice and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	if a.notice != nil {
		sb.WriteString(widgets.StatusText(a.notice.Text, a.notice.Level))
		sb.WriteString("\n")
	}
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(deps Deps) error {
	app := New(deps)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
