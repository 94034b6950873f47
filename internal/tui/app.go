// Package tui is the terminal front end: a stack of screens over the
// session, store, and units layers. Each screen's remote work runs under a
// context canceled when the screen is torn down, and results addressed to a
// torn-down screen are dropped.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/liftlog/internal/deeplink"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/units"
)

// Deps bundles what screens need. One instance is shared by the whole app;
// Unit is mutable because Settings can change it mid-session.
type Deps struct {
	Store   *store.Store
	Session *session.Manager
	Links   *deeplink.Parser
	Log     *slog.Logger
	Styles  *Styles

	unit units.Unit
}

// Unit returns the active display unit.
func (d *Deps) Unit() units.Unit { return d.unit }

// SetUnit switches the active display unit.
func (d *Deps) SetUnit(u units.Unit) { d.unit = u }

// View is one screen. Update returns the view to keep showing, usually the
// receiver.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	Title() string
}

// entry pairs a view with the cancel func for its work context.
type entry struct {
	view   View
	cancel context.CancelFunc
}

// Navigation messages. Screens emit these; the app owns the stack.

type pushMsg struct {
	build func(ctx context.Context) View
}

type popMsg struct{}

type replaceMsg struct {
	build func(ctx context.Context) View
}

func push(build func(ctx context.Context) View) tea.Cmd {
	return func() tea.Msg { return pushMsg{build: build} }
}

func pop() tea.Msg { return popMsg{} }

func replace(build func(ctx context.Context) View) tea.Cmd {
	return func() tea.Msg { return replaceMsg{build: build} }
}

// viewMsg wraps an async result with the view that asked for it, so results
// for popped screens can be dropped.
type viewMsg struct {
	owner View
	inner tea.Msg
}

// request runs fn off the update loop and addresses the result to owner.
func request(owner View, fn func() tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return viewMsg{owner: owner, inner: fn()}
	}
}

// App is the root model.
type App struct {
	deps  *Deps
	stack []entry

	width  int
	height int
}

// NewApp builds the root model with the initial screen decided by session
// state and an optional deep link.
func NewApp(deps *Deps, unit units.Unit, link *deeplink.Link) *App {
	deps.unit = unit
	a := &App{deps: deps}

	if !deps.Session.SignedIn() {
		a.pushView(func(ctx context.Context) View { return newAuthView(deps, ctx) })
		return a
	}

	a.pushView(func(ctx context.Context) View { return newDashboardView(deps, ctx) })
	if link != nil {
		a.openLink(link)
	}
	return a
}

// openLink pushes the screen a deep link names on top of the dashboard.
func (a *App) openLink(link *deeplink.Link) {
	switch link.Route {
	case deeplink.RouteMain:
		// Dashboard is already on the stack.
	case deeplink.RouteExerciseSelect:
		date := linkDate(link)
		a.pushView(func(ctx context.Context) View { return newComposerView(a.deps, ctx, date) })
	case deeplink.RouteLogSet:
		date := linkDate(link)
		exerciseID := link.Param("exercise_id")
		a.pushView(func(ctx context.Context) View { return newLogSetByIDView(a.deps, ctx, date, exerciseID) })
	case deeplink.RouteResetPassword:
		token := link.Param("access_token")
		a.pushView(func(ctx context.Context) View { return newResetPasswordView(a.deps, ctx, token) })
	}
}

func linkDate(link *deeplink.Link) time.Time {
	if d, err := time.Parse("2006-01-02", link.Param("date")); err == nil {
		return d
	}
	return time.Now()
}

func (a *App) pushView(build func(ctx context.Context) View) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stack = append(a.stack, entry{view: build(ctx), cancel: cancel})
}

func (a *App) popView() {
	if len(a.stack) <= 1 {
		return
	}
	top := a.stack[len(a.stack)-1]
	top.cancel()
	a.stack = a.stack[:len(a.stack)-1]
}

func (a *App) top() View {
	return a.stack[len(a.stack)-1].view
}

func (a *App) Init() tea.Cmd {
	return a.top().Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			for i := range a.stack {
				a.stack[i].cancel()
			}
			return a, tea.Quit
		}

	case pushMsg:
		a.pushView(msg.build)
		return a, a.top().Init()

	case popMsg:
		// Re-run the revealed screen's load so edits made above it show up
		// without a manual refresh.
		a.popView()
		return a, a.top().Init()

	case replaceMsg:
		a.popView()
		a.pushView(msg.build)
		return a, a.top().Init()

	case viewMsg:
		// Results addressed to a screen no longer on top are stale.
		if msg.owner != a.top() {
			a.deps.Log.Debug("dropping result for torn-down screen")
			return a, nil
		}
		return a.updateTop(msg.inner)
	}

	return a.updateTop(msg)
}

func (a *App) updateTop(msg tea.Msg) (tea.Model, tea.Cmd) {
	i := len(a.stack) - 1
	view, cmd := a.stack[i].view.Update(msg)
	a.stack[i].view = view
	return a, cmd
}

func (a *App) View() string {
	var b strings.Builder
	s := a.deps.Styles

	crumbs := make([]string, 0, len(a.stack))
	for _, e := range a.stack {
		crumbs = append(crumbs, e.view.Title())
	}
	b.WriteString(s.Title.Render("LiftLog"))
	b.WriteString("  ")
	b.WriteString(s.Subtitle.Render(strings.Join(crumbs, " › ")))
	b.WriteString("\n\n")
	b.WriteString(a.top().View())
	return b.String()
}

// Run starts the TUI and blocks until it exits.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
