// Package tui is the terminal front end: a router with the login and
// fichaje pages.
package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"

	"github.com/fingertech/fichaje/internal/auth"
	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/checkin"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/log"
	"github.com/fingertech/fichaje/internal/session"
)

// A Route names a page.
type Route string

// routes
const (
	RouteLogin    Route = "/"
	RouteFichajes Route = "/fichajes"
)

// Deps are the services the pages drive.
type Deps struct {
	Session   *session.Session
	Gate      *auth.Gate
	Submitter *checkin.Submitter
	Resolver  *location.Resolver
	Widget    *capture.Widget

	// NoColor renders without relying on colors, as with NO_COLOR.
	NoColor bool

	// Redirect delays; zero uses the auth defaults.
	LoginRedirectDelay  time.Duration
	ExpiryRedirectDelay time.Duration
}

type navigateMsg struct {
	route Route
}

func navigate(route Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}

func navigateAfter(d time.Duration, route Route) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return navigateMsg{route: route} })
}

// Model is the root model. It owns the current page.
type Model struct {
	ctx  context.Context
	deps Deps
	help help.Model

	layout  layout
	route   Route
	login   loginPage
	fichaje fichajePage
}

// New creates the root model. The initial route is the fichaje page when
// the stored session is still usable.
func New(ctx context.Context, deps Deps) Model {
	if deps.LoginRedirectDelay <= 0 {
		deps.LoginRedirectDelay = auth.LoginRedirectDelay
	}
	if deps.ExpiryRedirectDelay <= 0 {
		deps.ExpiryRedirectDelay = auth.ExpiryRedirectDelay
	}
	if deps.Widget == nil {
		deps.Widget = capture.NewWidget(nil)
	}
	m := Model{ctx: ctx, deps: deps, help: help.New(), layout: layout{plain: deps.NoColor}}
	err := deps.Session.Check()
	if err == nil {
		m.route = RouteFichajes
		m.fichaje = newFichajePage(ctx, deps)
		return m
	}
	if errors.Is(err, session.ErrExpired) {
		if err := deps.Session.Clear(); err != nil {
			log.Warn(ctx).Err(err).Msg("tui: failed to clear expired session")
		}
	}
	m.route = RouteLogin
	m.login = newLoginPage(ctx, deps)
	return m
}

// NewProgram creates a program running the root model until ctx is done.
func NewProgram(ctx context.Context, deps Deps, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(New(ctx, deps), append(opts,
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)...)
}

// Route returns the current route.
func (m Model) Route() Route {
	return m.route
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.route == RouteFichajes {
		return m.fichaje.Init()
	}
	return m.login.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.width = msg.Width
		return m, nil
	case tea.ColorProfileMsg:
		m.layout.plain = m.deps.NoColor || plainProfile(msg.Profile)
		return m, nil
	case navigateMsg:
		return m.goTo(msg.route)
	case quitMsg:
		if err := m.deps.Widget.Close(); err != nil {
			log.Warn(m.ctx).Err(err).Msg("tui: failed to release camera")
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.route {
	case RouteFichajes:
		m.fichaje, cmd = m.fichaje.Update(msg)
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func (m Model) goTo(route Route) (tea.Model, tea.Cmd) {
	log.Debug(m.ctx).Str("from", string(m.route)).Str("to", string(route)).Msg("tui: navigate")
	if m.route == RouteFichajes && route != RouteFichajes {
		if err := m.deps.Widget.Close(); err != nil {
			log.Warn(m.ctx).Err(err).Msg("tui: failed to release camera")
		}
	}

	m.route = route
	switch route {
	case RouteFichajes:
		m.fichaje = newFichajePage(m.ctx, m.deps)
		cmd := m.fichaje.Init()
		return m, cmd
	default:
		m.route = RouteLogin
		m.login = newLoginPage(m.ctx, m.deps)
		cmd := m.login.Init()
		return m, cmd
	}
}

// View implements tea.Model.
func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	var body, keys string
	switch m.route {
	case RouteFichajes:
		body = m.fichaje.View(m.layout)
		keys = m.help.View(fichajeKeys)
	default:
		body = m.login.View()
		keys = m.help.View(loginKeys)
	}
	return docStyle.Render(body + "\n" + helpStyle.Render(keys))
}

type quitMsg struct{}

func quit() tea.Msg { return quitMsg{} }
