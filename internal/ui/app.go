// Package ui implements the interactive admin dashboard.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/auth"
	"github.com/rodstewart/estatectl/internal/logger"
	"github.com/rodstewart/estatectl/internal/resources"
)

// Options configures the dashboard
type Options struct {
	Client  *api.Client
	Session *auth.Session
	Log     *logger.Logger
	// PageSize overrides every collection's page size when positive
	PageSize int
}

// loggedOutMsg is sent once the session rejects the stored token
type loggedOutMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	tabs   []tab
	active int

	width  int
	height int

	keys     KeyMap
	showHelp bool

	loggedOut bool
	attempted bool
	login     textinput.Model
	loginErr  string
}

// New creates the root model with one tab per collection. Tabs stop their
// requests when ctx is cancelled.
func New(ctx context.Context, opts Options) Model {
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}

	login := textinput.New()
	login.Placeholder = "API token"
	login.Prompt = "Token: "
	login.EchoMode = textinput.EchoPassword
	login.EchoCharacter = '•'
	login.CharLimit = 512

	m := Model{
		opts: opts,
		tabs: []tab{
			newListTab(ctx, 0, resources.Bookings(), opts),
			newListTab(ctx, 1, resources.Properties(), opts),
			newListTab(ctx, 2, resources.Inquiries(), opts),
			newListTab(ctx, 3, resources.Contacts(), opts),
			newListTab(ctx, 4, resources.Messages(), opts),
			newListTab(ctx, 5, resources.Partners(), opts),
		},
		keys:      DefaultKeyMap(),
		login:     login,
		loggedOut: opts.Session != nil && opts.Session.LoggedOut(),
	}
	if m.loggedOut {
		m.login.Focus()
	}
	return m
}

// Run starts the dashboard and blocks until the user quits or ctx ends
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if opts.Session != nil {
		opts.Session.SetLogoutHandler(func() { p.Send(loggedOutMsg{}) })
		defer opts.Session.SetLogoutHandler(nil)
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// Close stops every tab's pending requests
func (m Model) Close() {
	for _, t := range m.tabs {
		t.Close()
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.loggedOut {
		return textinput.Blink
	}
	return m.loadAll()
}

func (m Model) loadAll() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.tabs))
	for i, t := range m.tabs {
		cmds[i] = t.Init()
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, t := range m.tabs {
			t.Resize(m.width, m.contentHeight())
		}
		return m, nil

	case loggedOutMsg:
		m.loggedOut = true
		if m.attempted {
			m.loginErr = "Token rejected, try again"
		} else {
			m.loginErr = "Session expired, sign in again"
		}
		for _, t := range m.tabs {
			t.Reset()
		}
		m.login.Reset()
		return m, m.login.Focus()

	case loadedMsg:
		if msg.tab >= 0 && msg.tab < len(m.tabs) {
			return m, m.tabs[msg.tab].Update(msg)
		}
		return m, nil

	case submittedMsg:
		if msg.tab >= 0 && msg.tab < len(m.tabs) {
			return m, m.tabs[msg.tab].Update(msg)
		}
		return m, nil

	case spinner.TickMsg:
		cmds := make([]tea.Cmd, len(m.tabs))
		for i, t := range m.tabs {
			cmds[i] = t.Update(msg)
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.loggedOut || m.showHelp {
			return m, nil
		}
		msg.Y -= m.headerHeight()
		return m, m.tabs[m.active].Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loggedOut {
			return m.handleLogin(msg)
		}
		if m.showHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showHelp = false
			}
			return m, nil
		}

		current := m.tabs[m.active]
		if current.Capturing() {
			return m, current.Update(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.active = (m.active + 1) % len(m.tabs)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.active = (m.active + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		}
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.tabs) {
			m.active = n - 1
			return m, nil
		}
		return m, current.Update(msg)
	}

	if m.loggedOut {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
	return m, m.tabs[m.active].Update(msg)
}

func (m Model) handleLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		token := strings.TrimSpace(m.login.Value())
		if m.opts.Session == nil {
			return m, nil
		}
		if err := m.opts.Session.Login(token); err != nil {
			m.loginErr = capitalize(err.Error())
			return m, nil
		}
		m.opts.Log.Info("signed in from dashboard")
		m.loggedOut = false
		m.attempted = true
		m.loginErr = ""
		m.login.Reset()
		m.login.Blur()
		return m, m.loadAll()
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.loggedOut {
		return m.renderLogin()
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	var content string
	if m.showHelp {
		content = m.renderHelp()
	} else {
		content = m.tabs[m.active].View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) headerHeight() int {
	return lipgloss.Height(m.renderHeader())
}

func (m Model) contentHeight() int {
	return max(m.height-m.headerHeight()-lipgloss.Height(m.renderFooter()), 1)
}

func (m Model) renderHeader() string {
	parts := []string{TitleStyle.Render("estatectl")}
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if i == m.active {
			parts = append(parts, ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return TabBarStyle.Width(max(m.width, 1)).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (m Model) renderFooter() string {
	keys := []string{
		helpKey("1-6", "tabs"),
		helpKey("j/k", "move"),
		helpKey("h/l", "page"),
		helpKey("/", "search"),
		helpKey("f", "filter"),
		helpKey("enter", "view"),
		helpKey("s", "status"),
		helpKey("d", "delete"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return FooterStyle.Width(max(m.width, 1)).Render(strings.Join(keys, "  "))
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.NextPage, m.keys.PrevPage,
		m.keys.NextTab, m.keys.PrevTab, m.keys.Search, m.keys.Filter,
		m.keys.AltFilter, m.keys.ClearFilter, m.keys.Open, m.keys.Status,
		m.keys.Reply, m.keys.Delete, m.keys.Refresh, m.keys.Quit,
	}
	lines := []string{TitleStyle.Render("Keys"), ""}
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %-12s %s", HelpKeyStyle.Render(h.Key), HelpDescStyle.Render(h.Desc)))
	}
	lines = append(lines, "", HelpDescStyle.Render("  Dialogs close with esc or a click outside them."))
	return lipgloss.NewStyle().Height(m.contentHeight()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLogin() string {
	lines := []string{
		TitleStyle.Render("Sign in"),
		"",
		m.login.View(),
		"",
	}
	if m.loginErr != "" {
		lines = append(lines, ErrorStyle.Render(m.loginErr))
	}
	lines = append(lines, HelpDescStyle.Render("enter to sign in · esc to quit"))
	box := DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center, box)
}
