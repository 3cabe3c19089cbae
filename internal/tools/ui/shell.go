package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/nav"
	"github.com/sandeepkv93/dexnote-client/internal/view"
)

const shellHelp = "commands: open PATH | /PATH | category NAME | refresh | logout | quit"

type SessionSource interface {
	Snapshot() domain.Session
	Resolve(ctx context.Context) domain.Session
	Logout(ctx context.Context) domain.Session
	Subscribe(fn func(domain.Session)) func()
}

type Navigator interface {
	Navigate(ctx context.Context, path string) nav.Result
}

type PageRenderer interface {
	Render(ctx context.Context, res nav.Result, opts view.Options) (string, error)
}

type resolvedMsg struct{ session domain.Session }

type sessionMsg struct{ session domain.Session }

type pageMsg struct {
	path     string
	content  string
	deferred bool
	err      error
}

// ShellModel is the interactive client. Resolution starts in Init and every
// navigation, including re-evaluation after a session change, goes through
// the navigator.
type ShellModel struct {
	ctx      context.Context
	sessions SessionSource
	nav      Navigator
	pages    PageRenderer

	path      string
	opts      view.Options
	input     string
	content   string
	status    string
	resolving bool
}

func NewShell(ctx context.Context, sessions SessionSource, navigator Navigator, pages PageRenderer, startPath string) *ShellModel {
	if startPath == "" {
		startPath = guard.LandingPath
	}
	return &ShellModel{
		ctx:       ctx,
		sessions:  sessions,
		nav:       navigator,
		pages:     pages,
		path:      guard.Normalize(startPath),
		resolving: sessions.Snapshot().Status == domain.StatusResolving,
	}
}

func (m *ShellModel) Init() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resolvedMsg{session: m.sessions.Resolve(ctx)}
	}
}

func (m *ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resolvedMsg:
		m.resolving = false
		return m, m.navigate(m.path)
	case sessionMsg:
		if m.resolving {
			return m, nil
		}
		return m, m.navigate(m.path)
	case pageMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.path = msg.path
		m.content = msg.content
		if !msg.deferred {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ShellModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input)
		m.input = ""
		return m, m.exec(line)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *ShellModel) exec(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch cmd := strings.ToLower(fields[0]); {
	case cmd == "quit" || cmd == "exit" || cmd == "q":
		return tea.Quit
	case cmd == "help" || cmd == "?":
		m.status = shellHelp
	case cmd == "refresh" || cmd == "r":
		return m.navigate(m.path)
	case cmd == "logout":
		ctx := m.ctx
		return func() tea.Msg {
			return sessionMsg{session: m.sessions.Logout(ctx)}
		}
	case cmd == "category" && len(fields) == 2:
		m.opts.Category = strings.ToLower(fields[1])
		return m.navigate(m.path)
	case cmd == "open" && len(fields) == 2:
		return m.navigate(fields[1])
	case strings.HasPrefix(cmd, "/"):
		return m.navigate(fields[0])
	default:
		m.status = "unknown command: " + line + " (" + shellHelp + ")"
	}
	return nil
}

func (m *ShellModel) navigate(path string) tea.Cmd {
	ctx, opts := m.ctx, m.opts
	return func() tea.Msg {
		res := m.nav.Navigate(ctx, path)
		content, err := m.pages.Render(ctx, res, opts)
		return pageMsg{
			path:     res.Decision.Path,
			content:  content,
			deferred: res.Decision.Action == guard.ActionDefer,
			err:      err,
		}
	}
}

func (m *ShellModel) View() string {
	var b strings.Builder
	if m.resolving {
		b.WriteString("Loading...\n")
	} else {
		b.WriteString(m.content)
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(m.path) + " > " + m.input)
	return b.String()
}

// Path is the page currently shown.
func (m *ShellModel) Path() string { return m.path }

// RunShell runs the shell until the user quits or ctx ends. Session changes
// made elsewhere in the process re-evaluate the current page.
func RunShell(ctx context.Context, m *ShellModel, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	unsubscribe := m.sessions.Subscribe(func(s domain.Session) {
		p.Send(sessionMsg{session: s})
	})
	defer unsubscribe()
	_, err := p.Run()
	return err
}
