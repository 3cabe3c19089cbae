package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type tickMsg time.Time

type doneMsg struct {
	details []string
	err     error
}

type spinnerModel struct {
	title   string
	frame   int
	done    bool
	details []string
	err     error
	cancel  context.CancelFunc
	run     tea.Cmd
}

func tick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.run)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		m.done = true
		m.details = msg.details
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			m.done = true
			m.err = context.Canceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if !m.done {
		return fmt.Sprintf("%s %s\n", spinnerFrames[m.frame], m.title)
	}
	var b strings.Builder
	if m.err != nil {
		b.WriteString(failStyle.Render("✗ "+m.title) + ": " + m.err.Error() + "\n")
	} else {
		b.WriteString(okStyle.Render("✓ "+m.title) + "\n")
	}
	for _, d := range m.details {
		b.WriteString(dimStyle.Render("  "+d) + "\n")
	}
	return b.String()
}

// Run shows a spinner while fn runs and prints its details when it returns.
func Run(title string, fn func(context.Context) ([]string, error), opts ...tea.ProgramOption) ([]string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := spinnerModel{
		title:  title,
		cancel: cancel,
		run: func() tea.Msg {
			details, err := fn(ctx)
			return doneMsg{details: details, err: err}
		},
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, err
	}
	out := final.(spinnerModel)
	return out.details, out.err
}
