// Package view renders DexNote pages for the terminal.
package view

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Brand   lipgloss.Style
	Title   lipgloss.Style
	Subtle  lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Card    lipgloss.Style
	Badge   lipgloss.Style
	KeyHint lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Brand:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		Badge:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		KeyHint: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
