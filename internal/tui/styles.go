package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ulbuild/internal/materialize"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// TitleStyle styles the line above the table.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	statusStyles = map[materialize.Status]lipgloss.Style{
		materialize.StatusCopied: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		materialize.StatusFresh:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		materialize.StatusDownloading: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		materialize.StatusCopying:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		materialize.StatusStale:         lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		materialize.StatusNotApplicable: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		materialize.StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		materialize.StatusSkipped: lipgloss.NewStyle().Faint(true),
		materialize.StatusPending: lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status.
func StatusStyle(status materialize.Status) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
