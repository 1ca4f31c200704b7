// Package tui renders the appointment screen in a terminal.
package tui

import (
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary     = lipgloss.Color("#1976D2")
	Foreground  = lipgloss.Color("#E0E0E0")
	Muted       = lipgloss.Color("#8A8F98")
	Border      = lipgloss.Color("#3A4556")
	Success     = lipgloss.Color("#43A047")
	Destructive = lipgloss.Color("#E53935")
	Warning     = lipgloss.Color("#FFA000")
)

// Styles holds every style the screen uses.
type Styles struct {
	Header    lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardValue lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Dialog    lipgloss.Style
	Title     lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style

	Completed lipgloss.Style
	Cancelled lipgloss.Style
	Scheduled lipgloss.Style
}

// DefaultStyles returns the screen's styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Primary).
			Padding(0, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2).
			Width(20),
		CardTitle: lipgloss.NewStyle().Foreground(Muted),
		CardValue: lipgloss.NewStyle().Bold(true).Foreground(Foreground),
		Label:     lipgloss.NewStyle().Foreground(Muted).Width(18),
		Focused:   lipgloss.NewStyle().Foreground(Primary).Bold(true).Width(18),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Help:      lipgloss.NewStyle().Foreground(Muted),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Muted:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Completed: lipgloss.NewStyle().Foreground(Success),
		Cancelled: lipgloss.NewStyle().Foreground(Destructive),
		Scheduled: lipgloss.NewStyle().Foreground(Warning),
	}
}

// StatusStyle picks the badge color for a status. Unknown statuses render
// like Scheduled.
func (s Styles) StatusStyle(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return s.Completed
	case model.StatusCancelled:
		return s.Cancelled
	default:
		return s.Scheduled
	}
}
