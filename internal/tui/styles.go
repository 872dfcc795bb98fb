package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	completedBG = lipgloss.Color("#1c9963")
	completedFG = lipgloss.Color("#ffffff")
	mutedFG     = lipgloss.Color("241")
	errorFG     = lipgloss.Color("203")
)

type styles struct {
	heading   lipgloss.Style
	pending   lipgloss.Style
	completed lipgloss.Style
	cursor    lipgloss.Style
	status    lipgloss.Style
	notice    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		heading:   lipgloss.NewStyle().Bold(true).MarginTop(1),
		pending:   lipgloss.NewStyle().Padding(0, 1),
		completed: lipgloss.NewStyle().Padding(0, 1).Background(completedBG).Foreground(completedFG),
		cursor:    lipgloss.NewStyle().Bold(true),
		status:    lipgloss.NewStyle().Foreground(errorFG),
		notice:    lipgloss.NewStyle().Foreground(mutedFG).Italic(true),
	}
}

// ConfigureColor forces plain output when mode is "never" or NO_COLOR is
// set. Any other mode leaves terminal detection to lipgloss.
func ConfigureColor(mode string) {
	if mode == "never" || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
