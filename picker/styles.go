package picker

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/regroup"
)

// Styles maps a Theme to lipgloss styles for picker rendering.
type Styles struct {
	Title    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t regroup.Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(ansiColor(t.Title)).Bold(true),
		Row:      lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Foreground(ansiColor(t.Selected)).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
