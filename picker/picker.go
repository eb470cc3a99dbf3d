// Package picker provides a Bubble Tea prompt for choosing an open edit
// session by its group type name.
package picker

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/regroup"
)

// ErrCancelled is returned by Choose when the user dismisses the picker
// without selecting a session.
var ErrCancelled = errors.New("selection cancelled")

// Choose runs the picker over names and blocks until the user selects one
// or dismisses it. When ctx is cancelled the picker quits and the
// selection counts as dismissed.
func Choose(ctx context.Context, title string, names []string, theme regroup.Theme) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("nothing to choose from: %w", ErrCancelled)
	}
	p := tea.NewProgram(New(title, names, theme))
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	out, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	m, ok := out.(Model)
	if !ok || m.Choice() == "" {
		return "", ErrCancelled
	}
	return m.Choice(), nil
}
