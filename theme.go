package regroup

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the
// picker automatically matches any color scheme.
type Theme struct {
	Title    int // picker title
	Selected int // highlighted row
	Muted    int // help line, dimmed rows
	Error    int // error messages
	Accent   int // counts, emphasis
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Title:    5,
		Selected: 2,
		Muted:    8,
		Error:    1,
		Accent:   4,
	}
}
