package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/fwojciec/regroup"
)

var _ tea.Model = Model{}

// keyMap holds the picker key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Choose key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Home:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// Model is the Bubble Tea model for the session picker.
type Model struct {
	title  string
	names  []string
	keys   keyMap
	styles Styles

	cursor  int
	offset  int // first visible row
	width   int
	height  int
	choice  string
	aborted bool
}

// New creates a picker over the given session names.
func New(title string, names []string, theme regroup.Theme) Model {
	return Model{
		title:  title,
		names:  names,
		keys:   defaultKeyMap(),
		styles: NewStyles(theme),
		width:  80,
		height: len(names) + 2,
	}
}

// Choice returns the selected name, or "" when nothing was selected.
func (m Model) Choice() string { return m.choice }

// Aborted reports whether the user dismissed the picker.
func (m Model) Aborted() bool { return m.aborted }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.scrollToCursor(), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m.scrollToCursor(), nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
			return m.scrollToCursor(), nil
		case key.Matches(msg, m.keys.Home):
			m.cursor = 0
			return m.scrollToCursor(), nil
		case key.Matches(msg, m.keys.End):
			if len(m.names) > 0 {
				m.cursor = len(m.names) - 1
			}
			return m.scrollToCursor(), nil
		case key.Matches(msg, m.keys.Choose):
			if len(m.names) > 0 {
				m.choice = m.names[m.cursor]
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	if len(m.names) == 0 {
		b.WriteString(m.styles.Help.Render("no open sessions"))
		b.WriteString("\n")
		b.WriteString(m.helpView())
		return b.String()
	}

	end := min(m.offset+m.visibleRows(), len(m.names))
	for i := m.offset; i < end; i++ {
		name := runewidth.Truncate(m.names[i], max(m.width-2, 1), "…")
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + name))
		} else {
			b.WriteString(m.styles.Row.Render("  " + name))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.helpView())
	return b.String()
}

// visibleRows is the number of list rows that fit between the title and
// the help line.
func (m Model) visibleRows() int {
	return max(m.height-2, 1)
}

func (m Model) scrollToCursor() Model {
	vis := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vis {
		m.offset = m.cursor - vis + 1
	}
	return m
}

func (m Model) helpView() string {
	parts := []string{
		m.keys.Up.Help().Key + "/" + m.keys.Down.Help().Key + " move",
		m.keys.Choose.Help().Key + " " + m.keys.Choose.Help().Desc,
		m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
	}
	return m.styles.Help.Render(strings.Join(parts, " · "))
}
