package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start  key.Binding
	Finish key.Binding
	New    key.Binding
	Export key.Binding
	// Views holds one binding per view, indexed by viewState.
	Views []key.Binding
	Tab   key.Binding
	Help  key.Binding
	Enter key.Binding
	Back  key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start task"),
	),
	Finish: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "finish"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new project"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Views: viewBindings(),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "back to prompt"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Finish, k.New, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Finish, k.New, k.Export},
		append(slices.Clone(k.Views), k.Tab),
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}

// viewBindings maps the digits 1..n to the views in tab order.
func viewBindings() []key.Binding {
	bindings := make([]key.Binding, len(viewNames))
	for i, name := range viewNames {
		digit := strconv.Itoa(i + 1)
		bindings[i] = key.NewBinding(
			key.WithKeys(digit),
			key.WithHelp(digit, strings.ToLower(name)),
		)
	}
	return bindings
}
