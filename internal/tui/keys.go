package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Day    key.Binding
	Week   key.Binding
	Month  key.Binding
	Year   key.Binding
	Today  key.Binding
	Switch key.Binding
	Layout key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Day:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
		Week:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		Month:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Year:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch chart")),
		Layout: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "bar layout")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Switch, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Today},
		{k.Day, k.Week, k.Month, k.Year},
		{k.Switch, k.Layout, k.Reload},
		{k.Help, k.Quit},
	}
}
