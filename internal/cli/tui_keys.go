package cli

import "github.com/charmbracelet/bubbles/key"

type widgetKeyMap struct {
	Start key.Binding
	Stop  key.Binding
	Quit  key.Binding
}

func defaultWidgetKeys() widgetKeyMap {
	return widgetKeyMap{
		Start: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start task")),
		Stop:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "stop")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k widgetKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Quit}
}

func (k widgetKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
