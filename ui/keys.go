package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send        key.Binding
	Attach      key.Binding
	Detach      key.Binding
	NewChat     key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	CopyReply   key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Quit        key.Binding
	InsertBreak key.Binding
}

var keys = keyMap{
	Send:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	InsertBreak: key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "newline")),
	Attach:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "image")),
	Detach:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove image")),
	NewChat:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
	Confirm:     key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "Yes")),
	Cancel:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "No")),
	CopyReply:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy reply")),
	ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func footerFor(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key, h.Desc)
	}
	return FormatFooter(parts...)
}
