package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := !m.ready
		m.resize(msg.Width, msg.Height)
		if first {
			m.viewport.GotoBottom()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy && !m.hasPlaceholder() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshContent()
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}

	// Results of the controller's async steps, and the picker's directory reads
	var cmds []tea.Cmd
	if m.picker.Active {
		path, cmd := m.picker.Update(msg)
		cmds = append(cmds, cmd, m.ctrl.Attach(path))
	}
	cmds = append(cmds, m.ctrl.Update(msg))

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return tea.Quit
	}

	if m.picker.Active {
		if msg.String() == "esc" {
			m.picker.Close()
			return nil
		}
		path, cmd := m.picker.Update(msg)
		return tea.Batch(cmd, m.ctrl.Attach(path))
	}

	if m.dialogOn {
		switch {
		case key.Matches(msg, keys.Confirm):
			return m.ctrl.ConfirmClear()
		case key.Matches(msg, keys.Cancel):
			m.ctrl.CancelClear()
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Send):
		cmd := m.ctrl.Send(m.textarea.Value())
		if cmd == nil {
			return nil
		}
		m.status = ""
		return tea.Batch(cmd, m.spinner.Tick)

	case key.Matches(msg, keys.Attach):
		return m.picker.Open()

	case key.Matches(msg, keys.Detach):
		m.ctrl.Detach()
		return nil

	case key.Matches(msg, keys.NewChat):
		m.ctrl.RequestClear()
		return nil

	case key.Matches(msg, keys.CopyReply):
		m.copyLastReply()
		return nil

	case key.Matches(msg, keys.ScrollUp, keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.dialogOn {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			!dialogBounds(m.width, m.height).contains(msg.X, msg.Y) {
			m.ctrl.CancelClear()
		}
		return nil
	}

	if m.picker.Active {
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) copyLastReply() {
	reply, ok := m.lastReply()
	if !ok {
		m.status = "Nothing to copy yet"
		return
	}

	if err := m.opts.CopyText(reply); err != nil {
		m.logger.Error("could not copy reply", zap.Error(err))
		m.status = "Could not copy reply"
		return
	}
	m.status = "Copied reply to clipboard"
}
