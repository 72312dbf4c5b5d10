package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/papercomputeco/radiant/widget"
)

// Title, separator, textarea (3 lines), status bar
const chromeHeight = 6

func glamourStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.picker.Active {
		return renderFilePicker(m.picker, m.width, m.height)
	}

	if m.dialogOn {
		return RenderConfirmationModal(m.width, m.height)
	}

	sections := []string{
		m.renderTitle(),
		m.viewport.View(),
		DimStyle.Render(strings.Repeat("─", max(m.width, 1))),
	}
	if m.preview != nil {
		sections = append(sections, m.renderPreview())
	}
	sections = append(sections, m.textarea.View(), m.renderStatus())

	return strings.Join(sections, "\n")
}

func (m *Model) renderTitle() string {
	title := TitleStyle.Render(m.ctrl.AssistantName())
	if m.opts.Version != "" {
		title += DimStyle.Render(" " + m.opts.Version)
	}
	return title
}

func (m *Model) renderPreview() string {
	p := m.preview
	line := fmt.Sprintf("[image] %s (%s, %s)", widget.Escape(p.Name), p.MIMEType, formatSize(p.Size))
	return PreviewStyle.Render(line) + "  " + footerFor(keys.Detach)
}

func (m *Model) renderStatus() string {
	var left string
	switch {
	case m.busy:
		left = m.spinner.View() + " waiting for reply"
	case m.status != "":
		left = m.status
	}

	right := footerFor(keys.Send, keys.Attach, keys.NewChat, keys.CopyReply, keys.Quit)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return StatusStyle.Render(left)
	}
	return StatusStyle.Render(left) + strings.Repeat(" ", gap) + right
}

// layout sizes the components for the current window.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}

	h := m.height - chromeHeight
	if m.preview != nil {
		h--
	}
	if h < 1 {
		h = 1
	}

	m.viewport.Width = m.width
	m.viewport.Height = h
	m.textarea.SetWidth(m.width)
	m.refreshContent()
}

// refreshContent re-renders the chat log into the viewport.
func (m *Model) refreshContent() {
	if !m.ready {
		return
	}

	if len(m.turns) == 0 {
		m.viewport.SetContent(DimStyle.Render(m.welcome()))
		return
	}

	blocks := make([]string, 0, len(m.turns))
	for i := range m.turns {
		blocks = append(blocks, m.renderTurn(&m.turns[i]))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (m *Model) welcome() string {
	return "Type a message and press Enter. Ctrl+O attaches an image, Ctrl+N starts a new chat."
}

func (m *Model) renderTurn(t *renderedTurn) string {
	if t.Placeholder {
		// Keep the spinner live, never cache
		return AssistantStyle.Render(m.spinner.View()+" ") + DimStyle.Render(t.Text)
	}

	if t.rendered != "" {
		return t.rendered
	}

	wrap := lipgloss.NewStyle().Width(max(m.width-2, 10))

	switch t.Role {
	case widget.RoleUser:
		body := t.Text
		if t.HasImage {
			body = PreviewStyle.Render("[image]") + " " + body
		}
		t.rendered = UserStyle.Render("You") + "\n" + wrap.Render(body)
	default:
		t.rendered = AssistantStyle.Render(m.ctrl.AssistantName()) + "\n" + m.renderReply(t.Text, wrap)
	}

	return t.rendered
}

func (m *Model) renderReply(text string, wrap lipgloss.Style) string {
	if !m.opts.Markdown || m.renderer == nil {
		return wrap.Render(text)
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		m.logger.Warn("could not render markdown", zap.Error(err))
		return wrap.Render(text)
	}
	return strings.TrimRight(out, "\n")
}

// resize rebuilds width-dependent state after a WindowSizeMsg.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	if m.opts.Markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.styleName),
			glamour.WithWordWrap(max(width-4, 20)),
		)
		if err != nil {
			m.logger.Warn("could not create markdown renderer", zap.Error(err))
		}
		m.renderer = r
	}

	for i := range m.turns {
		m.turns[i].rendered = ""
	}
	m.layout()
}

func (m *Model) hasPlaceholder() bool {
	for _, t := range m.turns {
		if t.Placeholder {
			return true
		}
	}
	return false
}

// lastReply returns the newest finished assistant turn.
func (m *Model) lastReply() (string, bool) {
	for i := len(m.turns) - 1; i >= 0; i-- {
		t := m.turns[i]
		if t.Role == widget.RoleAssistant && !t.Placeholder {
			return t.Text, true
		}
	}
	return "", false
}

func formatSize(n int) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}
