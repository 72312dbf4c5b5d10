// Package ui is the terminal surface of the chat widget. Model is a bubbletea
// program that renders the chat log and implements widget.View for the
// controller that drives it.
package ui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/papercomputeco/radiant/pkg/image"
	"github.com/papercomputeco/radiant/widget"
)

// Options configure the terminal view.
type Options struct {
	// Widget is passed through to the controller
	Widget widget.Options

	// Markdown renders assistant replies with glamour
	Markdown bool

	// StartDir is where the attachment picker opens. Empty means the working directory.
	StartDir string

	Version string

	// CopyText overrides the system clipboard, mostly for tests.
	CopyText func(string) error
}

type renderedTurn struct {
	widget.Turn
	rendered string // cached for the current width, empty when stale
}

// Model is the bubbletea model of the chat widget.
type Model struct {
	ctrl   *widget.Controller
	logger *zap.Logger
	opts   Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	picker   FilePickerState
	renderer *glamour.TermRenderer

	// Window state
	width  int
	height int
	ready  bool

	// Everything the controller has put on screen
	turns     []renderedTurn
	preview   *image.Pending
	dialogOn  bool
	busy      bool
	status    string
	styleName string
}

// NewModel builds the view and the controller bound to it.
func NewModel(backend widget.Backend, logger *zap.Logger, opts Options) *Model {
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = "Ask anything... (Ctrl+O attaches an image)"
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; Enter alone sends
	ta.KeyMap.InsertNewline = keys.InsertBreak

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	m := &Model{
		logger:    logger,
		opts:      opts,
		viewport:  viewport.New(0, 0),
		textarea:  ta,
		spinner:   sp,
		picker:    NewFilePickerState(opts.StartDir),
		styleName: glamourStyle(),
	}
	m.viewport.KeyMap = viewportKeys()
	m.ctrl = widget.New(m, backend, logger, opts.Widget)

	return m
}

// Controller exposes the controller bound to this view.
func (m *Model) Controller() *widget.Controller {
	return m.ctrl
}

func viewportKeys() viewport.KeyMap {
	km := viewport.DefaultKeyMap()
	km.PageUp = keys.ScrollUp
	km.PageDown = keys.ScrollDown
	// The textarea owns letters and arrows
	km.Up = key.NewBinding(key.WithDisabled())
	km.Down = key.NewBinding(key.WithDisabled())
	km.HalfPageUp = key.NewBinding(key.WithDisabled())
	km.HalfPageDown = key.NewBinding(key.WithDisabled())
	km.Left = key.NewBinding(key.WithDisabled())
	km.Right = key.NewBinding(key.WithDisabled())
	return km
}

// widget.View

func (m *Model) AppendTurn(turn widget.Turn) widget.TurnID {
	m.turns = append(m.turns, renderedTurn{Turn: turn})
	m.refreshContent()
	return widget.TurnID(len(m.turns) - 1)
}

func (m *Model) SetTurnText(id widget.TurnID, text string) {
	if int(id) < 0 || int(id) >= len(m.turns) {
		return
	}
	t := &m.turns[id]
	t.Text = text
	t.Placeholder = false
	t.rendered = ""
	m.refreshContent()
}

func (m *Model) ClearInput() {
	m.textarea.Reset()
}

func (m *Model) ShowPreview(img *image.Pending) {
	m.preview = img
	m.layout()
}

func (m *Model) HidePreview() {
	m.preview = nil
	m.layout()
}

func (m *Model) ShowDialog() {
	m.dialogOn = true
}

func (m *Model) HideDialog() {
	m.dialogOn = false
}

func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

func (m *Model) ScrollToBottom() {
	m.viewport.GotoBottom()
}

func (m *Model) Reload() {
	m.turns = nil
	m.preview = nil
	m.dialogOn = false
	m.busy = false
	m.picker.Close()
	m.textarea.Reset()
	m.status = "Started a new chat"
	m.layout()
	m.viewport.GotoTop()
}

var _ widget.View = (*Model)(nil)
