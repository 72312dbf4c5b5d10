package widget

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/radiant/pkg/image"
)

// ImageLoadedMsg carries a finished attach.
type ImageLoadedMsg struct {
	Image   *image.Pending
	session int
}

// ImageFailedMsg reports an attach that could not read its file.
type ImageFailedMsg struct {
	Path string
	Err  error
}

// ReplyMsg carries the outcome of a send for the placeholder Turn.
type ReplyMsg struct {
	Turn    TurnID
	Text    string
	Err     error
	session int

	// sent is the image that went out with the request, if any
	sent *image.Pending
}

// ClearedMsg carries the outcome of a clear-history request.
type ClearedMsg struct {
	Err     error
	session int
}

// Drain runs cmd and every follow-up command inline, feeding each message back
// through c.Update. It is the event loop for callers without a tea.Program.
func Drain(c *Controller, cmd tea.Cmd) {
	for cmd != nil {
		cmd = c.Update(cmd())
	}
}
