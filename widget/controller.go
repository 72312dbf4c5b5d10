// Package widget implements the chat widget controller: the send, attach and
// clear-history flows over a View and a chat Backend.
//
// The controller runs on a single cooperative event loop. Every handler mutates
// state synchronously and returns at most one tea.Cmd for its asynchronous step;
// the command's message re-enters through Update, so state is never touched off
// the loop.
package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/papercomputeco/radiant/pkg/chatapi"
	"github.com/papercomputeco/radiant/pkg/image"
)

const (
	DefaultAssistantName = "Radiant"
	DefaultApology       = "Sorry, Ya Sidra! Connection lost, please inform Mohammad."
	DefaultImageLabel    = "Image Analysis Request"
	DefaultTimeout       = 2 * time.Minute
)

// Backend is the chat server as seen by the controller.
type Backend interface {
	Chat(ctx context.Context, req *chatapi.ChatRequest) (string, error)
	Clear(ctx context.Context) error
}

// ImageLoader reads a file into a pending image.
type ImageLoader func(path string) (*image.Pending, error)

// ClearState is the state of the clear-history flow.
type ClearState int

const (
	ClearIdle ClearState = iota
	ClearConfirmPending
)

func (s ClearState) String() string {
	if s == ClearConfirmPending {
		return "confirm-pending"
	}
	return "idle"
}

// Options tune the user-visible strings and the request timeout.
type Options struct {
	AssistantName string
	Apology       string
	ImageLabel    string

	// Timeout bounds a single backend request. Zero disables it.
	Timeout time.Duration

	// LoadImage overrides image.Load, mostly for tests.
	LoadImage ImageLoader
}

func (o Options) withDefaults() Options {
	if o.AssistantName == "" {
		o.AssistantName = DefaultAssistantName
	}
	if o.Apology == "" {
		o.Apology = DefaultApology
	}
	if o.ImageLabel == "" {
		o.ImageLabel = DefaultImageLabel
	}
	if o.LoadImage == nil {
		o.LoadImage = image.Load
	}
	return o
}

// Controller owns the widget state and binds user events to backend calls.
type Controller struct {
	view    View
	backend Backend
	logger  *zap.Logger
	opts    Options

	pending    *image.Pending
	clearState ClearState
	inFlight   bool

	// session is bumped on every reload so late replies for a discarded log
	// are dropped
	session int
}

// New creates a Controller driving view.
func New(view View, backend Backend, logger *zap.Logger, opts Options) *Controller {
	return &Controller{
		view:    view,
		backend: backend,
		logger:  logger,
		opts:    opts.withDefaults(),
	}
}

// PendingImage returns the image staged for the next send, or nil.
func (c *Controller) PendingImage() *image.Pending {
	return c.pending
}

// ClearState returns the current state of the clear-history flow.
func (c *Controller) ClearState() ClearState {
	return c.clearState
}

// InFlight reports whether a send is waiting for its reply.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// AssistantName is the name the assistant is shown under.
func (c *Controller) AssistantName() string {
	return c.opts.AssistantName
}

// Placeholder is the text shown while waiting for a reply.
func (c *Controller) Placeholder() string {
	return fmt.Sprintf("%s is thinking...", c.opts.AssistantName)
}

// Attach starts reading path into the pending image. The preview is shown
// once the read completes.
func (c *Controller) Attach(path string) tea.Cmd {
	if path == "" {
		return nil
	}

	load := c.opts.LoadImage
	session := c.session
	return func() tea.Msg {
		img, err := load(path)
		if err != nil {
			return ImageFailedMsg{Path: path, Err: err}
		}
		return ImageLoadedMsg{Image: img, session: session}
	}
}

// Detach drops the pending image and hides the preview.
func (c *Controller) Detach() {
	c.pending = nil
	c.view.HidePreview()
}

// Send submits input together with the pending image.
func (c *Controller) Send(input string) tea.Cmd {
	text := strings.TrimSpace(input)
	if text == "" && c.pending == nil {
		return nil
	}

	if c.inFlight {
		c.logger.Debug("send ignored while a reply is outstanding")
		return nil
	}

	userTurn := Turn{Role: RoleUser, Text: Escape(text)}
	if c.pending != nil {
		userTurn.HasImage = true
		if userTurn.Text == "" {
			userTurn.Text = c.opts.ImageLabel
		}
	}
	c.view.AppendTurn(userTurn)

	c.view.ClearInput()
	c.view.HidePreview()

	id := c.view.AppendTurn(Turn{
		Role:        RoleAssistant,
		Text:        c.Placeholder(),
		Placeholder: true,
	})
	c.view.ScrollToBottom()

	req := &chatapi.ChatRequest{Message: text}
	if c.pending != nil {
		dataURI := c.pending.DataURI
		req.Image = &dataURI
	}

	c.inFlight = true
	c.view.SetBusy(true)

	c.logger.Debug("sending message",
		zap.Int("message_size", len(text)),
		zap.Bool("has_image", req.Image != nil),
	)

	backend, timeout, session, sent := c.backend, c.opts.Timeout, c.session, c.pending
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		reply, err := backend.Chat(ctx, req)
		return ReplyMsg{Turn: id, Text: reply, Err: err, session: session, sent: sent}
	}
}

// RequestClear opens the confirmation dialog.
func (c *Controller) RequestClear() {
	if c.clearState == ClearConfirmPending {
		return
	}
	c.clearState = ClearConfirmPending
	c.view.ShowDialog()
}

// CancelClear closes the confirmation dialog without clearing. Used for the
// cancel control and for clicks outside the dialog.
func (c *Controller) CancelClear() {
	if c.clearState != ClearConfirmPending {
		return
	}
	c.clearState = ClearIdle
	c.view.HideDialog()
}

// ConfirmClear closes the dialog and asks the backend to clear its history.
func (c *Controller) ConfirmClear() tea.Cmd {
	if c.clearState != ClearConfirmPending {
		return nil
	}
	c.clearState = ClearIdle
	c.view.HideDialog()

	backend, timeout, session := c.backend, c.opts.Timeout, c.session
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		return ClearedMsg{Err: backend.Clear(ctx), session: session}
	}
}

// Update applies the result of an asynchronous step. Messages the controller
// does not own are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ImageLoadedMsg:
		if msg.session != c.session {
			return nil
		}
		c.pending = msg.Image
		c.view.ShowPreview(msg.Image)
		c.logger.Debug("image attached",
			zap.String("name", msg.Image.Name),
			zap.String("mime_type", msg.Image.MIMEType),
			zap.Int("size", msg.Image.Size),
		)

	case ImageFailedMsg:
		c.logger.Error("could not attach image", zap.String("path", msg.Path), zap.Error(msg.Err))

	case ReplyMsg:
		if msg.session != c.session {
			c.logger.Debug("dropping reply for a reloaded session")
			return nil
		}
		c.finishSend(msg)

	case ClearedMsg:
		if msg.session != c.session {
			return nil
		}
		if msg.Err != nil {
			c.logger.Error("could not clear chat history", zap.Error(msg.Err))
			return nil
		}
		c.logger.Info("chat history cleared")
		c.reload()
	}

	return nil
}

func (c *Controller) finishSend(msg ReplyMsg) {
	if msg.Err != nil {
		c.logger.Error("chat request failed", zap.Error(msg.Err))
		c.view.SetTurnText(msg.Turn, Escape(c.opts.Apology))
	} else {
		c.view.SetTurnText(msg.Turn, Escape(msg.Text))
	}

	// An image attached while waiting was never sent; drop it with its preview
	if c.pending != nil && c.pending != msg.sent {
		c.logger.Debug("discarding image attached during send", zap.String("name", c.pending.Name))
		c.view.HidePreview()
	}

	c.pending = nil
	c.inFlight = false
	c.view.SetBusy(false)
	c.view.ScrollToBottom()
}

// reload resets every piece of client state, the way a page reload would.
func (c *Controller) reload() {
	c.pending = nil
	c.inFlight = false
	c.clearState = ClearIdle
	c.session++
	c.view.Reload()
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
