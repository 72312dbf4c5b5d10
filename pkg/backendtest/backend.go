// Package backendtest provides an in-process fake of the radiant chat backend
// for tests. It records every request and answers with canned replies.
package backendtest

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/radiant/pkg/chatapi"
)

// RecordedChat is one /chat call as seen by the fake.
type RecordedChat struct {
	Request   chatapi.ChatRequest
	RequestID string
	UserAgent string
}

// Backend is a fake /chat and /clear server.
type Backend struct {
	app *fiber.App

	mu          sync.Mutex
	reply       string
	chatStatus  int
	chatBody    []byte
	clearStatus int
	chats       []RecordedChat
	clears      int
}

// New creates a Backend that answers every chat with reply.
func New(reply string) *Backend {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
	})

	b := &Backend{
		app:         app,
		reply:       reply,
		chatStatus:  fiber.StatusOK,
		clearStatus: fiber.StatusOK,
	}

	app.Post("/chat", b.handleChat)
	app.Post("/clear", b.handleClear)

	return b
}

// App returns the fiber app, for use with fiber.App.Test.
func (b *Backend) App() *fiber.App {
	return b.app
}

// HTTPHandler adapts the fiber app to net/http, for use with httptest.NewServer.
func (b *Backend) HTTPHandler() http.HandlerFunc {
	return adaptor.FiberApp(b.app)
}

// RunWithListener serves on ln until Shutdown is called.
func (b *Backend) RunWithListener(ln net.Listener) error {
	return b.app.Listener(ln)
}

// Shutdown stops a server started with RunWithListener.
func (b *Backend) Shutdown() error {
	return b.app.Shutdown()
}

// SetReply changes the reply returned by /chat.
func (b *Backend) SetReply(reply string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reply = reply
}

// FailChat makes /chat answer with status and a raw body.
func (b *Backend) FailChat(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatStatus = status
	b.chatBody = []byte(body)
}

// SetRawChatBody makes /chat answer 200 with body verbatim.
func (b *Backend) SetRawChatBody(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatStatus = fiber.StatusOK
	b.chatBody = []byte(body)
}

// FailClear makes /clear answer with status.
func (b *Backend) FailClear(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearStatus = status
}

// Chats returns a copy of the recorded /chat calls.
func (b *Backend) Chats() []RecordedChat {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedChat, len(b.chats))
	copy(out, b.chats)
	return out
}

// Clears returns how many times /clear was called.
func (b *Backend) Clears() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clears
}

func (b *Backend) handleChat(c *fiber.Ctx) error {
	var req chatapi.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.chats = append(b.chats, RecordedChat{
		Request:   req,
		RequestID: c.Get("X-Request-ID"),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	if b.chatBody != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(b.chatStatus).Send(b.chatBody)
	}

	return c.Status(b.chatStatus).JSON(fiber.Map{"response": b.reply})
}

func (b *Backend) handleClear(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clears++

	if b.clearStatus != fiber.StatusOK {
		return c.Status(b.clearStatus).JSON(fiber.Map{"status": "error"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Chat history cleared"})
}
