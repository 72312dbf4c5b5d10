package widget_test

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/radiant/pkg/image"
	"github.com/papercomputeco/radiant/widget"
)

const testImage = "data:image/png;base64,dGVzdA=="

var _ = Describe("Controller", func() {
	var (
		view    *fakeView
		backend *fakeBackend
		ctrl    *widget.Controller
	)

	BeforeEach(func() {
		view = &fakeView{}
		backend = &fakeBackend{reply: "Hi there"}
		ctrl = widget.New(view, backend, zap.NewNop(), widget.Options{
			Timeout:   time.Minute,
			LoadImage: stubLoader(testImage),
		})
	})

	attach := func() {
		widget.Drain(ctrl, ctrl.Attach("scan.png"))
	}

	Describe("Send", func() {
		It("is a no-op with empty text and no image", func() {
			cmd := ctrl.Send("   \n\t ")

			Expect(cmd).To(BeNil())
			Expect(view.calls).To(BeEmpty())
			Expect(backend.chats).To(BeEmpty())
		})

		It("renders the user turn and a placeholder before the request completes", func() {
			cmd := ctrl.Send("  Hello ")
			Expect(cmd).NotTo(BeNil())

			Expect(view.turns).To(HaveLen(2))
			Expect(view.turns[0]).To(Equal(widget.Turn{Role: widget.RoleUser, Text: "Hello"}))
			Expect(view.turns[1].Role).To(Equal(widget.RoleAssistant))
			Expect(view.turns[1].Text).To(Equal("Radiant is thinking..."))
			Expect(view.turns[1].Placeholder).To(BeTrue())
			Expect(view.inputClears).To(Equal(1))
			Expect(view.calls).To(Equal([]string{
				"append", "clear-input", "hide-preview", "append", "scroll", "busy",
			}))
			Expect(backend.chats).To(BeEmpty())
		})

		It("replaces the placeholder with the reply", func() {
			widget.Drain(ctrl, ctrl.Send("Hello"))

			Expect(backend.chats).To(HaveLen(1))
			Expect(backend.chats[0].Message).To(Equal("Hello"))
			Expect(backend.chats[0].Image).To(BeNil())
			Expect(backend.deadline).To(BeTrue())

			Expect(view.turns).To(HaveLen(2))
			Expect(view.turns[0].Text).To(Equal("Hello"))
			Expect(view.turns[1].Text).To(Equal("Hi there"))
			Expect(view.turns[1].Placeholder).To(BeFalse())
			Expect(view.busy).To(BeFalse())
			Expect(view.scrolls).To(Equal(2))
		})

		It("labels an image-only send", func() {
			attach()
			widget.Drain(ctrl, ctrl.Send(""))

			Expect(view.turns[0].HasImage).To(BeTrue())
			Expect(view.turns[0].Text).To(ContainSubstring("Image Analysis Request"))

			Expect(backend.chats).To(HaveLen(1))
			Expect(backend.chats[0].Message).To(BeEmpty())
			Expect(backend.chats[0].Image).NotTo(BeNil())
			Expect(*backend.chats[0].Image).To(Equal(testImage))
		})

		It("keeps the typed text when an image is attached", func() {
			attach()
			widget.Drain(ctrl, ctrl.Send("what is this?"))

			Expect(view.turns[0]).To(Equal(widget.Turn{
				Role:     widget.RoleUser,
				Text:     "what is this?",
				HasImage: true,
			}))
		})

		It("hides the preview as soon as the message is sent", func() {
			attach()
			Expect(view.previewOn).To(BeTrue())

			cmd := ctrl.Send("look")
			Expect(view.previewOn).To(BeFalse())
			Expect(ctrl.PendingImage()).NotTo(BeNil())

			widget.Drain(ctrl, cmd)
			Expect(ctrl.PendingImage()).To(BeNil())
		})

		It("hides an image attached while waiting once the reply arrives", func() {
			first := ctrl.Send("first")

			attach()
			Expect(view.previewOn).To(BeTrue())
			Expect(ctrl.PendingImage()).NotTo(BeNil())

			widget.Drain(ctrl, first)
			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(view.previewOn).To(BeFalse())

			widget.Drain(ctrl, ctrl.Send("second"))
			Expect(backend.chats).To(HaveLen(2))
			Expect(backend.chats[1].Image).To(BeNil())
		})

		It("keeps a sent image's preview hidden without hiding it twice", func() {
			attach()
			cmd := ctrl.Send("look")
			view.calls = nil

			widget.Drain(ctrl, cmd)
			Expect(view.calls).NotTo(ContainElement("hide-preview"))
		})

		It("shows the apology and clears the image on failure", func() {
			backend.chatErr = errConnection
			attach()

			widget.Drain(ctrl, ctrl.Send("Hello"))

			Expect(view.turns[1].Text).To(Equal(widget.DefaultApology))
			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(ctrl.InFlight()).To(BeFalse())
			Expect(view.busy).To(BeFalse())
		})

		It("uses a configured apology and assistant name", func() {
			ctrl = widget.New(view, backend, zap.NewNop(), widget.Options{
				AssistantName: "Nova",
				Apology:       "Something broke.",
			})
			backend.chatErr = errConnection

			cmd := ctrl.Send("Hello")
			Expect(view.turns[1].Text).To(Equal("Nova is thinking..."))

			widget.Drain(ctrl, cmd)
			Expect(view.turns[1].Text).To(Equal("Something broke."))
		})

		It("ignores a second send while one is in flight", func() {
			first := ctrl.Send("one")
			Expect(ctrl.InFlight()).To(BeTrue())
			Expect(view.busy).To(BeTrue())

			second := ctrl.Send("two")
			Expect(second).To(BeNil())
			Expect(view.turns).To(HaveLen(2))

			widget.Drain(ctrl, first)
			Expect(backend.chats).To(HaveLen(1))

			widget.Drain(ctrl, ctrl.Send("three"))
			Expect(backend.chats).To(HaveLen(2))
			Expect(view.turns).To(HaveLen(4))
		})

		It("escapes terminal sequences in user text and replies", func() {
			backend.reply = "\x1b[2J\x1b[31mred\x1b[0m\x07"

			widget.Drain(ctrl, ctrl.Send("hi \x1b]0;pwned\x07there"))

			Expect(view.turns[0].Text).To(Equal("hi there"))
			Expect(view.turns[1].Text).To(Equal("red"))
		})

		It("sends the unescaped trimmed text to the backend", func() {
			widget.Drain(ctrl, ctrl.Send("  <b>bold</b>  "))

			Expect(backend.chats[0].Message).To(Equal("<b>bold</b>"))
			Expect(view.turns[0].Text).To(Equal("<b>bold</b>"))
		})
	})

	Describe("Attach and Detach", func() {
		It("stores the image and shows a preview once loaded", func() {
			cmd := ctrl.Attach("scan.png")
			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(view.previewOn).To(BeFalse())

			widget.Drain(ctrl, cmd)

			Expect(ctrl.PendingImage()).NotTo(BeNil())
			Expect(ctrl.PendingImage().DataURI).To(Equal(testImage))
			Expect(view.previewOn).To(BeTrue())
			Expect(view.preview.Name).To(Equal("scan.png"))
		})

		It("returns no command for an empty path", func() {
			Expect(ctrl.Attach("")).To(BeNil())
		})

		It("leaves state unchanged when the file cannot be read", func() {
			ctrl = widget.New(view, backend, zap.NewNop(), widget.Options{
				LoadImage: func(string) (*image.Pending, error) {
					return nil, errors.New("permission denied")
				},
			})

			widget.Drain(ctrl, ctrl.Attach("secret.png"))

			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(view.calls).To(BeEmpty())
		})

		It("attach then detach leaves nothing pending", func() {
			attach()
			ctrl.Detach()

			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(view.previewOn).To(BeFalse())
		})

		It("detach is idempotent", func() {
			ctrl.Detach()
			ctrl.Detach()

			Expect(ctrl.PendingImage()).To(BeNil())
			Expect(view.previewOn).To(BeFalse())
		})

		It("loads images with image.Load by default", func() {
			ctrl = widget.New(view, backend, zap.NewNop(), widget.Options{})

			widget.Drain(ctrl, ctrl.Attach("/definitely/not/here.png"))
			Expect(ctrl.PendingImage()).To(BeNil())
		})
	})

	Describe("Clear history", func() {
		It("shows the dialog on new chat", func() {
			ctrl.RequestClear()

			Expect(view.dialogOn).To(BeTrue())
			Expect(ctrl.ClearState()).To(Equal(widget.ClearConfirmPending))
		})

		It("hides the dialog on cancel without a request", func() {
			ctrl.RequestClear()
			ctrl.CancelClear()

			Expect(view.dialogOn).To(BeFalse())
			Expect(ctrl.ClearState()).To(Equal(widget.ClearIdle))
			Expect(backend.clears).To(BeZero())
		})

		It("reloads exactly once after a successful clear", func() {
			widget.Drain(ctrl, ctrl.Send("Hello"))

			ctrl.RequestClear()
			cmd := ctrl.ConfirmClear()
			Expect(view.dialogOn).To(BeFalse())
			Expect(backend.clears).To(BeZero())

			widget.Drain(ctrl, cmd)

			Expect(backend.clears).To(Equal(1))
			Expect(view.reloads).To(Equal(1))
			Expect(view.turns).To(BeEmpty())
		})

		It("leaves the log alone when the clear fails", func() {
			backend.clearErr = errConnection
			widget.Drain(ctrl, ctrl.Send("Hello"))
			before := append([]widget.Turn(nil), view.turns...)

			ctrl.RequestClear()
			widget.Drain(ctrl, ctrl.ConfirmClear())

			Expect(view.dialogOn).To(BeFalse())
			Expect(backend.clears).To(Equal(1))
			Expect(view.reloads).To(BeZero())
			Expect(view.turns).To(Equal(before))
			Expect(ctrl.ClearState()).To(Equal(widget.ClearIdle))
		})

		It("ignores confirm and cancel while idle", func() {
			Expect(ctrl.ConfirmClear()).To(BeNil())
			ctrl.CancelClear()

			Expect(view.calls).To(BeEmpty())
			Expect(backend.clears).To(BeZero())
		})

		It("resets the pending image on reload", func() {
			attach()
			ctrl.RequestClear()
			widget.Drain(ctrl, ctrl.ConfirmClear())

			Expect(ctrl.PendingImage()).To(BeNil())
		})

		It("drops a reply that arrives after a reload", func() {
			send := ctrl.Send("Hello")

			ctrl.RequestClear()
			widget.Drain(ctrl, ctrl.ConfirmClear())
			Expect(ctrl.InFlight()).To(BeFalse())

			// The placeholder belonged to the discarded log
			Expect(ctrl.Update(send())).To(BeNil())
			Expect(view.turns).To(BeEmpty())
			Expect(view.calls).NotTo(ContainElement("set"))
		})

		It("reloads only once when two clears are confirmed back to back", func() {
			ctrl.RequestClear()
			first := ctrl.ConfirmClear()
			ctrl.RequestClear()
			second := ctrl.ConfirmClear()

			widget.Drain(ctrl, first)
			widget.Drain(ctrl, second)

			Expect(backend.clears).To(Equal(2))
			Expect(view.reloads).To(Equal(1))
		})
	})

	Describe("Update", func() {
		It("ignores foreign messages", func() {
			Expect(ctrl.Update(tea.KeyMsg{Type: tea.KeyEnter})).To(BeNil())
			Expect(view.calls).To(BeEmpty())
		})
	})
})

var _ = Describe("Escape", func() {
	It("keeps newlines and tabs", func() {
		Expect(widget.Escape("a\n\tb")).To(Equal("a\n\tb"))
	})

	It("normalizes CRLF and drops stray carriage returns", func() {
		Expect(widget.Escape("a\r\nb\rc")).To(Equal("a\nbc"))
	})

	It("strips CSI and OSC sequences", func() {
		Expect(widget.Escape("\x1b[1mbold\x1b[0m \x1b]8;;http://x\x1b\\link\x1b]8;;\x1b\\")).To(Equal("bold link"))
	})

	It("leaves plain unicode alone", func() {
		Expect(widget.Escape("مرحبا naïve 日本")).To(Equal("مرحبا naïve 日本"))
	})
})
