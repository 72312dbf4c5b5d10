package sendcmder

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/radiant/pkg/backendtest"
	"github.com/papercomputeco/radiant/widget"
)

var _ = Describe("Send Command", func() {
	var (
		tmpDir     string
		configPath string
		stdout     *bytes.Buffer
		stderr     *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "radiant-send-test-*")
		Expect(err).NotTo(HaveOccurred())

		// An empty config keeps the user's own file out of the test
		configPath = filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(configPath, nil, 0o600)).To(Succeed())

		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	startServer := func(reply string) (string, *backendtest.Backend, func()) {
		backend := backendtest.New(reply)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		go func() {
			_ = backend.RunWithListener(listener)
		}()

		addr := "http://" + listener.Addr().String()
		cleanup := func() {
			backend.Shutdown()
		}
		return addr, backend, cleanup
	}

	execute := func(args ...string) error {
		cmd := NewSendCmd("test")
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs(append([]string{"--config", configPath}, args...))
		return cmd.Execute()
	}

	It("prints the message and the reply", func() {
		addr, backend, cleanup := startServer("Hi there")
		defer cleanup()

		Expect(execute("--server", addr, "Hello")).To(Succeed())

		Expect(stdout.String()).To(Equal("You: Hello\nRadiant: Hi there\n"))

		chats := backend.Chats()
		Expect(chats).To(HaveLen(1))
		Expect(chats[0].Request.Message).To(Equal("Hello"))
		Expect(chats[0].Request.Image).To(BeNil())
		Expect(chats[0].UserAgent).To(Equal("radiant/test"))
		Expect(chats[0].RequestID).NotTo(BeEmpty())
	})

	It("prints whatever the server currently answers", func() {
		addr, backend, cleanup := startServer("first answer")
		defer cleanup()

		Expect(execute("--server", addr, "one")).To(Succeed())

		backend.SetReply("second answer")
		Expect(execute("--server", addr, "two")).To(Succeed())

		Expect(stdout.String()).To(Equal(
			"You: one\nRadiant: first answer\nYou: two\nRadiant: second answer\n"))
		Expect(backend.Chats()).To(HaveLen(2))
	})

	It("joins multiple arguments into one message", func() {
		addr, backend, cleanup := startServer("ok")
		defer cleanup()

		Expect(execute("--server", addr, "is", "this", "normal?")).To(Succeed())

		Expect(backend.Chats()[0].Request.Message).To(Equal("is this normal?"))
	})

	It("sends an attached image as a data URI", func() {
		addr, backend, cleanup := startServer("an x-ray")
		defer cleanup()

		imagePath := filepath.Join(tmpDir, "scan.png")
		png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
		Expect(os.WriteFile(imagePath, png, 0o600)).To(Succeed())

		Expect(execute("--server", addr, "--image", imagePath)).To(Succeed())

		Expect(stdout.String()).To(HavePrefix("You: [image] " + widget.DefaultImageLabel + "\n"))

		chats := backend.Chats()
		Expect(chats).To(HaveLen(1))
		Expect(chats[0].Request.Message).To(BeEmpty())
		Expect(chats[0].Request.Image).NotTo(BeNil())
		Expect(*chats[0].Request.Image).To(HavePrefix("data:image/png;base64,"))
	})

	It("prints the apology and fails when the server errors", func() {
		addr, backend, cleanup := startServer("unused")
		defer cleanup()
		backend.FailChat(500, "boom")

		err := execute("--server", addr, "Hello")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("chat request failed"))

		Expect(stdout.String()).To(ContainSubstring("Radiant: " + widget.DefaultApology))
	})

	It("uses the assistant name from the config file", func() {
		addr, _, cleanup := startServer("Hi there")
		defer cleanup()

		Expect(os.WriteFile(configPath, []byte("assistant_name = \"Sidra\"\n"), 0o600)).To(Succeed())

		Expect(execute("--server", addr, "Hello")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Sidra: Hi there"))
	})

	It("rejects an empty send", func() {
		err := execute("   ")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("nothing to send"))
	})

	It("fails on a missing image without calling the server", func() {
		addr, backend, cleanup := startServer("unused")
		defer cleanup()

		err := execute("--server", addr, "--image", filepath.Join(tmpDir, "missing.png"), "Hello")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("could not attach image"))
		Expect(backend.Chats()).To(BeEmpty())
	})

	It("rejects an invalid server URL", func() {
		err := execute("--server", "localhost:5000", "Hello")
		Expect(err).To(HaveOccurred())
		Expect(strings.ToLower(err.Error())).To(ContainSubstring("invalid configuration"))
	})
})
