package sendcmder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/radiant/cmd/radiant/cliconfig"
	"github.com/papercomputeco/radiant/cmd/radiant/lineview"
	"github.com/papercomputeco/radiant/pkg/image"
	"github.com/papercomputeco/radiant/pkg/logger"
	"github.com/papercomputeco/radiant/widget"
)

const sendLongDesc string = `Send one message to the chat server and print the reply.

The message and optional image go through the same controller as the
interactive widget, so a failed request prints the apology. The command
exits non-zero when the request failed.

Examples:
  radiant send "What does this report say?"
  radiant send --image scan.png
  radiant send --server http://192.168.1.42:5000 --image scan.png "Is this normal?"`

const sendShortDesc string = "Send one message and print the reply"

type sendCommander struct {
	flags     cliconfig.Flags
	imagePath string
	version   string
}

func NewSendCmd(version string) *cobra.Command {
	cmder := &sendCommander{version: version}

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: sendShortDesc,
		Long:  sendLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	cmder.flags.Register(cmd)
	cmd.Flags().StringVarP(&cmder.imagePath, "image", "i", "", "Image file to attach")

	return cmd
}

func (c *sendCommander) run(cmd *cobra.Command, message string) error {
	if strings.TrimSpace(message) == "" && c.imagePath == "" {
		return errors.New("nothing to send: pass a message or --image")
	}

	cfg, err := c.flags.Resolve(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug, cmd.ErrOrStderr())
	defer log.Sync()

	backend := &lineview.Recorder{Backend: cliconfig.NewClient(cfg, c.version, log)}
	view := lineview.New(cmd.OutOrStdout(), cliconfig.AssistantName(cfg))

	var attachErr error
	opts := cliconfig.WidgetOptions(cfg)
	opts.LoadImage = func(path string) (*image.Pending, error) {
		img, err := image.Load(path)
		attachErr = err
		return img, err
	}

	ctrl := widget.New(view, backend, log, opts)

	if c.imagePath != "" {
		widget.Drain(ctrl, ctrl.Attach(c.imagePath))
		if attachErr != nil {
			return fmt.Errorf("could not attach image: %w", attachErr)
		}
	}

	widget.Drain(ctrl, ctrl.Send(message))
	if backend.ChatErr != nil {
		return fmt.Errorf("chat request failed: %w", backend.ChatErr)
	}

	return nil
}
