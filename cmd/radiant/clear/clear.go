package clearcmder

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/radiant/cmd/radiant/cliconfig"
	"github.com/papercomputeco/radiant/cmd/radiant/lineview"
	"github.com/papercomputeco/radiant/pkg/logger"
	"github.com/papercomputeco/radiant/widget"
)

const clearLongDesc string = `Clear the chat history on the server and start a new chat.

Asks for confirmation on stdin unless --yes is given.

Examples:
  radiant clear
  radiant clear --yes --server http://192.168.1.42:5000`

const clearShortDesc string = "Start a new chat by clearing the history"

type clearCommander struct {
	flags   cliconfig.Flags
	yes     bool
	version string
}

func NewClearCmd(version string) *cobra.Command {
	cmder := &clearCommander{version: version}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: clearShortDesc,
		Long:  clearLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmder.flags.Register(cmd)
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (c *clearCommander) run(cmd *cobra.Command) error {
	cfg, err := c.flags.Resolve(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug, cmd.ErrOrStderr())
	defer log.Sync()

	out := cmd.OutOrStdout()
	backend := &lineview.Recorder{Backend: cliconfig.NewClient(cfg, c.version, log)}
	view := lineview.New(out, cliconfig.AssistantName(cfg))
	ctrl := widget.New(view, backend, log, cliconfig.WidgetOptions(cfg))

	ctrl.RequestClear()

	if !c.yes {
		fmt.Fprint(out, "Start a new chat? This clears the whole chat history. [y/N] ")
		if !confirmed(cmd) {
			ctrl.CancelClear()
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	widget.Drain(ctrl, ctrl.ConfirmClear())
	if backend.ClearErr != nil {
		return fmt.Errorf("could not clear chat history: %w", backend.ClearErr)
	}

	fmt.Fprintln(out, "Chat history cleared.")
	return nil
}

func confirmed(cmd *cobra.Command) bool {
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
