package chatcmder

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/radiant/cmd/radiant/cliconfig"
	"github.com/papercomputeco/radiant/pkg/config"
	"github.com/papercomputeco/radiant/pkg/logger"
	"github.com/papercomputeco/radiant/ui"
)

const chatLongDesc string = `Open the interactive chat widget.

Type a message and press Enter to send it. Ctrl+O attaches an image,
Ctrl+X removes it and Ctrl+N starts a new chat after confirmation.
Logs go to a file so they never draw over the widget.

Examples:
  radiant
  radiant chat --server http://192.168.1.42:5000
  radiant chat --debug --log-file /tmp/radiant.log`

const chatShortDesc string = "Open the interactive chat widget"

var errNoTerminal = errors.New("the chat widget needs an interactive terminal, use \"radiant send\" instead")

type chatCommander struct {
	flags   cliconfig.Flags
	version string

	isTerminal func() bool
}

func NewChatCmd(version string) *cobra.Command {
	cmder := &chatCommander{version: version, isTerminal: stdioIsTerminal}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmder.flags.Register(cmd)

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	if !c.isTerminal() {
		return errNoTerminal
	}

	cfg, err := c.flags.Resolve(cmd)
	if err != nil {
		return err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	log, closeLog, err := logger.NewFileLogger(cfg.Debug, logPath)
	if err != nil {
		return fmt.Errorf("could not open log file %s: %w", logPath, err)
	}
	defer closeLog()
	defer log.Sync()

	log.Info("radiant chat starting",
		zap.String("server", cfg.ServerURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("version", c.version),
	)

	model := ui.NewModel(cliconfig.NewClient(cfg, c.version, log), log, ui.Options{
		Widget:   cliconfig.WidgetOptions(cfg),
		Markdown: cfg.Markdown,
		Version:  c.version,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("could not run chat widget: %w", err)
	}

	return nil
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
