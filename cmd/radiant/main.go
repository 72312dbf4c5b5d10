package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/radiant/cmd/radiant/chat"
	clearcmder "github.com/papercomputeco/radiant/cmd/radiant/clear"
	sendcmder "github.com/papercomputeco/radiant/cmd/radiant/send"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

func newRootCmd() *cobra.Command {
	// Bare "radiant" opens the widget
	root := chatcmder.NewChatCmd(version)
	root.Use = "radiant"
	root.Version = version
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(
		chatcmder.NewChatCmd(version),
		sendcmder.NewSendCmd(version),
		clearcmder.NewClearCmd(version),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
