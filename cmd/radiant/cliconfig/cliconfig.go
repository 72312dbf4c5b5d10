// Package cliconfig binds the flags shared by every radiant command and
// resolves them over the loaded configuration.
package cliconfig

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/radiant/pkg/chatapi"
	"github.com/papercomputeco/radiant/pkg/config"
	"github.com/papercomputeco/radiant/widget"
)

// Flags are the command line overrides. Only flags the user actually set take
// precedence over the file and environment.
type Flags struct {
	ConfigPath string
	ServerURL  string
	Timeout    time.Duration
	Debug      bool
	LogFile    string
}

// Register adds the shared flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file (default: $XDG_CONFIG_HOME/radiant/config.toml)")
	cmd.Flags().StringVarP(&f.ServerURL, "server", "s", "", "Chat server base URL (default: "+config.DefaultServerURL+")")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "Per request timeout (default: "+config.DefaultTimeout.String()+")")
	cmd.Flags().BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "Log file for the interactive widget")
}

// Resolve loads the configuration and applies the flags set on cmd.
func (f *Flags) Resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = f.ServerURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.Timeout
	}
	if flags.Changed("debug") {
		cfg.Debug = f.Debug
	}
	if flags.Changed("log-file") {
		cfg.LogFile = f.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NewClient builds the API client for cfg.
func NewClient(cfg *config.Config, version string, logger *zap.Logger) *chatapi.Client {
	return chatapi.NewClient(chatapi.Config{
		BaseURL:   cfg.ServerURL,
		UserAgent: "radiant/" + version,
	}, logger)
}

// WidgetOptions maps cfg onto the controller options.
func WidgetOptions(cfg *config.Config) widget.Options {
	return widget.Options{
		AssistantName: cfg.AssistantName,
		Apology:       cfg.Apology,
		ImageLabel:    cfg.ImageLabel,
		Timeout:       cfg.Timeout,
	}
}

// AssistantName is the name replies are labelled with.
func AssistantName(cfg *config.Config) string {
	if cfg.AssistantName != "" {
		return cfg.AssistantName
	}
	return widget.DefaultAssistantName
}
