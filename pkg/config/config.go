// Package config loads radiant settings from defaults, a TOML file and the
// environment, in that order of precedence (lowest first). Command line flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	DefaultServerURL = "http://localhost:5000"
	DefaultTimeout   = 2 * time.Minute

	appDir = "radiant"
)

// Config holds every tunable of the client.
type Config struct {
	// ServerURL is the base URL of the chat backend
	ServerURL string `toml:"server_url" env:"RADIANT_SERVER_URL"`

	// Timeout bounds each backend request (e.g., "90s")
	Timeout time.Duration `toml:"timeout" env:"RADIANT_TIMEOUT"`

	AssistantName string `toml:"assistant_name" env:"RADIANT_ASSISTANT_NAME"`
	Apology       string `toml:"apology" env:"RADIANT_APOLOGY"`
	ImageLabel    string `toml:"image_label" env:"RADIANT_IMAGE_LABEL"`

	// Markdown renders replies with glamour in the interactive widget
	Markdown bool `toml:"markdown" env:"RADIANT_MARKDOWN"`

	Debug   bool   `toml:"debug" env:"RADIANT_DEBUG"`
	LogFile string `toml:"log_file" env:"RADIANT_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL: DefaultServerURL,
		Timeout:   DefaultTimeout,
		Markdown:  true,
	}
}

// Load reads the TOML file at path over the defaults, then applies RADIANT_*
// environment variables. An empty path means DefaultPath, which may be absent.
// A path given explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		err := decodeFile(path, cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// No config file is fine
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("could not read config: %w", err)
		default:
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("could not parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server_url %q: must be an absolute http(s) URL", c.ServerURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}

	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/radiant/config.toml, or empty when no
// config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, "config.toml")
}

// DefaultLogPath is $XDG_STATE_HOME/radiant/radiant.log, falling back to
// ~/.local/state and then the temp dir.
func DefaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir, "radiant.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", appDir, "radiant.log")
	}
	return filepath.Join(os.TempDir(), appDir, "radiant.log")
}
