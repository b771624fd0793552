// Package config provides configuration loading from YAML files, macOS Keychain,
// and environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/phinze/pagedeck/internal/ui"
)

const (
	// KeychainService is the macOS Keychain service name for pagedeck secrets.
	KeychainService = "pagedeck"

	// EnvConfig overrides the config file path.
	EnvConfig = "PAGEDECK_CONFIG"
)

// Defaults applied before the file is read.
const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultBrightness   = 80
	DefaultFontName     = "basic"
	DefaultFontSize     = 12
)

// Config holds the full application configuration, assembled from YAML + Keychain + env.
type Config struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Brightness   int           `yaml:"brightness"`
	Display      DisplayConfig `yaml:"display,omitempty"`
	Font         FontConfig    `yaml:"font"`

	// Layout is nil when the file has none; the default layout is used then.
	Layout *LayoutConfig `yaml:"layout,omitempty"`

	// Commands maps command codes to what runs when they fire.
	Commands map[int]CommandConfig `yaml:"commands,omitempty"`

	// path is the file the config was read from.
	path string
}

// DisplayConfig sizes the emulator and simulator displays. Hardware reports
// its own size.
type DisplayConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	// Background is what frames are cleared to before painting. Black when
	// unset.
	Background ui.Color `yaml:"background,omitempty"`
}

// FontConfig selects the label font.
type FontConfig struct {
	Name string  `yaml:"name"`
	Size float64 `yaml:"size"`
}

// CommandConfig is the program run for one command code.
type CommandConfig struct {
	Run []string `yaml:"run"`

	// Secret names a Keychain account whose value is passed to the program
	// in PAGEDECK_SECRET.
	Secret      string `yaml:"secret,omitempty"`
	SecretValue string `yaml:"-"` // secret, not in YAML
}

// Default returns a config with every default applied and no layout.
func Default() *Config {
	return &Config{
		PollInterval: DefaultPollInterval,
		Brightness:   DefaultBrightness,
		Font:         FontConfig{Name: DefaultFontName, Size: DefaultFontSize},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pagedeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// DisplayRect returns the configured display size, or fallback when unset.
func (c *Config) DisplayRect(fallback image.Rectangle) image.Rectangle {
	if c.Display.Width > 0 && c.Display.Height > 0 {
		return image.Rect(0, 0, c.Display.Width, c.Display.Height)
	}
	return fallback
}

// LabelFont loads the configured label font.
func (c *Config) LabelFont() (ui.Font, error) {
	f, err := ui.LoadFont(c.Font.Name, c.Font.Size)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	return f, nil
}

// Load assembles configuration from YAML file + Keychain + environment variables.
// Environment variables always take precedence. An empty path means
// DefaultConfigPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg := Default()
	cfg.path = path

	// 1. Try to load YAML config file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Layer in Keychain secrets (ignore errors, Keychain may not be populated)
	for code, cmd := range cfg.Commands {
		if cmd.Secret == "" {
			continue
		}
		if v, err := keyring.Get(KeychainService, cmd.Secret); err == nil {
			cmd.SecretValue = v
			cfg.Commands[code] = cmd
		}
	}

	// 3. Environment variables override everything
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PAGEDECK_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PAGEDECK_POLL_INTERVAL: %w", err)
		}
		c.PollInterval = d
	}
	if v := os.Getenv("PAGEDECK_BRIGHTNESS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PAGEDECK_BRIGHTNESS: %w", err)
		}
		c.Brightness = n
	}
	if v := os.Getenv("PAGEDECK_FONT"); v != "" {
		c.Font.Name = v
	}
	if v := os.Getenv("PAGEDECK_FONT_SIZE"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PAGEDECK_FONT_SIZE: %w", err)
		}
		c.Font.Size = n
	}
	return nil
}

// Validate checks values the layout builder does not.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		return fmt.Errorf("brightness must be 0-100, got %d", c.Brightness)
	}
	for code, cmd := range c.Commands {
		if len(cmd.Run) == 0 {
			return fmt.Errorf("command %d: run is empty", code)
		}
	}
	return nil
}

// WriteConfigFile writes the non-secret portion of config to path, or to
// DefaultConfigPath when path is empty.
func WriteConfigFile(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// SetKeychainSecret stores a secret in the macOS Keychain.
func SetKeychainSecret(account, value string) error {
	// Delete first to avoid "already exists" errors on update
	_ = keyring.Delete(KeychainService, account)
	return keyring.Set(KeychainService, account, value)
}

// GetKeychainSecret retrieves a secret from the macOS Keychain.
func GetKeychainSecret(account string) (string, error) {
	return keyring.Get(KeychainService, account)
}
