package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/repo-check/internal/storage"
)

// Defaults used when the config file does not set a value.
const (
	DefaultWorkers = 8
	DefaultTimeout = 30 * time.Second
)

// ThemeConfig selects the color theme for terminal output.
type ThemeConfig struct {
	Name string `toml:"name"` // preset family: none, default, dracula, nord
	Mode string `toml:"mode"` // auto, light or dark
}

// Config holds the repo-check configuration.
// Every field is a default that an explicitly set CLI flag overrides.
type Config struct {
	IgnoreUntracked bool          `toml:"ignore_untracked"`
	IncludeDot      bool          `toml:"include_dot"`
	AllowUnknown    bool          `toml:"allow_unknown"`
	Trash           bool          `toml:"trash"`
	Workers         int           `toml:"workers"`
	Timeout         time.Duration `toml:"-"` // parsed from a duration string
	Theme           ThemeConfig   `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Workers: DefaultWorkers,
		Timeout: DefaultTimeout,
	}
}

// rawConfig is used for TOML parsing before durations are converted
type rawConfig struct {
	IgnoreUntracked bool        `toml:"ignore_untracked"`
	IncludeDot      bool        `toml:"include_dot"`
	AllowUnknown    bool        `toml:"allow_unknown"`
	Trash           bool        `toml:"trash"`
	Workers         int         `toml:"workers"`
	Timeout         string      `toml:"timeout"`
	Theme           ThemeConfig `toml:"theme"`
}

// Path returns the config file location: $REPO_CHECK_CONFIG if set,
// otherwise ~/.config/repo-check/config.toml.
func Path() (string, error) {
	if p := os.Getenv("REPO_CHECK_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repo-check", "config.toml"), nil
}

// Load reads the config file from Path.
// Returns Default() if the file doesn't exist (no error).
// Returns Default() and an error if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path with the same rules as Load.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes and validates TOML config data.
func Parse(data string) (Config, error) {
	var raw rawConfig
	if _, err := toml.Decode(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Config{
		IgnoreUntracked: raw.IgnoreUntracked,
		IncludeDot:      raw.IncludeDot,
		AllowUnknown:    raw.AllowUnknown,
		Trash:           raw.Trash,
		Workers:         raw.Workers,
		Timeout:         DefaultTimeout,
		Theme:           raw.Theme,
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Default(), fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		if d <= 0 {
			return Default(), fmt.Errorf("invalid timeout %q: must be positive", raw.Timeout)
		}
		cfg.Timeout = d
	}

	if cfg.Workers < 0 {
		return Default(), fmt.Errorf("invalid workers %d: must be positive", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	if err := validateEnum(cfg.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return Default(), err
	}
	if err := validateEnum(cfg.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return Default(), err
	}

	return cfg, nil
}

type ctxKey struct{}

// WithConfig attaches the loaded config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config from context, or nil if none is attached.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(ctxKey{}).(*Config)
	return cfg
}

const defaultConfig = `# repo-check configuration

# Treat untracked files as clean when counting uncommitted changes
# ignore_untracked = false

# Also check the scan root itself, not just its subdirectories
# include_dot = false

# With --delete, also delete repositories whose state is UNKNOWN
# allow_unknown = false

# With --delete, move repositories to the trash instead of removing them
# trash = false

# Maximum number of repositories checked in parallel
workers = 8

# Timeout for each git invocation
timeout = "30s"

# [theme]
# name = "default"  # none, default, dracula, nord
# mode = "auto"     # auto, light, dark
`

// DefaultConfigContent returns the commented default config file.
func DefaultConfigContent() string {
	return defaultConfig
}

// Init writes the default config file to path. It fails if the file exists.
func Init(path string) error {
	return storage.CreateFile(path, []byte(defaultConfig), 0o644)
}
