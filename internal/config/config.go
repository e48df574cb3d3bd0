package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/synapse/internal/layout"
	"github.com/abhisek/synapse/internal/render"
)

// Config holds synapse configuration.
type Config struct {
	Layout  layout.Config `toml:"layout"`
	Style   render.Style  `toml:"style"`
	UI      UIConfig      `toml:"ui"`
	Source  SourceConfig  `toml:"source"`
	Metrics MetricsConfig `toml:"metrics"`
}

// UIConfig controls the terminal view.
type UIConfig struct {
	TickInterval   Duration `toml:"tick_interval"`
	CellWidth      float64  `toml:"cell_width"`
	CellHeight     float64  `toml:"cell_height"`
	ClickThreshold float64  `toml:"click_threshold"`
	Color          bool     `toml:"color"`
}

// SourceConfig selects where snapshots come from.
type SourceConfig struct {
	Kind  string `toml:"kind"` // "file", "sqlite", "postgres", "http" or "demo"
	Path  string `toml:"path"`
	DSN   string `toml:"dsn"`
	URL   string `toml:"url"`
	User  string `toml:"user"`
	Watch bool   `toml:"watch"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `toml:"addr"` // empty disables the endpoint
}

// Duration is a time.Duration written as a string ("16ms") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: layout.DefaultConfig(),
		Style:  render.DefaultStyle(),
		UI: UIConfig{
			TickInterval:   Duration{16 * time.Millisecond},
			CellWidth:      render.DefaultCellWidth,
			CellHeight:     render.DefaultCellHeight,
			ClickThreshold: 3,
			Color:          true,
		},
		Source: SourceConfig{Kind: "demo", User: "1"},
	}
}

// ConfigDir returns the synapse config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "synapse")
}

// DefaultPath is the config file used when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path over the defaults. An empty path
// means DefaultPath; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field rules.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Source.Kind {
	case "demo", "http", "sqlite", "postgres":
	case "file":
		if c.Source.Path == "" {
			return errors.New("source.path is required for file sources")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	if c.UI.TickInterval.Duration <= 0 {
		return errors.New("ui.tick_interval must be positive")
	}
	if c.UI.CellWidth <= 0 || c.UI.CellHeight <= 0 {
		return errors.New("ui.cell_width and ui.cell_height must be positive")
	}
	return nil
}

// Save writes the config to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	return Save(Default(), path)
}
