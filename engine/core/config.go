package core

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hubastard/canopy/engine/logging"
	"github.com/hubastard/canopy/engine/ui"
)

// Config for the engine run.
type Config struct {
	Window WindowConfig `yaml:"window" toml:"window"`
	UI     UIConfig     `yaml:"ui" toml:"ui"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

type WindowConfig struct {
	Title      string     `yaml:"title" toml:"title"`
	Width      int        `yaml:"width" toml:"width"`
	Height     int        `yaml:"height" toml:"height"`
	VSync      bool       `yaml:"vsync" toml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color" toml:"clear_color"` // RGBA
}

type UIConfig struct {
	ArenaCapacity int `yaml:"arena_capacity" toml:"arena_capacity"`
	StoreCapacity int `yaml:"store_capacity" toml:"store_capacity"`
	// Scale multiplies the window's content scale. Zero means 1.
	Scale float32 `yaml:"scale" toml:"scale"`
}

type LogConfig struct {
	Level     string `yaml:"level" toml:"level"`
	Format    string `yaml:"format" toml:"format"`
	NoColor   bool   `yaml:"no_color" toml:"no_color"`
	AddSource bool   `yaml:"add_source" toml:"add_source"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:      "canopy",
			Width:      1280,
			Height:     720,
			VSync:      true,
			ClearColor: [4]float32{0.05, 0.06, 0.08, 1},
		},
		UI: UIConfig{
			ArenaCapacity: ui.DefaultArenaCapacity,
			StoreCapacity: ui.DefaultStoreCapacity,
			Scale:         1,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads path over the defaults. The decoder is picked by
// extension: .yaml/.yml or .toml. An empty path or a missing file yields
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse yaml config %s", path)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse toml config %s", path)
		}
	default:
		return cfg, errors.Errorf("config %s: unsupported format %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot start with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.UI.Scale < 0 {
		return errors.Errorf("ui scale %g must not be negative", c.UI.Scale)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// Logger builds the logger described by the log section, writing to w.
// Unparseable fields fall back to the logging defaults.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	lc := logging.DefaultConfig()
	lc.Output = w
	if l, err := logging.ParseLevel(c.Level); err == nil {
		lc.Level = l
	}
	if f, err := logging.ParseFormat(c.Format); err == nil {
		lc.Format = f
	}
	lc.NoColor = c.NoColor
	lc.AddSource = c.AddSource
	return logging.New(lc)
}

// Options converts the UI section for ui.New.
func (c UIConfig) Options(log *slog.Logger) ui.Options {
	return ui.Options{ArenaCapacity: c.ArenaCapacity, StoreCapacity: c.StoreCapacity, Logger: log}
}
