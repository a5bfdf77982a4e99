// Package config provides configuration loading from YAML or TOML files and
// environment variables. Environment variables take precedence for dev flexibility.
package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Gesture types understood by the surface builder.
const (
	GestureTap       = "tap"
	GestureLongPress = "long_press"
	GesturePan       = "pan"
)

// Defaults applied when a value is missing or invalid.
const (
	DefaultTickRate   = 60
	DefaultBrightness = 80
	DefaultTheme      = "dark"
)

// Config holds the full application configuration, assembled from the config file + env.
type Config struct {
	TickRate   int             `yaml:"tick_rate" toml:"tick_rate"`
	Brightness int             `yaml:"brightness" toml:"brightness"`
	Theme      string          `yaml:"theme" toml:"theme"`
	Surfaces   []SurfaceConfig `yaml:"surfaces" toml:"surfaces"`
}

// SurfaceConfig describes one interactive region of the touch strip.
type SurfaceConfig struct {
	ID    string `yaml:"id,omitempty" toml:"id,omitempty"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty"`

	// Rect is [x0, y0, x1, y1] in strip pixels.
	Rect [4]int `yaml:"rect,flow" toml:"rect"`

	// Gestures are registered in order; earlier gestures win conflicts.
	Gestures []GestureConfig `yaml:"gestures" toml:"gestures"`
}

// Rectangle returns the surface region as an image.Rectangle.
func (s SurfaceConfig) Rectangle() image.Rectangle {
	return image.Rect(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3])
}

// GestureConfig binds one recognizer to an action.
type GestureConfig struct {
	Type string `yaml:"type" toml:"type"`

	// Taps is the tap count for tap gestures (default 1).
	Taps int `yaml:"taps,omitempty" toml:"taps,omitempty"`

	// HoldTicks is the hold duration for long presses, in recognition ticks.
	HoldTicks int `yaml:"hold_ticks,omitempty" toml:"hold_ticks,omitempty"`

	// MaxDelta overrides the movement bound (tap, long press) or the start
	// threshold (pan). Zero keeps the recognizer default.
	MaxDelta float64 `yaml:"max_delta,omitempty" toml:"max_delta,omitempty"`

	// Command is run when the gesture fires. For pans it runs when the pan ends.
	Command []string `yaml:"command,omitempty" toml:"command,omitempty"`
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Surfaces {
		if s.Rectangle().Empty() {
			return fmt.Errorf("surface %d: empty rect %v", i, s.Rect)
		}
		if s.ID != "" {
			if seen[s.ID] {
				return fmt.Errorf("surface %d: duplicate id %q", i, s.ID)
			}
			seen[s.ID] = true
		}
		for j, g := range s.Gestures {
			switch g.Type {
			case GestureTap, GestureLongPress, GesturePan:
			default:
				return fmt.Errorf("surface %d gesture %d: unknown type %q", i, j, g.Type)
			}
			if g.Taps < 0 || g.HoldTicks < 0 || g.MaxDelta < 0 {
				return fmt.Errorf("surface %d gesture %d: negative value", i, j)
			}
		}
	}
	return nil
}

// MaxHoldTicks returns the longest explicit long press hold across all
// surfaces, or 0 when every long press uses the recognizer default.
func (c *Config) MaxHoldTicks() int {
	hold := 0
	for _, s := range c.Surfaces {
		for _, g := range s.Gestures {
			if g.Type == GestureLongPress && g.HoldTicks > hold {
				hold = g.HoldTicks
			}
		}
	}
	return hold
}

// Default returns the configuration used when no file exists: the strip split
// in two halves, long press and pan on the right, double tap and tap on the
// left. A double tap on the left fires both: the single tap on the first
// contact, the double tap on the second.
func Default() *Config {
	return &Config{
		TickRate:   DefaultTickRate,
		Brightness: DefaultBrightness,
		Theme:      DefaultTheme,
		Surfaces: []SurfaceConfig{
			{
				ID:    "left",
				Label: "Tap",
				Rect:  [4]int{0, 0, 400, 100},
				Gestures: []GestureConfig{
					{Type: GestureTap, Taps: 2},
					{Type: GestureTap, Taps: 1},
				},
			},
			{
				ID:    "right",
				Label: "Hold / Pan",
				Rect:  [4]int{400, 0, 800, 100},
				Gestures: []GestureConfig{
					{Type: GestureLongPress},
					{Type: GesturePan},
				},
			},
		},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gesturedeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	// Allow override via environment variable (used by nix-generated config)
	if p := os.Getenv("GESTUREDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load assembles configuration from the default config file + environment variables.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile assembles configuration from the given file + environment variables.
// A missing file yields the built-in defaults. Environment variables always take
// precedence.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// 1. Try to load the config file
	if data, err := os.ReadFile(path); err == nil {
		parsed := &Config{}
		if err := decode(path, data, parsed); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg = parsed
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// 2. Environment variables override everything
	if v := os.Getenv("GESTUREDECK_TICK_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("GESTUREDECK_TICK_RATE: %w", err)
		}
		cfg.TickRate = n
	}
	if v := os.Getenv("GESTUREDECK_BRIGHTNESS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("GESTUREDECK_BRIGHTNESS: %w", err)
		}
		cfg.Brightness = n
	}
	if v := os.Getenv("GESTUREDECK_THEME"); v != "" {
		cfg.Theme = v
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func (c *Config) applyDefaults() {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Brightness <= 0 || c.Brightness > 100 {
		c.Brightness = DefaultBrightness
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

// WriteFile writes the config as YAML, or TOML for a .toml path.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var data []byte
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}
