// Package config loads digital-rain settings from defaults, an optional YAML
// file and DIGITAL_RAIN_* environment variables, in that order. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/hugomf/digital-rain/internal/rain"
)

// Default configuration values for the animation.
const (
	DefaultFPS      = 30
	DefaultDensity  = 0.7
	DefaultColor    = "green"
	DefaultCharSet  = "matrix"
	DefaultMinDrops = 10
	DefaultMaxDrops = 400
	DefaultMinSpeed = 4
	DefaultMaxSpeed = 20
	DefaultBackend  = BackendANSI
)

// Rendering backends.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// ColorThemes maps theme names to base colors.
var ColorThemes = map[string]string{
	"green":  "#00ff00",
	"amber":  "#ffbf00",
	"red":    "#ff0000",
	"orange": "#ffa500",
	"blue":   "#0096ff",
	"purple": "#8000ff",
	"cyan":   "#00ffff",
	"pink":   "#ff1493",
	"white":  "#ffffff",
}

// Config holds the configuration for the digital rain.
type Config struct {
	Color    string  `yaml:"color"`     // Theme name or #rrggbb
	Chars    string  `yaml:"chars"`     // Character set name or custom string
	FPS      int     `yaml:"fps"`       // Frames per second
	Density  float64 `yaml:"density"`   // Drops per column
	MinDrops int     `yaml:"min_drops"` // Lower bound on drop count
	MaxDrops int     `yaml:"max_drops"` // Upper bound on drop count
	MinSpeed int     `yaml:"min_speed"` // Slowest fall in rows per second
	MaxSpeed int     `yaml:"max_speed"` // Fastest fall in rows per second
	Backend  string  `yaml:"backend"`   // "ansi" or "tcell"
	Seed     int64   `yaml:"seed"`      // Random seed, 0 means time based

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures where and how much is logged.
type LoggingConfig struct {
	// Level is "info" (default), "debug" or "trace".
	Level string `yaml:"level"`

	// File receives log output. When empty, debug and trace go to stderr.
	File string `yaml:"file,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Color:    DefaultColor,
		Chars:    DefaultCharSet,
		FPS:      DefaultFPS,
		Density:  DefaultDensity,
		MinDrops: DefaultMinDrops,
		MaxDrops: DefaultMaxDrops,
		MinSpeed: DefaultMinSpeed,
		MaxSpeed: DefaultMaxSpeed,
		Backend:  DefaultBackend,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath is ~/.config/digital-rain/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "digital-rain", "config.yaml"), nil
}

// Load resolves defaults, then the file at path (or the default location when
// path is empty and the file exists), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if def, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			}
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileConfig
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file. Unset keys keep
// their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for validity.
func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > 60 {
		return fmt.Errorf("fps out of range (1-60): got %d", c.FPS)
	}
	if err := c.RainOptions().Validate(); err != nil {
		return err
	}
	if c.Chars == "" {
		return errors.New("character set cannot be empty")
	}
	if c.Backend != BackendANSI && c.Backend != BackendTcell {
		return fmt.Errorf("invalid backend: %s (valid: %s, %s)", c.Backend, BackendANSI, BackendTcell)
	}
	if _, err := ResolveColor(c.Color); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// RainOptions converts the drop settings for the simulation.
func (c *Config) RainOptions() rain.Options {
	return rain.Options{
		MinDrops: c.MinDrops,
		MaxDrops: c.MaxDrops,
		Density:  c.Density,
		Speeds:   rain.SpeedRange{Min: c.MinSpeed, Max: c.MaxSpeed},
	}
}

// ResolveColor accepts a theme name or a #rrggbb hex string.
func ResolveColor(name string) (colorful.Color, error) {
	if hex, ok := ColorThemes[strings.ToLower(name)]; ok {
		name = hex
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("unknown color theme: %s", name)
	}
	return c, nil
}

// ThemeNames lists the color themes in alphabetical order.
func ThemeNames() []string {
	names := make([]string, 0, len(ColorThemes))
	for name := range ColorThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("DIGITAL_RAIN_COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv("DIGITAL_RAIN_CHARS"); v != "" {
		c.Chars = v
	}
	if v := os.Getenv("DIGITAL_RAIN_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DIGITAL_RAIN_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FPS = n
		}
	}
	if v := os.Getenv("DIGITAL_RAIN_DENSITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Density = f
		}
	}
	if v := os.Getenv("DIGITAL_RAIN_MIN_SPEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinSpeed = n
		}
	}
	if v := os.Getenv("DIGITAL_RAIN_MAX_SPEED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSpeed = n
		}
	}
	if v := os.Getenv("DIGITAL_RAIN_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv("DIGITAL_RAIN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DIGITAL_RAIN_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}
