// Package config holds the viewer settings, read from an optional TOML file
// and overridden by command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full set of viewer settings
type Config struct {
	Model  string `toml:"model"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`

	LogLevel string `toml:"log_level"`

	MoveSpeed        float32 `toml:"move_speed"`
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
}

// Default returns the settings used when nothing else is given
func Default() Config {
	return Config{
		Model:            "tour_seul.glb",
		Width:            1280,
		Height:           720,
		Title:            "Fly View",
		VSync:            true,
		LogLevel:         "info",
		MoveSpeed:        0.1,
		MouseSensitivity: 0.002,
	}
}

// Load reads the TOML file at path over the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping the existing values for missing keys
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate reports settings the viewer cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model path is empty"))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.MoveSpeed <= 0 {
		errs = append(errs, fmt.Errorf("move speed %v must be positive", c.MoveSpeed))
	}
	if c.MouseSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("mouse sensitivity %v must be positive", c.MouseSensitivity))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
