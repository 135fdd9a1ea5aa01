// ABOUTME: Settings loading for the terminal video player
// ABOUTME: YAML-based configuration; zero values mean "ask the terminal"

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds playback and output configuration. File values are
// overridden by command-line flags in the caller.
type Settings struct {
	// Canvas pixel-size overrides. 0 queries the terminal.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
	// 1-based origin cell overrides. 0 derives from the layout.
	Top  int `yaml:"top,omitempty"`
	Left int `yaml:"left,omitempty"`
	// ExitClear clears the screen on shutdown. Nil means yes.
	ExitClear *bool   `yaml:"exit_clear,omitempty"`
	Panscan   float64 `yaml:"panscan,omitempty"`

	FPS      float64 `yaml:"fps,omitempty"`
	Format   string  `yaml:"format,omitempty"`
	OSD      bool    `yaml:"osd,omitempty"`
	LogLevel string  `yaml:"log_level,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		FPS:      24,
		Format:   "rgba",
		LogLevel: "info",
	}
}

// Load reads settings from path, layered over defaults. A missing file
// is not an error.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks ranges that would otherwise fail deep inside playback.
func (s *Settings) Validate() error {
	if s.FPS < 0 {
		return fmt.Errorf("fps must be positive, got %g", s.FPS)
	}
	if s.Panscan < 0 || s.Panscan > 1 {
		return fmt.Errorf("panscan must be in [0,1], got %g", s.Panscan)
	}
	for _, v := range []struct {
		name string
		val  int
	}{{"width", s.Width}, {"height", s.Height}, {"top", s.Top}, {"left", s.Left}} {
		if v.val < 0 {
			return fmt.Errorf("%s must not be negative, got %d", v.name, v.val)
		}
	}
	return nil
}

// ExitClearValue resolves the tri-state exit_clear with its default.
func (s *Settings) ExitClearValue() bool {
	if s.ExitClear == nil {
		return true
	}
	return *s.ExitClear
}

// ParseSize parses a "WIDTHxHEIGHT" string like "1280x720".
func ParseSize(size string) (w, h int, err error) {
	a, b, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WIDTHxHEIGHT", size)
	}
	w, err = strconv.Atoi(a)
	if err == nil {
		h, err = strconv.Atoi(b)
	}
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q is not WIDTHxHEIGHT", size)
	}
	return w, h, nil
}
