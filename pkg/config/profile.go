package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds CLI defaults loaded from a YAML file.
// Codec fields left unset keep the preset's values.
type Profile struct {
	// Codec
	Preset        string   `yaml:"preset"`
	Lossless      bool     `yaml:"lossless"`
	LosslessLevel *int     `yaml:"lossless_level"`
	Quality       *float32 `yaml:"quality"`
	Method        *int     `yaml:"method"`
	TargetSize    int      `yaml:"target_size"`
	Passes        int      `yaml:"passes"`
	Exact         bool     `yaml:"exact"`

	// Animation
	FPS        float64 `yaml:"fps"`
	LoopCount  int     `yaml:"loop_count"`
	Background string  `yaml:"background"`
	AllowMixed bool    `yaml:"allow_mixed"`

	// Runtime
	Engine     string `yaml:"engine"`
	Workers    int    `yaml:"workers"`
	UseThreads bool   `yaml:"use_threads"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// DefaultProfile returns a Profile with default values.
func DefaultProfile() Profile {
	return Profile{
		Preset:     "default",
		FPS:        10,
		Background: "#FFFFFFFF",
		Engine:     "auto",
		LogLevel:   "info",
		LogFormat:  "console",
	}
}

// LoadFromFile loads a profile from a YAML file over the defaults.
func LoadFromFile(path string) (Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}

	return p, nil
}

// Builder returns a codec Builder seeded from the profile.
func (p Profile) Builder() (*Builder, error) {
	preset, ok := ParsePreset(p.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", p.Preset)
	}

	b := NewBuilder(preset).WithLossless(p.Lossless).WithExact(p.Exact)
	if p.LosslessLevel != nil {
		b.WithLosslessLevel(*p.LosslessLevel)
	}
	if p.Quality != nil {
		b.WithQuality(*p.Quality)
	}
	if p.Method != nil {
		b.WithMethod(*p.Method)
	}
	if p.TargetSize > 0 {
		b.WithTargetSize(p.TargetSize)
	}
	if p.Passes > 0 {
		b.WithPasses(p.Passes)
	}
	return b, nil
}

// ParseBackground parses "#RRGGBB" or "#AARRGGBB" into an ARGB value.
// Six-digit colors are opaque.
func ParseBackground(hex string) (uint32, error) {
	s := strings.TrimPrefix(hex, "#")
	switch len(s) {
	case 6:
		s = "ff" + s
	case 8:
	default:
		return 0, fmt.Errorf("invalid color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return uint32(v), nil
}
