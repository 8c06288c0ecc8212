// Package config provides codec configuration and profile loading.
package config

import (
	"fmt"
	"strings"

	"github.com/user/webpkit/pkg/webperr"
)

// Preset selects the baseline tuning for an encode.
type Preset int

const (
	PresetDefault Preset = iota
	PresetPicture
	PresetPhoto
	PresetDrawing
	PresetIcon
	PresetText
)

var presetNames = map[Preset]string{
	PresetDefault: "default",
	PresetPicture: "picture",
	PresetPhoto:   "photo",
	PresetDrawing: "drawing",
	PresetIcon:    "icon",
	PresetText:    "text",
}

func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// ParsePreset maps a preset name to a Preset.
func ParsePreset(name string) (Preset, bool) {
	for p, n := range presetNames {
		if strings.EqualFold(n, name) {
			return p, true
		}
	}
	return PresetDefault, false
}

// Config is a validated encoder parameter set.
// Values are produced by Builder.Build and are immutable by convention.
type Config struct {
	Preset   Preset
	Lossless bool
	Quality  float32 // 0-100
	Method   int     // 0 (fast) - 6 (slowest)

	TargetSize    int // bytes, 0 = unset
	Passes        int // 1-10, 0 = unset
	LosslessLevel int // 0-9, -1 = unset

	// Exact keeps RGB values under fully transparent pixels.
	Exact bool
}

// losslessPreset is the {method, quality} pair a lossless level expands to.
type losslessPreset struct {
	method  int
	quality float32
}

var losslessPresets = [...]losslessPreset{
	{0, 0},
	{1, 20},
	{2, 25},
	{3, 30},
	{3, 50},
	{4, 50},
	{4, 75},
	{4, 90},
	{5, 90},
	{6, 100},
}

// MaxLosslessLevel is the highest lossless preset level.
const MaxLosslessLevel = len(losslessPresets) - 1

// presetDefaults returns the baseline for a preset.
func presetDefaults(p Preset) (Config, bool) {
	if _, ok := presetNames[p]; !ok {
		return Config{}, false
	}
	return Config{
		Preset:        p,
		Quality:       75,
		Method:        4,
		LosslessLevel: -1,
	}, true
}

// Default returns the validated DEFAULT preset configuration.
func Default() Config {
	cfg, _ := presetDefaults(PresetDefault)
	return cfg
}

// Validate checks every range constraint.
func (c Config) Validate() error {
	var problem string
	switch {
	case !(c.Quality >= 0 && c.Quality <= 100):
		problem = fmt.Sprintf("quality %.1f out of range [0,100]", c.Quality)
	case c.Method < 0 || c.Method > 6:
		problem = fmt.Sprintf("method %d out of range [0,6]", c.Method)
	case c.Passes != 0 && (c.Passes < 1 || c.Passes > 10):
		problem = fmt.Sprintf("passes %d out of range [1,10]", c.Passes)
	case c.TargetSize < 0:
		problem = fmt.Sprintf("target size %d is negative", c.TargetSize)
	case c.LosslessLevel < -1 || c.LosslessLevel > MaxLosslessLevel:
		problem = fmt.Sprintf("lossless level %d out of range [0,%d]", c.LosslessLevel, MaxLosslessLevel)
	case c.LosslessLevel >= 0 && !c.Lossless:
		problem = "lossless level set on a lossy configuration"
	}
	if _, ok := presetNames[c.Preset]; !ok && problem == "" {
		problem = fmt.Sprintf("unknown preset %d", int(c.Preset))
	}
	if problem == "" {
		return nil
	}
	return &webperr.Error{
		Kind: webperr.ErrConfig,
		Op:   "config.Validate",
		Msg:  "invalid configuration",
		Err:  fmt.Errorf("%s", problem),
	}
}

// Builder assembles a Config. Presets set defaults, a lossless level
// overrides them, and explicit values override both, regardless of the order
// the With methods are called in.
type Builder struct {
	preset        Preset
	lossless      bool
	quality       *float32
	method        *int
	losslessLevel *int
	targetSize    *int
	passes        *int
	exact         bool
}

// NewBuilder starts a configuration from preset.
func NewBuilder(preset Preset) *Builder {
	return &Builder{preset: preset}
}

// WithQuality sets an explicit quality factor.
func (b *Builder) WithQuality(q float32) *Builder {
	b.quality = &q
	return b
}

// WithLossless toggles lossless compression.
func (b *Builder) WithLossless(lossless bool) *Builder {
	b.lossless = lossless
	return b
}

// WithLosslessLevel selects a lossless preset level (0-9).
func (b *Builder) WithLosslessLevel(level int) *Builder {
	b.losslessLevel = &level
	return b
}

// WithMethod sets an explicit compression effort.
func (b *Builder) WithMethod(m int) *Builder {
	b.method = &m
	return b
}

// WithTargetSize requests an output size in bytes.
func (b *Builder) WithTargetSize(n int) *Builder {
	b.targetSize = &n
	return b
}

// WithPasses sets the number of size-targeting passes.
func (b *Builder) WithPasses(n int) *Builder {
	b.passes = &n
	return b
}

// WithExact keeps RGB values under transparent pixels.
func (b *Builder) WithExact(exact bool) *Builder {
	b.exact = exact
	return b
}

// Build applies presets and overrides and validates the result.
func (b *Builder) Build() (Config, error) {
	cfg, ok := presetDefaults(b.preset)
	if !ok {
		return Config{}, webperr.Newf(webperr.ErrConfig, "config.Build", "invalid configuration: unknown preset %d", int(b.preset))
	}
	cfg.Lossless = b.lossless

	if b.losslessLevel != nil {
		if !b.lossless {
			return Config{}, webperr.New(webperr.ErrConfig, "config.Build", "lossless preset requires lossless")
		}
		level := *b.losslessLevel
		if level < 0 || level > MaxLosslessLevel {
			return Config{}, webperr.Newf(webperr.ErrConfig, "config.Build", "invalid configuration: lossless level %d", level)
		}
		p := losslessPresets[level]
		cfg.Method = p.method
		cfg.Quality = p.quality
		cfg.LosslessLevel = level
	}

	if b.quality != nil {
		cfg.Quality = *b.quality
	}
	if b.method != nil {
		cfg.Method = *b.method
	}
	if b.targetSize != nil {
		cfg.TargetSize = *b.targetSize
	}
	if b.passes != nil {
		cfg.Passes = *b.passes
	}
	cfg.Exact = b.exact

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Option customizes a Builder.
type Option func(*Builder)

// Quality sets an explicit quality factor.
func Quality(q float32) Option { return func(b *Builder) { b.WithQuality(q) } }

// Lossless toggles lossless compression.
func Lossless(lossless bool) Option { return func(b *Builder) { b.WithLossless(lossless) } }

// LosslessLevel selects a lossless preset level.
func LosslessLevel(level int) Option { return func(b *Builder) { b.WithLosslessLevel(level) } }

// Method sets the compression effort.
func Method(m int) Option { return func(b *Builder) { b.WithMethod(m) } }

// TargetSize requests an output size in bytes.
func TargetSize(n int) Option { return func(b *Builder) { b.WithTargetSize(n) } }

// Passes sets the number of size-targeting passes.
func Passes(n int) Option { return func(b *Builder) { b.WithPasses(n) } }

// Exact keeps RGB values under transparent pixels.
func Exact(exact bool) Option { return func(b *Builder) { b.WithExact(exact) } }

// New builds a Config from preset and options.
func New(preset Preset, opts ...Option) (Config, error) {
	b := NewBuilder(preset)
	for _, opt := range opts {
		opt(b)
	}
	return b.Build()
}
