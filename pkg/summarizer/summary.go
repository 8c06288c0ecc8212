// Package summarizer builds inspection reports for animated WebP files.
package summarizer

import (
	"time"

	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/riff"
)

// Summary describes an animation container without its pixels.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Source      string

	Canvas    CanvasInfo
	Animation AnimationInfo
	Frames    []FrameInfo

	// Chunk IDs of ICCP, EXIF, XMP and unknown chunks
	Metadata []string
}

// CanvasInfo contains the canvas geometry.
type CanvasInfo struct {
	Width    int
	Height   int
	HasAlpha bool
}

// AnimationInfo contains container-wide parameters.
type AnimationInfo struct {
	FrameCount      int
	DurationMs      int
	LoopCount       int    // 0 = infinite
	BackgroundColor uint32 // ARGB
	FileSize        int64
}

// FrameInfo describes one ANMF entry.
type FrameInfo struct {
	Index      int
	X, Y       int
	Width      int
	Height     int
	DurationMs int
	EndMs      int
	Bytes      int    // bitstream bytes including ALPH
	Codec      string // VP8L, VP8 or VP8+ALPH
	Blend      string
	Dispose    string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Build summarizes a parsed animation.
func Build(info animation.Info, c *riff.Container) *Summary {
	return NewBuilder().WithAnimation(info, c).Build()
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the inspected file name.
func (b *Builder) WithSource(path string) *Builder {
	b.summary.Source = path
	return b
}

// WithGeneratedAt overrides the report timestamp.
func (b *Builder) WithGeneratedAt(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// WithAnimation fills canvas, animation and frame details.
func (b *Builder) WithAnimation(info animation.Info, c *riff.Container) *Builder {
	b.summary.Canvas = CanvasInfo{
		Width:  info.CanvasWidth,
		Height: info.CanvasHeight,
	}
	b.summary.Animation = AnimationInfo{
		FrameCount:      info.FrameCount,
		LoopCount:       info.LoopCount,
		BackgroundColor: info.BackgroundColor,
	}
	if c == nil {
		return b
	}

	b.summary.Canvas.HasAlpha = c.Flags&riff.FlagAlpha != 0
	b.summary.Animation.DurationMs = c.Duration()
	b.summary.Animation.FileSize = int64(c.Size)

	b.summary.Frames = make([]FrameInfo, len(c.Frames))
	end := 0
	for i, f := range c.Frames {
		end += f.DurationMs
		b.summary.Frames[i] = FrameInfo{
			Index:      i,
			X:          f.X,
			Y:          f.Y,
			Width:      f.Width,
			Height:     f.Height,
			DurationMs: f.DurationMs,
			EndMs:      end,
			Bytes:      len(f.Still.Image) + len(f.Still.Alpha),
			Codec:      codecName(f.Still),
			Blend:      blendName(f.Blend),
			Dispose:    disposeName(f.Dispose),
		}
	}

	b.summary.Metadata = b.summary.Metadata[:0]
	for _, m := range c.Metadata {
		b.summary.Metadata = append(b.summary.Metadata, m.ID.String())
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

func codecName(s riff.Still) string {
	switch {
	case s.Lossless:
		return "VP8L"
	case s.Alpha != nil:
		return "VP8+ALPH"
	default:
		return "VP8"
	}
}

func blendName(b riff.Blend) string {
	if b == riff.BlendNone {
		return "none"
	}
	return "alpha"
}

func disposeName(d riff.Dispose) string {
	if d == riff.DisposeBackground {
		return "background"
	}
	return "none"
}
