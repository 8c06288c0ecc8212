package pipeline

import (
	"image"
	"image/color"

	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/webpdata"
)

// =============================================================================
// Encode Stage Types
// =============================================================================

// TimedFrame is a picture shown from TimestampMs until the next frame.
type TimedFrame struct {
	Picture     *picture.Buffer
	TimestampMs int
}

// EncodeInput contains parameters for animation encoding.
type EncodeInput struct {
	Frames          []TimedFrame
	FinalMs         int    // end of the last frame
	LoopCount       int    // 0 = infinite
	BackgroundColor uint32 // ARGB
	AllowMixed      bool
	Config          config.Config
}

// DefaultEncodeInput returns EncodeInput with default values.
func DefaultEncodeInput() EncodeInput {
	return EncodeInput{
		BackgroundColor: animation.DefaultBackgroundColor,
		Config:          config.Default(),
	}
}

// EncodeResult contains the encoded animation.
type EncodeResult struct {
	Data       *webpdata.Data
	DurationMs int
	FileSize   int64
	FrameCount int // frames after merging identical neighbours
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains parameters for animation decoding.
type DecodeInput struct {
	Data       *webpdata.Data
	Layout     picture.Layout
	FPS        *float64 // resample to a constant rate when set
	UseThreads bool
	Workers    int
}

// DecodedFrame is a full-canvas frame and the time it stops being shown.
type DecodedFrame struct {
	Picture *picture.Buffer
	EndMs   int
}

// DecodeResult contains the decoded frames.
type DecodeResult struct {
	Frames []DecodedFrame
	Info   animation.Info
}

// =============================================================================
// Filmstrip Stage Types
// =============================================================================

// StripInput contains parameters for contact sheet rendering.
type StripInput struct {
	Frames     []DecodedFrame
	Columns    int // thumbnails per row (default: 4)
	ThumbWidth int // thumbnail width in pixels (default: 160)
	Gap        int // spacing between thumbnails (default: 8)
	Background color.Color
	Labels     bool // draw end timestamps under thumbnails
	FontPath   string
}

// DefaultStripInput returns StripInput with default values.
func DefaultStripInput() StripInput {
	return StripInput{
		Columns:    4,
		ThumbWidth: 160,
		Gap:        8,
		Background: color.White,
		Labels:     true,
	}
}

// StripResult contains the rendered contact sheet.
type StripResult struct {
	Image image.Image
}
