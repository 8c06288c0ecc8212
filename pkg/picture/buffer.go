// Package picture provides the owned pixel buffer used by every codec call.
package picture

import (
	"bytes"

	"github.com/user/webpkit/pkg/webperr"
)

// MaxDimension is the largest width or height a WebP bitstream can describe.
const MaxDimension = 16383

// maxBufferSize bounds a single allocation.
const maxBufferSize = 1 << 32

// Buffer owns the pixel memory of a single frame.
//
// A Buffer has a single owner and must not be mutated from more than one
// goroutine. Release frees the memory and may be called any number of times.
type Buffer struct {
	width    int
	height   int
	layout   Layout
	stride   int
	pix      []byte
	released bool
}

// Allocate creates a zeroed buffer of the given size and layout.
func Allocate(width, height int, layout Layout) (*Buffer, error) {
	if !layout.Valid() {
		return nil, webperr.Newf(webperr.ErrUnsupportedLayout, "picture.Allocate", "layout %s", layout)
	}
	if width <= 0 || height <= 0 {
		return nil, webperr.Newf(webperr.ErrAllocation, "picture.Allocate", "invalid dimensions %dx%d", width, height)
	}
	if int64(width) > maxBufferSize/int64(height) {
		return nil, webperr.Newf(webperr.ErrAllocation, "picture.Allocate", "cannot allocate %dx%d picture", width, height)
	}
	size := layout.BufferSize(width, height)
	if int64(size) > maxBufferSize {
		return nil, webperr.Newf(webperr.ErrAllocation, "picture.Allocate", "cannot allocate %d bytes", size)
	}

	return &Buffer{
		width:  width,
		height: height,
		layout: layout,
		stride: strideFor(width, layout),
		pix:    make([]byte, size),
	}, nil
}

// Import copies raw into a newly allocated buffer.
// The caller keeps ownership of raw.
func Import(raw []byte, width, height int, layout Layout) (*Buffer, error) {
	if !layout.Valid() {
		return nil, webperr.Newf(webperr.ErrUnsupportedLayout, "picture.Import", "layout %s", layout)
	}
	if width <= 0 || height <= 0 || len(raw) != layout.BufferSize(width, height) {
		return nil, webperr.Newf(webperr.ErrShape, "picture.Import",
			"unexpected shape: %d bytes for %dx%d %s (want %d)",
			len(raw), width, height, layout, layout.BufferSize(width, height))
	}

	b, err := Allocate(width, height, layout)
	if err != nil {
		return nil, err
	}
	copy(b.pix, raw)
	return b, nil
}

func strideFor(width int, layout Layout) int {
	if layout.Planar() {
		return width
	}
	return width * layout.BytesPerPixel()
}

// Width returns the picture width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the picture height in pixels.
func (b *Buffer) Height() int { return b.height }

// Layout returns the pixel layout.
func (b *Buffer) Layout() Layout { return b.layout }

// Stride returns the row length in bytes (the luma stride for planar layouts).
func (b *Buffer) Stride() int { return b.stride }

// Bytes returns the underlying pixel memory, or nil after Release.
func (b *Buffer) Bytes() []byte { return b.pix }

// Released reports whether Release has been called.
func (b *Buffer) Released() bool { return b == nil || b.released }

// Release frees the pixel memory. Repeated calls are no-ops.
func (b *Buffer) Release() {
	if b == nil || b.released {
		return
	}
	b.pix = nil
	b.released = true
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	if b.pix != nil {
		c.pix = append([]byte(nil), b.pix...)
	}
	return &c
}

// Equal reports whether both buffers hold identical pixels in the same layout.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width &&
		b.height == other.height &&
		b.layout == other.layout &&
		bytes.Equal(b.pix, other.pix)
}
