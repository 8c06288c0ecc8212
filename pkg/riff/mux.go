package riff

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/user/webpkit/pkg/webperr"
)

// Dispose is the action applied to a frame's area after it is shown.
type Dispose uint8

const (
	DisposeNone Dispose = iota
	DisposeBackground
)

// Blend selects how a frame is combined with the canvas.
type Blend uint8

const (
	BlendAlpha Blend = iota
	BlendNone
)

// MuxFrame is one ANMF entry.
type MuxFrame struct {
	X, Y       int // even offsets on the canvas
	DurationMs int
	Dispose    Dispose
	Blend      Blend
	Still      Still
}

// Muxer writes an animated WebP: VP8X, ANIM, then one ANMF per frame.
type Muxer struct {
	Width           int
	Height          int
	LoopCount       int    // 0 = infinite
	BackgroundColor uint32 // ARGB
	Frames          []MuxFrame
}

// Bytes serializes the animation.
func (m *Muxer) Bytes() ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, webperr.Wrap(webperr.ErrContainer, "riff.Mux", err)
	}

	flags := FlagAnimation
	size := 4 + chunkSize(vp8xPayloadSize) + chunkSize(animPayloadSize)
	for _, f := range m.Frames {
		if f.Still.HasAlpha {
			flags |= FlagAlpha
		}
		size += chunkSize(anmfPayloadSize(f.Still))
	}

	out := make([]byte, 0, chunkHeaderSize+size)
	out = binary.LittleEndian.AppendUint32(out, uint32(FourCCRIFF))
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	out = binary.LittleEndian.AppendUint32(out, uint32(FourCCWEBP))
	out = appendChunk(out, FourCCVP8X, vp8xPayload(flags, m.Width, m.Height))

	anim := binary.LittleEndian.AppendUint32(make([]byte, 0, animPayloadSize), m.BackgroundColor)
	anim = binary.LittleEndian.AppendUint16(anim, uint16(m.LoopCount))
	out = appendChunk(out, FourCCANIM, anim)

	for _, f := range m.Frames {
		out = appendChunk(out, FourCCANMF, anmfPayload(f))
	}
	return out, nil
}

// WriteTo serializes the animation to w.
func (m *Muxer) WriteTo(w io.Writer) (int64, error) {
	b, err := m.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

func (m *Muxer) validate() error {
	if m.Width <= 0 || m.Height <= 0 || m.Width > MaxCanvasDimension || m.Height > MaxCanvasDimension {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidLayout, m.Width, m.Height)
	}
	if m.LoopCount < 0 || m.LoopCount > MaxLoopCount {
		return fmt.Errorf("%w: loop count %d", ErrInvalidLayout, m.LoopCount)
	}
	if len(m.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidLayout)
	}
	for i, f := range m.Frames {
		if f.X&1 != 0 || f.Y&1 != 0 || f.X < 0 || f.Y < 0 {
			return fmt.Errorf("%w: frame %d offset (%d,%d) must be even", ErrInvalidLayout, i, f.X, f.Y)
		}
		if f.Still.Width <= 0 || f.Still.Height <= 0 ||
			f.X+f.Still.Width > m.Width || f.Y+f.Still.Height > m.Height {
			return fmt.Errorf("%w: frame %d", ErrFrameBounds, i)
		}
		if f.DurationMs < 0 || f.DurationMs > MaxDuration {
			return fmt.Errorf("%w: frame %d duration %d", ErrInvalidLayout, i, f.DurationMs)
		}
		if len(f.Still.Image) == 0 {
			return fmt.Errorf("%w: frame %d", ErrNoImage, i)
		}
	}
	return nil
}

func anmfPayloadSize(s Still) int {
	n := anmfHeaderSize + chunkSize(len(s.Image))
	if s.Alpha != nil {
		n += chunkSize(len(s.Alpha))
	}
	return n
}

func anmfPayload(f MuxFrame) []byte {
	p := make([]byte, 0, anmfPayloadSize(f.Still))
	p = appendLE24(p, f.X/2)
	p = appendLE24(p, f.Y/2)
	p = appendLE24(p, f.Still.Width-1)
	p = appendLE24(p, f.Still.Height-1)
	p = appendLE24(p, f.DurationMs)

	var bits byte
	if f.Dispose == DisposeBackground {
		bits |= 1
	}
	if f.Blend == BlendNone {
		bits |= 2
	}
	p = append(p, bits)

	if f.Still.Alpha != nil {
		p = appendChunk(p, FourCCALPH, f.Still.Alpha)
	}
	id := FourCCVP8
	if f.Still.Lossless {
		id = FourCCVP8L
	}
	return appendChunk(p, id, f.Still.Image)
}
