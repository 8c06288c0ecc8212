package riff

import (
	"encoding/binary"
	"fmt"

	"github.com/user/webpkit/pkg/webperr"
)

// Frame is one demuxed ANMF entry.
type Frame struct {
	X, Y       int
	Width      int
	Height     int
	DurationMs int
	Dispose    Dispose
	Blend      Blend
	Still      Still
}

// Container is a parsed animated WebP.
type Container struct {
	Width           int
	Height          int
	Flags           uint8
	LoopCount       int
	BackgroundColor uint32
	Frames          []Frame
	Metadata        []Chunk // ICCP, EXIF, XMP and unknown chunks
	Size            int     // total file size in bytes
}

// Duration returns the sum of all frame durations in milliseconds.
func (c *Container) Duration() int {
	total := 0
	for _, f := range c.Frames {
		total += f.DurationMs
	}
	return total
}

// Demux parses an animated WebP. Frame payloads alias data.
func Demux(data []byte) (*Container, error) {
	c, err := demux(data)
	if err != nil {
		return nil, webperr.Wrap(webperr.ErrContainer, "riff.Demux", err)
	}
	return c, nil
}

func demux(data []byte) (*Container, error) {
	buf, err := body(data)
	if err != nil {
		return nil, err
	}
	first, buf, err := nextChunk(buf)
	if err != nil {
		return nil, err
	}
	if first.ID != FourCCVP8X {
		return nil, fmt.Errorf("%w: first chunk is %s", ErrNotAnimation, first.ID)
	}

	flags, w, h, err := parseVP8X(first.Payload)
	if err != nil {
		return nil, err
	}
	if flags&FlagAnimation == 0 {
		return nil, fmt.Errorf("%w: animation flag not set", ErrNotAnimation)
	}

	c := &Container{Width: w, Height: h, Flags: flags, Size: len(data)}
	seenAnim := false

	for len(buf) > 0 {
		chunk, rest, err := nextChunk(buf)
		if err != nil {
			return nil, err
		}
		buf = rest

		switch chunk.ID {
		case FourCCANIM:
			if len(chunk.Payload) < animPayloadSize {
				return nil, fmt.Errorf("%w: ANIM payload %d bytes", ErrInvalidChunk, len(chunk.Payload))
			}
			seenAnim = true
			c.BackgroundColor = binary.LittleEndian.Uint32(chunk.Payload[0:4])
			c.LoopCount = int(binary.LittleEndian.Uint16(chunk.Payload[4:6]))

		case FourCCANMF:
			if !seenAnim {
				return nil, fmt.Errorf("%w: ANMF before ANIM", ErrInvalidChunk)
			}
			f, err := parseANMF(chunk.Payload)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", len(c.Frames), err)
			}
			if f.X+f.Width > c.Width || f.Y+f.Height > c.Height {
				return nil, fmt.Errorf("%w: frame %d", ErrFrameBounds, len(c.Frames))
			}
			c.Frames = append(c.Frames, f)

		case FourCCVP8, FourCCVP8L, FourCCALPH, FourCCVP8X:
			return nil, fmt.Errorf("%w: %s outside ANMF", ErrInvalidChunk, chunk.ID)

		default:
			c.Metadata = append(c.Metadata, Chunk{ID: chunk.ID, Payload: append([]byte(nil), chunk.Payload...)})
		}
	}

	if !seenAnim {
		return nil, fmt.Errorf("%w: missing ANIM chunk", ErrNotAnimation)
	}
	if len(c.Frames) == 0 {
		return nil, fmt.Errorf("%w: no ANMF chunks", ErrNotAnimation)
	}
	return c, nil
}

func parseANMF(p []byte) (Frame, error) {
	if len(p) < anmfHeaderSize {
		return Frame{}, fmt.Errorf("%w: ANMF payload %d bytes", ErrInvalidChunk, len(p))
	}
	f := Frame{
		X:          2 * readLE24(p[0:3]),
		Y:          2 * readLE24(p[3:6]),
		Width:      1 + readLE24(p[6:9]),
		Height:     1 + readLE24(p[9:12]),
		DurationMs: readLE24(p[12:15]),
	}
	if p[15]&1 != 0 {
		f.Dispose = DisposeBackground
	}
	if p[15]&2 != 0 {
		f.Blend = BlendNone
	}

	s, err := findStill(p[anmfHeaderSize:])
	if err != nil {
		return Frame{}, err
	}
	if s.Width != f.Width || s.Height != f.Height {
		return Frame{}, fmt.Errorf("%w: ANMF %dx%d, bitstream %dx%d", ErrBadBitstream, f.Width, f.Height, s.Width, s.Height)
	}
	f.Still = s
	return f, nil
}
