package riff

import (
	"encoding/binary"
	"fmt"

	"github.com/user/webpkit/pkg/webperr"
)

// Format is the kind of the first chunk after the RIFF header.
type Format int

const (
	FormatUndefined Format = iota
	FormatVP8              // simple lossy
	FormatVP8L             // simple lossless
	FormatVP8X             // extended
)

func (f Format) String() string {
	switch f {
	case FormatVP8:
		return "VP8"
	case FormatVP8L:
		return "VP8L"
	case FormatVP8X:
		return "VP8X"
	}
	return "undefined"
}

// Features is the bitstream summary read without decoding pixels.
type Features struct {
	Width       int
	Height      int
	HasAlpha    bool
	IsAnimation bool
	Lossless    bool // false for animations
	Format      Format
}

// Still is the image payload of a single frame: an optional ALPH payload
// followed by a VP8 or VP8L bitstream.
type Still struct {
	Alpha    []byte // ALPH payload, only with VP8
	Image    []byte // VP8 or VP8L payload
	Lossless bool
	HasAlpha bool
	Width    int
	Height   int
}

const (
	vp8lMagic      = 0x2f
	vp8Signature   = 0x9d012a
	vp8HeaderSize  = 10
	vp8lHeaderSize = 5
)

// Probe reads the dimensions and feature flags of a WebP bitstream.
func Probe(data []byte) (Features, error) {
	f, err := probe(data)
	if err != nil {
		return Features{}, webperr.Wrap(webperr.ErrContainer, "riff.Probe", err)
	}
	return f, nil
}

func probe(data []byte) (Features, error) {
	buf, err := body(data)
	if err != nil {
		return Features{}, err
	}
	first, rest, err := nextChunk(buf)
	if err != nil {
		return Features{}, err
	}

	switch first.ID {
	case FourCCVP8, FourCCVP8L:
		s, err := stillFromChunk(first, nil)
		if err != nil {
			return Features{}, err
		}
		format := FormatVP8
		if s.Lossless {
			format = FormatVP8L
		}
		return Features{
			Width:    s.Width,
			Height:   s.Height,
			HasAlpha: s.HasAlpha,
			Lossless: s.Lossless,
			Format:   format,
		}, nil

	case FourCCVP8X:
		flags, w, h, err := parseVP8X(first.Payload)
		if err != nil {
			return Features{}, err
		}
		f := Features{
			Width:       w,
			Height:      h,
			HasAlpha:    flags&FlagAlpha != 0,
			IsAnimation: flags&FlagAnimation != 0,
			Format:      FormatVP8X,
		}
		if !f.IsAnimation {
			s, err := findStill(rest)
			if err != nil {
				return Features{}, err
			}
			f.Lossless = s.Lossless
			f.HasAlpha = f.HasAlpha || s.HasAlpha
		}
		return f, nil
	}

	return Features{}, fmt.Errorf("%w: unexpected first chunk %s", ErrInvalidChunk, first.ID)
}

// SplitStill extracts the image chunks of a still WebP.
func SplitStill(data []byte) (Still, error) {
	s, err := splitStill(data)
	if err != nil {
		return Still{}, webperr.Wrap(webperr.ErrContainer, "riff.SplitStill", err)
	}
	return s, nil
}

func splitStill(data []byte) (Still, error) {
	buf, err := body(data)
	if err != nil {
		return Still{}, err
	}
	first, rest, err := nextChunk(buf)
	if err != nil {
		return Still{}, err
	}

	switch first.ID {
	case FourCCVP8, FourCCVP8L:
		return stillFromChunk(first, nil)
	case FourCCVP8X:
		flags, w, h, err := parseVP8X(first.Payload)
		if err != nil {
			return Still{}, err
		}
		if flags&FlagAnimation != 0 {
			return Still{}, fmt.Errorf("%w: animation passed as still", ErrInvalidChunk)
		}
		s, err := findStill(rest)
		if err != nil {
			return Still{}, err
		}
		if s.Width != w || s.Height != h {
			return Still{}, fmt.Errorf("%w: canvas %dx%d, image %dx%d", ErrBadBitstream, w, h, s.Width, s.Height)
		}
		return s, nil
	}
	return Still{}, fmt.Errorf("%w: unexpected first chunk %s", ErrInvalidChunk, first.ID)
}

// WrapStill builds a standalone WebP file around s.
// Stills with an ALPH payload use the extended layout.
func WrapStill(s Still) []byte {
	id := FourCCVP8
	if s.Lossless {
		id = FourCCVP8L
	}

	size := 4 + chunkSize(len(s.Image))
	if s.Alpha != nil {
		size += chunkSize(vp8xPayloadSize) + chunkSize(len(s.Alpha))
	}

	out := make([]byte, 0, chunkHeaderSize+size)
	out = binary.LittleEndian.AppendUint32(out, uint32(FourCCRIFF))
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	out = binary.LittleEndian.AppendUint32(out, uint32(FourCCWEBP))
	if s.Alpha != nil {
		out = appendChunk(out, FourCCVP8X, vp8xPayload(FlagAlpha, s.Width, s.Height))
		out = appendChunk(out, FourCCALPH, s.Alpha)
	}
	return appendChunk(out, id, s.Image)
}

// findStill scans extended-format chunks for ALPH and VP8/VP8L.
func findStill(buf []byte) (Still, error) {
	var alpha []byte
	for len(buf) > 0 {
		c, rest, err := nextChunk(buf)
		if err != nil {
			return Still{}, err
		}
		switch c.ID {
		case FourCCALPH:
			alpha = c.Payload
		case FourCCVP8, FourCCVP8L:
			return stillFromChunk(c, alpha)
		case FourCCANIM, FourCCANMF:
			return Still{}, fmt.Errorf("%w: %s in still image", ErrInvalidChunk, c.ID)
		}
		buf = rest
	}
	return Still{}, ErrNoImage
}

// stillFromChunk parses the bitstream header of an image chunk.
func stillFromChunk(c Chunk, alpha []byte) (Still, error) {
	s := Still{Image: c.Payload}
	var err error
	switch c.ID {
	case FourCCVP8L:
		if alpha != nil {
			return Still{}, fmt.Errorf("%w: ALPH with VP8L", ErrInvalidChunk)
		}
		s.Lossless = true
		s.Width, s.Height, s.HasAlpha, err = parseVP8LHeader(c.Payload)
	case FourCCVP8:
		s.Alpha = alpha
		s.HasAlpha = alpha != nil
		s.Width, s.Height, err = parseVP8Header(c.Payload)
	default:
		return Still{}, ErrNoImage
	}
	if err != nil {
		return Still{}, err
	}
	return s, nil
}

func parseVP8X(payload []byte) (flags uint8, width, height int, err error) {
	if len(payload) < vp8xPayloadSize {
		return 0, 0, 0, fmt.Errorf("%w: VP8X payload %d bytes", ErrInvalidChunk, len(payload))
	}
	// Reserved bits are ignored by readers.
	flags = payload[0] & validFlags
	return flags, 1 + readLE24(payload[4:7]), 1 + readLE24(payload[7:10]), nil
}

func vp8xPayload(flags uint8, width, height int) []byte {
	p := make([]byte, 4, vp8xPayloadSize)
	p[0] = flags
	p = appendLE24(p, width-1)
	return appendLE24(p, height-1)
}

// parseVP8Header reads a lossy keyframe header.
func parseVP8Header(b []byte) (width, height int, err error) {
	if len(b) < vp8HeaderSize {
		return 0, 0, fmt.Errorf("%w: VP8 header truncated", ErrBadBitstream)
	}
	if b[0]&1 != 0 {
		return 0, 0, fmt.Errorf("%w: VP8 frame is not a keyframe", ErrBadBitstream)
	}
	if sig := int(b[3])<<16 | int(b[4])<<8 | int(b[5]); sig != vp8Signature {
		return 0, 0, fmt.Errorf("%w: VP8 signature %#06x", ErrBadBitstream, sig)
	}
	width = int(binary.LittleEndian.Uint16(b[6:8]) & 0x3fff)
	height = int(binary.LittleEndian.Uint16(b[8:10]) & 0x3fff)
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("%w: VP8 zero dimension", ErrBadBitstream)
	}
	return width, height, nil
}

// parseVP8LHeader reads a lossless header: magic byte, then 14 bits width-1,
// 14 bits height-1, 1 alpha bit and a 3 bit version.
func parseVP8LHeader(b []byte) (width, height int, alpha bool, err error) {
	if len(b) < vp8lHeaderSize {
		return 0, 0, false, fmt.Errorf("%w: VP8L header truncated", ErrBadBitstream)
	}
	if b[0] != vp8lMagic {
		return 0, 0, false, fmt.Errorf("%w: VP8L magic %#02x", ErrBadBitstream, b[0])
	}
	bits := binary.LittleEndian.Uint32(b[1:5])
	if bits>>29 != 0 {
		return 0, 0, false, fmt.Errorf("%w: VP8L version %d", ErrBadBitstream, bits>>29)
	}
	width = int(bits&0x3fff) + 1
	height = int(bits>>14&0x3fff) + 1
	alpha = bits>>28&1 == 1
	return width, height, alpha, nil
}

// VP8LHeader encodes the five byte lossless header for the given size.
func VP8LHeader(width, height int, alpha bool) []byte {
	bits := uint32(width-1)&0x3fff | (uint32(height-1)&0x3fff)<<14
	if alpha {
		bits |= 1 << 28
	}
	return binary.LittleEndian.AppendUint32([]byte{vp8lMagic}, bits)
}
