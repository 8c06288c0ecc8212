package mocks

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webperr"
)

// Codec is a mock implementation of ports.Codec.
//
// Without hooks it acts as a deterministic engine: EncodeFrame stores raw
// NRGBA pixels behind a VP8L header inside a real RIFF container, and
// DecodeFrame reads them back. Lossy encodes append Quality padding bytes so
// output size grows with quality.
type Codec struct {
	mu sync.Mutex

	EncodeFrameFunc   func(img image.Image, params ports.EncodeParams) ([]byte, error)
	DecodeFrameFunc   func(data []byte) (image.Image, error)
	ProbeFeaturesFunc func(data []byte) (ports.Features, error)
	InfoValue         ports.EngineInfo

	// Recorded calls for verification
	EncodeCalls []ports.EncodeParams
	DecodeCalls int
	ProbeCalls  int
}

// NewCodec creates a mock Codec named "mock".
func NewCodec() *Codec {
	return &Codec{InfoValue: ports.EngineInfo{Name: "mock", Backend: "raw", Lossy: true}}
}

func (m *Codec) EncodeFrame(img image.Image, params ports.EncodeParams) ([]byte, error) {
	m.mu.Lock()
	m.EncodeCalls = append(m.EncodeCalls, params)
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img, params)
	}
	return RawEncode(img, params), nil
}

func (m *Codec) DecodeFrame(data []byte) (image.Image, error) {
	m.mu.Lock()
	m.DecodeCalls++
	m.mu.Unlock()
	if m.DecodeFrameFunc != nil {
		return m.DecodeFrameFunc(data)
	}
	img, err := RawDecode(data)
	if err != nil {
		return nil, &ports.StatusError{Code: int(webperr.StatusBitstreamError), Err: err}
	}
	return img, nil
}

func (m *Codec) ProbeFeatures(data []byte) (ports.Features, error) {
	m.mu.Lock()
	m.ProbeCalls++
	m.mu.Unlock()
	if m.ProbeFeaturesFunc != nil {
		return m.ProbeFeaturesFunc(data)
	}
	f, err := riff.Probe(data)
	if err != nil {
		return ports.Features{}, err
	}
	return ports.Features{
		Width:       f.Width,
		Height:      f.Height,
		HasAlpha:    f.HasAlpha,
		IsAnimation: f.IsAnimation,
		Lossless:    f.Lossless,
	}, nil
}

func (m *Codec) Info() ports.EngineInfo {
	return m.InfoValue
}

// EncodeCount returns the number of EncodeFrame calls.
func (m *Codec) EncodeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.EncodeCalls)
}

var _ ports.Codec = (*Codec)(nil)

// RawEncode builds a still WebP whose VP8L payload is the header followed by
// uncompressed NRGBA pixels.
func RawEncode(img image.Image, params ports.EncodeParams) []byte {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+b.Dx()*4], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	} else {
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	alpha := false
	for i := 3; i < len(nrgba.Pix); i += 4 {
		if nrgba.Pix[i] != 0xff {
			alpha = true
			break
		}
	}

	payload := append(riff.VP8LHeader(b.Dx(), b.Dy(), alpha), nrgba.Pix...)
	if !params.Lossless {
		payload = append(payload, make([]byte, int(params.Quality))...)
	}
	return riff.WrapStill(riff.Still{
		Image:    payload,
		Lossless: true,
		HasAlpha: alpha,
		Width:    b.Dx(),
		Height:   b.Dy(),
	})
}

// RawDecode reverses RawEncode.
func RawDecode(data []byte) (image.Image, error) {
	s, err := riff.SplitStill(data)
	if err != nil {
		return nil, err
	}
	if !s.Lossless {
		return nil, errors.New("mock codec: not a raw VP8L still")
	}
	pix := s.Image[5:]
	want := s.Width * s.Height * 4
	if len(pix) < want {
		return nil, fmt.Errorf("mock codec: %d pixel bytes, want %d", len(pix), want)
	}
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	copy(img.Pix, pix[:want])
	return img, nil
}
