// Package wasmcodec provides a codec engine backed by libwebp through
// github.com/gen2brain/webp (WASM, or a shared library when available).
package wasmcodec

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/gen2brain/webp"

	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webperr"
)

// dynamic reports whether a shared libwebp was loaded instead of the
// embedded WASM build.
var dynamic = webp.Dynamic

// maxLossyQuality keeps lossy output lossy; libwebp treats quality 100 as
// lossless.
const maxLossyQuality = 99

// Codec implements ports.Codec using libwebp.
type Codec struct{}

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// EncodeFrame encodes img as a lossy or lossless still.
func (c *Codec) EncodeFrame(img image.Image, params ports.EncodeParams) ([]byte, error) {
	opts := webp.Options{
		Quality:  quality(params),
		Lossless: params.Lossless,
		Method:   params.Method,
		Exact:    params.Exact,
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, &ports.StatusError{Code: int(webperr.EncodeBadWrite), Err: fmt.Errorf("libwebp: %w", err)}
	}
	return buf.Bytes(), nil
}

func quality(params ports.EncodeParams) int {
	q := int(math.Round(float64(params.Quality)))
	if !params.Lossless && q > maxLossyQuality {
		q = maxLossyQuality
	}
	return q
}

// DecodeFrame decodes a still image.
func (c *Codec) DecodeFrame(data []byte) (image.Image, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ports.StatusError{Code: int(webperr.StatusBitstreamError), Err: fmt.Errorf("libwebp: %w", err)}
	}
	return img, nil
}

// ProbeFeatures reads the container and bitstream headers.
func (c *Codec) ProbeFeatures(data []byte) (ports.Features, error) {
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

// Info describes the engine.
func (c *Codec) Info() ports.EngineInfo {
	backend := "libwebp/wasm"
	if dynamic() == nil {
		backend = "libwebp/shared"
	}
	return ports.EngineInfo{Name: "wasm", Backend: backend, Lossy: true}
}

// Ensure Codec implements ports.Codec
var _ ports.Codec = (*Codec)(nil)
