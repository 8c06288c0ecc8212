// Package nativecodec provides a pure Go codec engine: lossless encoding with
// nativewebp and still decoding with golang.org/x/image/webp.
package nativecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
	xwebp "golang.org/x/image/webp"

	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webperr"
)

// ErrLossyUnsupported is returned for lossy encode requests.
var ErrLossyUnsupported = errors.New("nativecodec: lossy encoding not supported")

// Codec implements ports.Codec without cgo or WASM.
type Codec struct{}

// New creates a new Codec.
func New() *Codec {
	return &Codec{}
}

// EncodeFrame encodes img as a VP8L still. Quality and method are ignored.
func (c *Codec) EncodeFrame(img image.Image, params ports.EncodeParams) ([]byte, error) {
	if !params.Lossless {
		return nil, &ports.StatusError{Code: int(webperr.EncodeInvalidConfiguration), Err: ErrLossyUnsupported}
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, &ports.StatusError{Code: int(webperr.EncodeBadWrite), Err: fmt.Errorf("nativewebp: %w", err)}
	}
	return buf.Bytes(), nil
}

// DecodeFrame decodes a still VP8 or VP8L image.
func (c *Codec) DecodeFrame(data []byte) (image.Image, error) {
	img, err := xwebp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ports.StatusError{Code: int(webperr.StatusBitstreamError), Err: fmt.Errorf("x/image/webp: %w", err)}
	}
	return img, nil
}

// ProbeFeatures reads the container and bitstream headers.
func (c *Codec) ProbeFeatures(data []byte) (ports.Features, error) {
	return probe(data)
}

// Info describes the engine.
func (c *Codec) Info() ports.EngineInfo {
	return ports.EngineInfo{Name: "native", Backend: "nativewebp+x/image", Lossy: false}
}

func probe(data []byte) (ports.Features, error) {
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

// Ensure Codec implements ports.Codec
var _ ports.Codec = (*Codec)(nil)
