package ports

import (
	"fmt"
	"image"
)

// Features summarizes a bitstream without decoding its pixels.
type Features struct {
	Width       int
	Height      int
	HasAlpha    bool
	IsAnimation bool
	Lossless    bool
}

// EncodeParams carries the engine-facing subset of a codec configuration.
type EncodeParams struct {
	Lossless bool
	Quality  float32 // 0-100
	Method   int     // 0-6
	Exact    bool
}

// EngineInfo describes a codec engine.
type EngineInfo struct {
	Name    string
	Backend string
	Lossy   bool // can produce VP8 output
}

// Codec abstracts the compression engine.
// Implementations are shared process-wide and must be safe for concurrent
// use on distinct inputs.
type Codec interface {
	// EncodeFrame compresses img into a complete still WebP file.
	EncodeFrame(img image.Image, params EncodeParams) ([]byte, error)

	// DecodeFrame decompresses a still WebP file.
	DecodeFrame(data []byte) (image.Image, error)

	// ProbeFeatures reads the bitstream header.
	ProbeFeatures(data []byte) (Features, error)

	// Info returns the engine description.
	Info() EngineInfo
}

// StatusError is an engine failure carrying a native status code.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v (status %d)", e.Err, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }
