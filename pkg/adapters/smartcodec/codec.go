// Package smartcodec selects a codec engine by name and routes requests
// between the pure Go and libwebp engines with fallback support.
package smartcodec

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/adapters/nativecodec"
	"github.com/user/webpkit/pkg/adapters/wasmcodec"
	"github.com/user/webpkit/pkg/ports"
)

// Engine names a codec engine.
type Engine string

const (
	// EngineAuto routes lossless work to the native engine and lossy work to libwebp.
	EngineAuto Engine = "auto"
	// EngineNative uses nativewebp and x/image only. Lossy encoding is unavailable.
	EngineNative Engine = "native"
	// EngineWASM uses libwebp for everything.
	EngineWASM Engine = "wasm"
)

// ErrUnknownEngine is returned for unrecognized engine names.
var ErrUnknownEngine = errors.New("smartcodec: unknown engine")

// ParseEngine parses an engine name. The empty string selects EngineAuto.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(name)); e {
	case "":
		return EngineAuto, nil
	case EngineAuto, EngineNative, EngineWASM:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// Info contains information about the selected engine.
type Info struct {
	// Engine is the engine in use.
	Engine Engine
	// Backend describes the libraries behind it.
	Backend string
	// Lossy reports whether lossy encoding is available.
	Lossy bool
}

// New creates a codec for the named engine.
func New(engine Engine, log ports.Logger) (ports.Codec, Info, error) {
	if log == nil {
		log = logger.NewNoop()
	}

	var codec ports.Codec
	switch engine {
	case EngineAuto, "":
		codec = NewRouter(nativecodec.New(), wasmcodec.New(), log)
		engine = EngineAuto
	case EngineNative:
		codec = nativecodec.New()
	case EngineWASM:
		codec = wasmcodec.New()
	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}

	ei := codec.Info()
	return codec, Info{Engine: engine, Backend: ei.Backend, Lossy: ei.Lossy}, nil
}

// Router dispatches lossless encodes and all decodes to a primary engine and
// falls back to a secondary engine on failure. Lossy encodes always go to
// the secondary engine.
type Router struct {
	lossless ports.Codec
	lossy    ports.Codec
	log      ports.Logger
}

// NewRouter creates a Router.
func NewRouter(lossless, lossy ports.Codec, log ports.Logger) *Router {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Router{
		lossless: lossless,
		lossy:    lossy,
		log:      log.WithComponent("smartcodec"),
	}
}

// EncodeFrame encodes with the engine suited to params.
func (r *Router) EncodeFrame(img image.Image, params ports.EncodeParams) ([]byte, error) {
	if !params.Lossless {
		return r.lossy.EncodeFrame(img, params)
	}

	data, err := r.lossless.EncodeFrame(img, params)
	if err == nil {
		return data, nil
	}
	r.log.Warn("%s encode failed, falling back to %s: %v", r.lossless.Info().Name, r.lossy.Info().Name, err)
	return r.lossy.EncodeFrame(img, params)
}

// DecodeFrame decodes with the primary engine, then the secondary.
func (r *Router) DecodeFrame(data []byte) (image.Image, error) {
	img, err := r.lossless.DecodeFrame(data)
	if err == nil {
		return img, nil
	}
	r.log.Debug("%s decode failed, falling back to %s: %v", r.lossless.Info().Name, r.lossy.Info().Name, err)
	return r.lossy.DecodeFrame(data)
}

// ProbeFeatures reads headers with the primary engine.
func (r *Router) ProbeFeatures(data []byte) (ports.Features, error) {
	return r.lossless.ProbeFeatures(data)
}

// Info describes both engines.
func (r *Router) Info() ports.EngineInfo {
	a, b := r.lossless.Info(), r.lossy.Info()
	return ports.EngineInfo{
		Name:    string(EngineAuto),
		Backend: a.Backend + "+" + b.Backend,
		Lossy:   a.Lossy || b.Lossy,
	}
}

// Ensure Router implements ports.Codec
var _ ports.Codec = (*Router)(nil)
