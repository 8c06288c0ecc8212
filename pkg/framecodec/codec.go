// Package framecodec is the single-frame encode and decode entry point.
// It validates inputs, drives the injected engine and maps engine failures
// onto the webperr taxonomy.
package framecodec

import (
	"errors"
	"fmt"
	"image"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/webpdata"
	"github.com/user/webpkit/pkg/webperr"
)

// Codec encodes and decodes still frames through an engine.
// It is safe for concurrent use if the engine is.
type Codec struct {
	engine ports.Codec
	logger ports.Logger
}

// New creates a frame codec over engine.
func New(engine ports.Codec, log ports.Logger) *Codec {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Codec{
		engine: engine,
		logger: log.WithComponent("framecodec"),
	}
}

// Engine returns the underlying engine.
func (c *Codec) Engine() ports.Codec {
	return c.engine
}

// Encode compresses pic into a still WebP.
func (c *Codec) Encode(pic *picture.Buffer, cfg config.Config) (*webpdata.Data, error) {
	const op = "framecodec.Encode"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pic.Released() {
		return nil, webperr.Encoding(op, webperr.EncodeNullParameter, errors.New("picture is nil or released"))
	}
	if pic.Width() > picture.MaxDimension || pic.Height() > picture.MaxDimension {
		return nil, webperr.Encoding(op, webperr.EncodeBadDimension,
			fmt.Errorf("%dx%d exceeds %d", pic.Width(), pic.Height(), picture.MaxDimension))
	}

	img := pic.Image()
	params := ports.EncodeParams{
		Lossless: cfg.Lossless,
		Quality:  cfg.Quality,
		Method:   cfg.Method,
		Exact:    cfg.Exact,
	}

	var (
		out []byte
		err error
	)
	if cfg.TargetSize > 0 && !cfg.Lossless {
		out, err = c.encodeToSize(img, params, cfg.TargetSize, cfg.Passes)
	} else {
		out, err = c.engine.EncodeFrame(img, params)
	}
	if err != nil {
		return nil, encodeError(op, err)
	}

	c.logger.Debug("Encoded %dx%d frame: %d bytes", pic.Width(), pic.Height(), len(out))
	return webpdata.FromBytes(out), nil
}

// encodeToSize bisects quality over passes encodes and keeps the largest
// output not exceeding target, or the smallest output when none fits.
func (c *Codec) encodeToSize(img image.Image, params ports.EncodeParams, target, passes int) ([]byte, error) {
	if passes < 1 {
		passes = 1
	}

	var best, smallest []byte
	lo, hi := float32(0), float32(100)
	for i := 0; i < passes; i++ {
		out, err := c.engine.EncodeFrame(img, params)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Size pass %d: quality %.1f gives %d bytes (target %d)", i+1, params.Quality, len(out), target)

		if smallest == nil || len(out) < len(smallest) {
			smallest = out
		}
		if len(out) <= target {
			if best == nil || len(out) > len(best) {
				best = out
			}
			lo = params.Quality
		} else {
			hi = params.Quality
		}
		params.Quality = (lo + hi) / 2
	}

	if best != nil {
		return best, nil
	}
	return smallest, nil
}

// Decode decompresses a still WebP into a new buffer with the given layout.
func (c *Codec) Decode(data *webpdata.Data, layout picture.Layout) (*picture.Buffer, error) {
	const op = "framecodec.Decode"

	if !layout.Decodable() {
		return nil, webperr.Newf(webperr.ErrUnsupportedLayout, op, "cannot decode into %s", layout)
	}
	if data.Released() {
		return nil, webperr.Decoding(op, webperr.StatusInvalidParam, errors.New("data is nil or released"))
	}

	f, err := c.engine.ProbeFeatures(data.Bytes())
	if err != nil {
		return nil, webperr.Decoding(op, webperr.StatusBitstreamError, err)
	}
	if f.IsAnimation {
		return nil, webperr.Decoding(op, webperr.StatusUnsupportedFeature, errors.New("animated bitstream"))
	}

	img, err := c.engine.DecodeFrame(data.Bytes())
	if err != nil {
		return nil, decodeError(op, err)
	}
	if b := img.Bounds(); b.Dx() != f.Width || b.Dy() != f.Height {
		return nil, webperr.Decoding(op, webperr.StatusBitstreamError,
			fmt.Errorf("decoded %dx%d, header says %dx%d", b.Dx(), b.Dy(), f.Width, f.Height))
	}

	pic, err := picture.FromImage(img, layout)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Decoded %dx%d frame into %s", f.Width, f.Height, layout)
	return pic, nil
}

// Probe reads the bitstream features of data.
func (c *Codec) Probe(data *webpdata.Data) (ports.Features, error) {
	if data.Released() {
		return ports.Features{}, webperr.Decoding("framecodec.Probe", webperr.StatusInvalidParam, errors.New("data is nil or released"))
	}
	f, err := c.engine.ProbeFeatures(data.Bytes())
	if err != nil {
		return ports.Features{}, webperr.Decoding("framecodec.Probe", webperr.StatusBitstreamError, err)
	}
	return f, nil
}

func encodeError(op string, err error) error {
	code := webperr.EncodeBadWrite
	var se *ports.StatusError
	if errors.As(err, &se) {
		code = webperr.EncodeStatus(se.Code)
	}
	return webperr.Encoding(op, code, err)
}

func decodeError(op string, err error) error {
	code := webperr.StatusBitstreamError
	var se *ports.StatusError
	if errors.As(err, &se) {
		code = webperr.StatusCode(se.Code)
	}
	return webperr.Decoding(op, code, err)
}
