// Package animation assembles and iterates animated WebP files.
//
// The Encoder is a three-state machine (empty, accumulating, assembled) that
// encodes each frame as it arrives and muxes the collected bitstreams on
// Assemble. The Decoder walks the frames of a container and composites them
// onto a canvas, yielding full-canvas RGBA pictures with end timestamps.
package animation

import (
	"fmt"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webpdata"
	"github.com/user/webpkit/pkg/webperr"
)

// DefaultBackgroundColor is opaque white in ARGB order.
const DefaultBackgroundColor uint32 = 0xFFFFFFFF

// EncoderOptions configures the container written by an Encoder.
type EncoderOptions struct {
	LoopCount       int    // 0 = infinite
	BackgroundColor uint32 // ARGB
	// AllowMixed encodes lossy frames a second time losslessly and keeps the
	// smaller bitstream.
	AllowMixed bool
	Logger     ports.Logger
}

// DefaultEncoderOptions returns infinite looping on a white background.
func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{BackgroundColor: DefaultBackgroundColor}
}

type encoderState int

const (
	stateEmpty encoderState = iota
	stateAccumulating
	stateAssembled
)

type encodedFrame struct {
	still     riff.Still
	timestamp int
}

// Encoder accumulates frames for one animation. It is not safe for
// concurrent use.
type Encoder struct {
	codec  *framecodec.Codec
	width  int
	height int
	opts   EncoderOptions
	logger ports.Logger

	state  encoderState
	frames []encodedFrame
	lastTs int
	prev   *picture.Buffer // pixels of the last added frame
	merged int
}

// NewEncoder creates an encoder for a width x height canvas.
func NewEncoder(codec *framecodec.Codec, width, height int, opts EncoderOptions) (*Encoder, error) {
	const op = "animation.NewEncoder"
	if width < 1 || height < 1 || width > picture.MaxDimension || height > picture.MaxDimension {
		return nil, webperr.Newf(webperr.ErrDimension, op, "canvas %dx%d out of range [1,%d]", width, height, picture.MaxDimension)
	}
	if opts.LoopCount < 0 || opts.LoopCount > riff.MaxLoopCount {
		return nil, webperr.Newf(webperr.ErrConfig, op, "invalid configuration: loop count %d", opts.LoopCount)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	return &Encoder{
		codec:  codec,
		width:  width,
		height: height,
		opts:   opts,
		logger: log.WithComponent("animation"),
		lastTs: -1,
	}, nil
}

// FrameCount returns the number of distinct frames added so far.
func (e *Encoder) FrameCount() int {
	return len(e.frames)
}

// AddFrame encodes pic and appends it at timestampMs.
// Timestamps must be non-negative and strictly increasing. A frame whose
// pixels equal the previous frame is merged into it.
func (e *Encoder) AddFrame(pic *picture.Buffer, timestampMs int, cfg config.Config) error {
	const op = "animation.AddFrame"

	if e.state == stateAssembled {
		return webperr.New(webperr.ErrState, op, "encoder already assembled")
	}
	if timestampMs < 0 {
		return webperr.Newf(webperr.ErrSequence, op, "negative timestamp %d", timestampMs)
	}
	if timestampMs <= e.lastTs {
		return webperr.Newf(webperr.ErrSequence, op, "timestamp %d not after %d", timestampMs, e.lastTs)
	}
	if pic.Released() {
		return webperr.Encoding(op, webperr.EncodeNullParameter, fmt.Errorf("picture is nil or released"))
	}
	if pic.Width() != e.width || pic.Height() != e.height {
		return webperr.Newf(webperr.ErrDimension, op, "frame %dx%d, canvas %dx%d", pic.Width(), pic.Height(), e.width, e.height)
	}

	if e.prev != nil && e.prev.Equal(pic) {
		e.lastTs = timestampMs
		e.merged++
		e.logger.Debug("Frame at %d ms matches previous frame, merged", timestampMs)
		return nil
	}

	still, err := e.encode(pic, cfg)
	if err != nil {
		return err
	}

	e.frames = append(e.frames, encodedFrame{still: still, timestamp: timestampMs})
	e.lastTs = timestampMs
	e.state = stateAccumulating

	e.prev.Release()
	e.prev = pic.Clone()
	return nil
}

func (e *Encoder) encode(pic *picture.Buffer, cfg config.Config) (riff.Still, error) {
	const op = "animation.AddFrame"

	data, err := e.codec.Encode(pic, cfg)
	if err != nil {
		return riff.Still{}, err
	}
	defer data.Release()

	if e.opts.AllowMixed && !cfg.Lossless {
		alt := cfg
		alt.Lossless = true
		alt.TargetSize = 0
		other, err := e.codec.Encode(pic, alt)
		if err != nil {
			return riff.Still{}, err
		}
		defer other.Release()
		if other.Size() < data.Size() {
			data = other
		}
	}

	still, err := riff.SplitStill(data.Bytes())
	if err != nil {
		return riff.Still{}, webperr.Encoding(op, webperr.EncodeBadWrite, err)
	}
	if still.Width != e.width || still.Height != e.height {
		return riff.Still{}, webperr.Encoding(op, webperr.EncodeBadDimension,
			fmt.Errorf("engine produced %dx%d for a %dx%d canvas", still.Width, still.Height, e.width, e.height))
	}

	// Detach from data, which is released on return.
	still.Image = append([]byte(nil), still.Image...)
	if still.Alpha != nil {
		still.Alpha = append([]byte(nil), still.Alpha...)
	}
	return still, nil
}

// Assemble closes the sequence at finalTimestampMs and returns the encoded
// animation. Each frame lasts until the next frame's timestamp.
func (e *Encoder) Assemble(finalTimestampMs int) (*webpdata.Data, error) {
	const op = "animation.Assemble"

	if e.state == stateAssembled {
		return nil, webperr.New(webperr.ErrState, op, "encoder already assembled")
	}
	if len(e.frames) == 0 {
		return nil, webperr.New(webperr.ErrAssembly, op, "no frames added")
	}
	if finalTimestampMs <= e.lastTs {
		return nil, webperr.Newf(webperr.ErrAssembly, op, "final timestamp %d not after %d", finalTimestampMs, e.lastTs)
	}

	m := &riff.Muxer{
		Width:           e.width,
		Height:          e.height,
		LoopCount:       e.opts.LoopCount,
		BackgroundColor: e.opts.BackgroundColor,
		Frames:          make([]riff.MuxFrame, len(e.frames)),
	}
	for i, f := range e.frames {
		end := finalTimestampMs
		if i+1 < len(e.frames) {
			end = e.frames[i+1].timestamp
		}
		duration := end - f.timestamp
		if duration > riff.MaxDuration {
			return nil, webperr.Newf(webperr.ErrAssembly, op, "frame %d duration %d ms exceeds %d", i, duration, riff.MaxDuration)
		}
		m.Frames[i] = riff.MuxFrame{
			DurationMs: duration,
			Dispose:    riff.DisposeNone,
			Blend:      riff.BlendNone,
			Still:      f.still,
		}
	}

	w := webpdata.NewWriter(0)
	if _, err := m.WriteTo(w); err != nil {
		return nil, webperr.Wrap(webperr.ErrAssembly, op, err)
	}
	data, err := w.Done()
	if err != nil {
		return nil, webperr.Wrap(webperr.ErrAssembly, op, err)
	}

	e.state = stateAssembled
	e.prev.Release()
	e.prev = nil

	e.logger.Debug("Assembled %d frames (%d merged), %d bytes", len(m.Frames), e.merged, data.Size())
	return data, nil
}

// Close releases retained pixels. It is safe to call more than once.
func (e *Encoder) Close() {
	e.prev.Release()
	e.prev = nil
	e.frames = nil
}
