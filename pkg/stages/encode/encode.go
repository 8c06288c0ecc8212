// Package encode implements the animation encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/webperr"
)

// Stage encodes timed frames into an animated WebP.
type Stage struct {
	codec  *framecodec.Codec
	logger ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(codec *framecodec.Codec, logger ports.Logger) *Stage {
	return &Stage{
		codec:  codec,
		logger: logger.WithComponent("encode"),
	}
}

// Execute encodes all frames and assembles the animation.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Frames) == 0 {
		return result, webperr.New(webperr.ErrAssembly, "encode.Execute", "no frames to encode")
	}

	// Canvas size comes from the first frame
	first := input.Frames[0].Picture
	if first.Released() {
		return result, webperr.Encoding("encode.Execute", webperr.EncodeNullParameter, fmt.Errorf("first frame has been released"))
	}

	enc, err := animation.NewEncoder(s.codec, first.Width(), first.Height(), animation.EncoderOptions{
		LoopCount:       input.LoopCount,
		BackgroundColor: input.BackgroundColor,
		AllowMixed:      input.AllowMixed,
		Logger:          s.logger,
	})
	if err != nil {
		return result, fmt.Errorf("create encoder: %w", err)
	}
	defer enc.Close()

	s.logger.Debug("Encoding %d frames at %dx%d", len(input.Frames), first.Width(), first.Height())

	for _, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := enc.AddFrame(frame.Picture, frame.TimestampMs, input.Config); err != nil {
			return result, fmt.Errorf("encode frame at %dms: %w", frame.TimestampMs, err)
		}
	}

	data, err := enc.Assemble(input.FinalMs)
	if err != nil {
		return result, fmt.Errorf("assemble animation: %w", err)
	}

	result.Data = data
	result.DurationMs = input.FinalMs - input.Frames[0].TimestampMs
	result.FileSize = int64(data.Size())
	result.FrameCount = enc.FrameCount()

	s.logger.Debug("Encoded %d frames into %d bytes", result.FrameCount, result.FileSize)
	return result, nil
}
