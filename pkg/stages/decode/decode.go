// Package decode implements the animation decoding stage.
package decode

import (
	"context"
	"fmt"

	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/webperr"
)

// Stage decodes an animated WebP into full-canvas frames.
type Stage struct {
	codec  *framecodec.Codec
	sink   ports.FrameSink
	logger ports.Logger
}

// NewStage creates a new decode stage. Decoded frames are also handed to
// sink when it is enabled.
func NewStage(codec *framecodec.Codec, sink ports.FrameSink, logger ports.Logger) *Stage {
	return &Stage{
		codec:  codec,
		sink:   sink,
		logger: logger.WithComponent("decode"),
	}
}

// Execute decodes every frame, converts it to the requested layout and
// optionally resamples to a constant frame rate.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	if !input.Layout.Decodable() {
		return result, webperr.Newf(webperr.ErrUnsupportedLayout, "decode.Execute", "layout %s is not decodable", input.Layout)
	}

	dec, err := animation.Open(s.codec, input.Data, animation.DecoderOptions{
		UseThreads: input.UseThreads,
		Workers:    input.Workers,
		Logger:     s.logger,
	})
	if err != nil {
		return result, fmt.Errorf("open animation: %w", err)
	}
	defer dec.Close()

	result.Info = dec.Info()
	s.logger.Debug("Decoding %d frames", result.Info.FrameCount)

	if input.UseThreads {
		if err := dec.Prefetch(ctx); err != nil {
			return result, fmt.Errorf("prefetch frames: %w", err)
		}
	}

	frames := make([]pipeline.DecodedFrame, 0, result.Info.FrameCount)
	release := func() {
		for _, f := range frames {
			f.Picture.Release()
		}
	}

	for dec.HasNext() {
		select {
		case <-ctx.Done():
			release()
			return result, ctx.Err()
		default:
		}

		canvas, end, err := dec.Next()
		if err != nil {
			release()
			return result, fmt.Errorf("decode frame %d: %w", len(frames), err)
		}

		pic := canvas
		if input.Layout != picture.RGBA {
			pic, err = canvas.Convert(input.Layout)
			canvas.Release()
			if err != nil {
				release()
				return result, fmt.Errorf("convert frame %d: %w", len(frames), err)
			}
		}
		frames = append(frames, pipeline.DecodedFrame{Picture: pic, EndMs: end})

		if s.sink.Enabled() {
			if err := s.sink.SaveFrame(len(frames)-1, pic.Image()); err != nil {
				s.logger.Warn("Failed to save frame %d: %v", len(frames)-1, err)
			}
		}
	}

	if input.FPS != nil {
		resampled, err := resample(frames, *input.FPS)
		if err != nil {
			release()
			return result, fmt.Errorf("resample: %w", err)
		}
		s.logger.Debug("Resampled %d frames to %d at %.2f fps", len(frames), len(resampled), *input.FPS)
		frames = resampled
	}

	result.Frames = frames
	return result, nil
}

// resample maps frames onto the fps grid. Each slot gets its own buffer and
// frames that land in no slot are released.
func resample(frames []pipeline.DecodedFrame, fps float64) ([]pipeline.DecodedFrame, error) {
	ends := make([]int, len(frames))
	for i, f := range frames {
		ends[i] = f.EndMs
	}
	slots, err := animation.Resample(ends, fps)
	if err != nil {
		return nil, err
	}

	used := make([]bool, len(frames))
	out := make([]pipeline.DecodedFrame, len(slots))
	for i, idx := range slots {
		f := frames[idx]
		if used[idx] {
			f.Picture = f.Picture.Clone()
		}
		used[idx] = true
		out[i] = f
	}
	for i, f := range frames {
		if !used[i] {
			f.Picture.Release()
		}
	}
	return out, nil
}
