package encode

import (
	"context"
	"errors"
	"testing"

	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/mocks"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webperr"
)

func frame(t *testing.T, seed, ts int) pipeline.TimedFrame {
	t.Helper()
	pic, err := picture.Allocate(8, 4, picture.RGBA)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	for i := range pic.Bytes() {
		pic.Bytes()[i] = uint8(seed*31 + i)
	}
	return pipeline.TimedFrame{Picture: pic, TimestampMs: ts}
}

func TestStage_Execute(t *testing.T) {
	engine := mocks.NewCodec()
	stage := NewStage(framecodec.New(engine, nil), logger.NewNoop())

	input := pipeline.DefaultEncodeInput()
	input.Frames = []pipeline.TimedFrame{frame(t, 0, 0), frame(t, 1, 100), frame(t, 2, 200)}
	input.FinalMs = 1200
	input.LoopCount = 2

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if engine.EncodeCount() != 3 {
		t.Errorf("expected 3 EncodeFrame calls, got %d", engine.EncodeCount())
	}
	if result.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", result.FrameCount)
	}
	if result.DurationMs != 1200 {
		t.Errorf("expected duration 1200, got %d", result.DurationMs)
	}
	if result.FileSize != int64(result.Data.Size()) || result.FileSize == 0 {
		t.Errorf("expected file size %d, got %d", result.Data.Size(), result.FileSize)
	}

	c, err := riff.Demux(result.Data.Bytes())
	if err != nil {
		t.Fatalf("Demux failed: %v", err)
	}
	if c.LoopCount != 2 {
		t.Errorf("expected loop count 2, got %d", c.LoopCount)
	}
	wantDurations := []int{100, 100, 1000}
	for i, f := range c.Frames {
		if f.DurationMs != wantDurations[i] {
			t.Errorf("frame %d: expected %dms, got %dms", i, wantDurations[i], f.DurationMs)
		}
	}
}

func TestStage_Execute_EmptyFrames(t *testing.T) {
	stage := NewStage(framecodec.New(mocks.NewCodec(), nil), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.DefaultEncodeInput())
	if err == nil {
		t.Error("expected error for empty frames")
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	stage := NewStage(framecodec.New(mocks.NewCodec(), nil), logger.NewNoop())

	input := pipeline.DefaultEncodeInput()
	input.Frames = []pipeline.TimedFrame{frame(t, 0, 0), frame(t, 1, 100)}
	input.FinalMs = 200

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	if _, err := stage.Execute(ctx, input); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStage_Execute_ErrorsKeepKind(t *testing.T) {
	stage := NewStage(framecodec.New(mocks.NewCodec(), nil), logger.NewNoop())

	tests := []struct {
		name  string
		input pipeline.EncodeInput
		kind  error
	}{
		{
			"out of order",
			pipeline.EncodeInput{Frames: []pipeline.TimedFrame{frame(t, 0, 100), frame(t, 1, 50)}, FinalMs: 200, Config: pipeline.DefaultEncodeInput().Config},
			webperr.ErrSequence,
		},
		{
			"final before last",
			pipeline.EncodeInput{Frames: []pipeline.TimedFrame{frame(t, 0, 0), frame(t, 1, 100)}, FinalMs: 100, Config: pipeline.DefaultEncodeInput().Config},
			webperr.ErrAssembly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stage.Execute(context.Background(), tt.input)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}
