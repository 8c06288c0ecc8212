package summarizer

import (
	"testing"
	"time"

	"github.com/user/webpkit/pkg/animation"
	"github.com/user/webpkit/pkg/riff"
)

// testContainer builds a two frame 16x8 animation: a lossless full frame
// followed by a lossy patch with alpha.
func testContainer(t *testing.T) (animation.Info, *riff.Container) {
	t.Helper()
	lossy := []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a, 4, 0, 2, 0, 0xaa}
	m := &riff.Muxer{
		Width:           16,
		Height:          8,
		LoopCount:       3,
		BackgroundColor: 0xff336699,
		Frames: []riff.MuxFrame{
			{DurationMs: 100, Blend: riff.BlendNone, Still: riff.Still{
				Image: append(riff.VP8LHeader(16, 8, false), 1, 2, 3), Lossless: true, Width: 16, Height: 8,
			}},
			{X: 2, Y: 4, DurationMs: 250, Dispose: riff.DisposeBackground, Still: riff.Still{
				Image: lossy, Alpha: []byte{0, 1}, HasAlpha: true, Width: 4, Height: 2,
			}},
		},
	}
	data, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	c, err := riff.Demux(data)
	if err != nil {
		t.Fatalf("Demux failed: %v", err)
	}
	info := animation.Info{
		CanvasWidth:     c.Width,
		CanvasHeight:    c.Height,
		FrameCount:      len(c.Frames),
		LoopCount:       c.LoopCount,
		BackgroundColor: c.BackgroundColor,
	}
	return info, c
}

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuild(t *testing.T) {
	info, c := testContainer(t)
	s := Build(info, c)

	if s.Canvas.Width != 16 || s.Canvas.Height != 8 || !s.Canvas.HasAlpha {
		t.Errorf("unexpected canvas %+v", s.Canvas)
	}
	if s.Animation.FrameCount != 2 || s.Animation.LoopCount != 3 {
		t.Errorf("unexpected animation %+v", s.Animation)
	}
	if s.Animation.DurationMs != 350 {
		t.Errorf("expected 350ms, got %d", s.Animation.DurationMs)
	}
	if s.Animation.FileSize != int64(c.Size) {
		t.Errorf("expected file size %d, got %d", c.Size, s.Animation.FileSize)
	}
	if len(s.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(s.Frames))
	}

	want := []FrameInfo{
		{Index: 0, Width: 16, Height: 8, DurationMs: 100, EndMs: 100, Bytes: 8, Codec: "VP8L", Blend: "none", Dispose: "none"},
		{Index: 1, X: 2, Y: 4, Width: 4, Height: 2, DurationMs: 250, EndMs: 350, Bytes: 13, Codec: "VP8+ALPH", Blend: "alpha", Dispose: "background"},
	}
	for i := range want {
		if s.Frames[i] != want[i] {
			t.Errorf("frame %d: expected %+v, got %+v", i, want[i], s.Frames[i])
		}
	}
}

func TestBuilder_WithSource(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	summary := NewBuilder().
		WithSource("anim.webp").
		WithGeneratedAt(at).
		Build()

	if summary.Source != "anim.webp" {
		t.Errorf("expected source 'anim.webp', got '%s'", summary.Source)
	}
	if !summary.GeneratedAt.Equal(at) {
		t.Errorf("expected %v, got %v", at, summary.GeneratedAt)
	}
}

func TestBuilder_WithAnimationNilContainer(t *testing.T) {
	summary := NewBuilder().
		WithAnimation(animation.Info{CanvasWidth: 4, CanvasHeight: 2, FrameCount: 1}, nil).
		Build()

	if summary.Canvas.Width != 4 || summary.Animation.FrameCount != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.Frames) != 0 {
		t.Errorf("expected no frame details, got %d", len(summary.Frames))
	}
}
