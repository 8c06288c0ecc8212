package animation

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/user/webpkit/pkg/adapters/nativecodec"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/framecodec"
	"github.com/user/webpkit/pkg/mocks"
	"github.com/user/webpkit/pkg/picture"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/riff"
	"github.com/user/webpkit/pkg/webpdata"
	"github.com/user/webpkit/pkg/webperr"
)

func mockCodec() *framecodec.Codec {
	return framecodec.New(mocks.NewCodec(), nil)
}

func losslessConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.New(config.PresetDefault, config.Lossless(true))
	if err != nil {
		t.Fatalf("config.New failed: %v", err)
	}
	return cfg
}

// solidFrame returns an RGB frame whose pixels depend on seed.
func solidFrame(t *testing.T, w, h, seed int) *picture.Buffer {
	t.Helper()
	pic, err := picture.Allocate(w, h, picture.RGB)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	pix := pic.Bytes()
	for i := range pix {
		pix[i] = uint8(i/3 + seed*40 + i%3*7)
	}
	return pic
}

func encodeFrames(t *testing.T, codec *framecodec.Codec, frames []*picture.Buffer, timestamps []int, final int) *webpdata.Data {
	t.Helper()
	enc, err := NewEncoder(codec, frames[0].Width(), frames[0].Height(), DefaultEncoderOptions())
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	defer enc.Close()

	cfg := losslessConfig(t)
	for i, f := range frames {
		if err := enc.AddFrame(f, timestamps[i], cfg); err != nil {
			t.Fatalf("AddFrame %d failed: %v", i, err)
		}
	}
	data, err := enc.Assemble(final)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return data
}

func TestAnimation_RoundTrip(t *testing.T) {
	codec := framecodec.New(nativecodec.New(), nil)

	frames := make([]*picture.Buffer, 4)
	for i := range frames {
		frames[i] = solidFrame(t, 256, 64, i)
	}
	data := encodeFrames(t, codec, frames, []int{0, 250, 500, 750}, 1000)

	dec, err := Open(codec, data, DecoderOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dec.Close()

	info := dec.Info()
	want := Info{CanvasWidth: 256, CanvasHeight: 64, FrameCount: 4, LoopCount: 0, BackgroundColor: DefaultBackgroundColor}
	if info != want {
		t.Errorf("expected %+v, got %+v", want, info)
	}

	for i, wantEnd := range []int{250, 500, 750, 1000} {
		if !dec.HasNext() {
			t.Fatalf("expected frame %d", i)
		}
		pic, end, err := dec.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if end != wantEnd {
			t.Errorf("frame %d: expected end %d, got %d", i, wantEnd, end)
		}
		src, err := frames[i].Convert(picture.RGBA)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if !pic.Equal(src) {
			t.Errorf("frame %d: pixels differ from source", i)
		}
	}

	if dec.HasNext() {
		t.Error("expected no more frames")
	}
	if _, _, err := dec.Next(); !errors.Is(err, webperr.ErrState) {
		t.Errorf("expected ErrState past the end, got %v", err)
	}
}

func TestDecoder_UseThreadsMatchesSequential(t *testing.T) {
	codec := mockCodec()
	frames := make([]*picture.Buffer, 6)
	timestamps := make([]int, 6)
	for i := range frames {
		frames[i] = solidFrame(t, 16, 8, i)
		timestamps[i] = i * 40
	}
	data := encodeFrames(t, codec, frames, timestamps, 300)

	collect := func(opts DecoderOptions) ([]*picture.Buffer, []int) {
		dec, err := Open(codec, data, opts)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer dec.Close()
		var pics []*picture.Buffer
		var ends []int
		for dec.HasNext() {
			pic, end, err := dec.Next()
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			pics = append(pics, pic)
			ends = append(ends, end)
		}
		return pics, ends
	}

	seqPics, seqEnds := collect(DecoderOptions{})
	parPics, parEnds := collect(DecoderOptions{UseThreads: true, Workers: 3})

	if len(seqPics) != 6 || len(parPics) != 6 {
		t.Fatalf("expected 6 frames each, got %d and %d", len(seqPics), len(parPics))
	}
	for i := range seqPics {
		if seqEnds[i] != parEnds[i] {
			t.Errorf("frame %d: expected end %d, got %d", i, seqEnds[i], parEnds[i])
		}
		if !seqPics[i].Equal(parPics[i]) {
			t.Errorf("frame %d: threaded output differs", i)
		}
	}
	if parEnds[5] != 300 {
		t.Errorf("expected final end 300, got %d", parEnds[5])
	}
}

func TestEncoder_SequenceErrors(t *testing.T) {
	enc, err := NewEncoder(mockCodec(), 4, 4, DefaultEncoderOptions())
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	defer enc.Close()
	cfg := losslessConfig(t)

	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), -1, cfg); !errors.Is(err, webperr.ErrSequence) {
		t.Errorf("expected ErrSequence for negative timestamp, got %v", err)
	}
	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), 100, cfg); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	for _, ts := range []int{100, 50} {
		if err := enc.AddFrame(solidFrame(t, 4, 4, 1), ts, cfg); !errors.Is(err, webperr.ErrSequence) {
			t.Errorf("ts %d: expected ErrSequence, got %v", ts, err)
		}
	}
}

func TestEncoder_DimensionErrors(t *testing.T) {
	if _, err := NewEncoder(mockCodec(), 0, 4, DefaultEncoderOptions()); !errors.Is(err, webperr.ErrDimension) {
		t.Errorf("expected ErrDimension for empty canvas, got %v", err)
	}
	if _, err := NewEncoder(mockCodec(), 4, picture.MaxDimension+1, DefaultEncoderOptions()); !errors.Is(err, webperr.ErrDimension) {
		t.Errorf("expected ErrDimension for tall canvas, got %v", err)
	}

	enc, err := NewEncoder(mockCodec(), 4, 4, DefaultEncoderOptions())
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.AddFrame(solidFrame(t, 4, 2, 0), 0, losslessConfig(t)); !errors.Is(err, webperr.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestEncoder_AssemblyErrors(t *testing.T) {
	enc, err := NewEncoder(mockCodec(), 4, 4, DefaultEncoderOptions())
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if _, err := enc.Assemble(100); !errors.Is(err, webperr.ErrAssembly) {
		t.Errorf("expected ErrAssembly with zero frames, got %v", err)
	}

	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), 100, losslessConfig(t)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	if _, err := enc.Assemble(100); !errors.Is(err, webperr.ErrAssembly) {
		t.Errorf("expected ErrAssembly for final == last, got %v", err)
	}
	if _, err := enc.Assemble(100 + riff.MaxDuration + 1); !errors.Is(err, webperr.ErrAssembly) {
		t.Errorf("expected ErrAssembly for long duration, got %v", err)
	}
}

func TestEncoder_StateAfterAssemble(t *testing.T) {
	enc, err := NewEncoder(mockCodec(), 4, 4, DefaultEncoderOptions())
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), 0, losslessConfig(t)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	if _, err := enc.Assemble(100); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if err := enc.AddFrame(solidFrame(t, 4, 4, 1), 200, losslessConfig(t)); !errors.Is(err, webperr.ErrState) {
		t.Errorf("expected ErrState from AddFrame, got %v", err)
	}
	if _, err := enc.Assemble(300); !errors.Is(err, webperr.ErrState) {
		t.Errorf("expected ErrState from Assemble, got %v", err)
	}
	enc.Close()
	enc.Close()
}

func TestEncoder_MergesIdenticalFrames(t *testing.T) {
	codec := mockCodec()
	a, b := solidFrame(t, 8, 8, 0), solidFrame(t, 8, 8, 1)
	data := encodeFrames(t, codec, []*picture.Buffer{a, a.Clone(), b}, []int{0, 100, 200}, 300)

	dec, err := Open(codec, data, DecoderOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dec.Close()

	if dec.Info().FrameCount != 2 {
		t.Fatalf("expected 2 frames, got %d", dec.Info().FrameCount)
	}
	_, end, err := dec.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if end != 200 {
		t.Errorf("expected merged frame to end at 200, got %d", end)
	}
}

func TestEncoder_AllowMixedKeepsSmaller(t *testing.T) {
	engine := mocks.NewCodec()
	codec := framecodec.New(engine, nil)

	opts := DefaultEncoderOptions()
	opts.AllowMixed = true
	enc, err := NewEncoder(codec, 4, 4, opts)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), 0, config.Default()); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	data, err := enc.Assemble(50)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if engine.EncodeCount() != 2 {
		t.Errorf("expected lossy and lossless encodes, got %d", engine.EncodeCount())
	}
	c, err := riff.Demux(data.Bytes())
	if err != nil {
		t.Fatalf("Demux failed: %v", err)
	}
	// The lossless variant carries no quality padding.
	if got := len(c.Frames[0].Still.Image); got != 5+4*4*4 {
		t.Errorf("expected the lossless payload, got %d bytes", got)
	}
}

func TestEncoder_ContainerOptions(t *testing.T) {
	codec := mockCodec()
	enc, err := NewEncoder(codec, 4, 4, EncoderOptions{LoopCount: 7, BackgroundColor: 0x80112233})
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.AddFrame(solidFrame(t, 4, 4, 0), 0, losslessConfig(t)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	data, err := enc.Assemble(10)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	dec, err := Open(codec, data, DecoderOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if info := dec.Info(); info.LoopCount != 7 || info.BackgroundColor != 0x80112233 {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := NewEncoder(codec, 4, 4, EncoderOptions{LoopCount: -1}); !errors.Is(err, webperr.ErrConfig) {
		t.Errorf("expected ErrConfig for negative loop count, got %v", err)
	}
}

func TestOpen_RejectsStill(t *testing.T) {
	still := mocks.RawEncode(image.NewNRGBA(image.Rect(0, 0, 4, 4)), ports.EncodeParams{Lossless: true})
	if _, err := Open(mockCodec(), webpdata.FromBytes(still), DecoderOptions{}); !errors.Is(err, webperr.ErrContainer) {
		t.Errorf("expected ErrContainer, got %v", err)
	}
}

func TestDecoder_CorruptFrame(t *testing.T) {
	m := &riff.Muxer{
		Width:  4,
		Height: 4,
		Frames: []riff.MuxFrame{{
			DurationMs: 100,
			Still:      riff.Still{Image: riff.VP8LHeader(4, 4, false), Lossless: true, Width: 4, Height: 4},
		}},
	}
	b, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	for _, threads := range []bool{false, true} {
		dec, err := Open(mockCodec(), webpdata.FromBytes(b), DecoderOptions{UseThreads: threads})
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if _, _, err := dec.Next(); !errors.Is(err, webperr.ErrDecoding) {
			t.Errorf("threads=%v: expected ErrDecoding, got %v", threads, err)
		}
	}
}

func rawStill(t *testing.T, img *image.NRGBA) riff.Still {
	t.Helper()
	s, err := riff.SplitStill(mocks.RawEncode(img, ports.EncodeParams{Lossless: true}))
	if err != nil {
		t.Fatalf("SplitStill failed: %v", err)
	}
	return s
}

func fill(w, h int, c [4]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], c[:])
	}
	return img
}

func TestDecoder_DisposeAndBlend(t *testing.T) {
	red := [4]uint8{255, 0, 0, 255}
	blue := [4]uint8{0, 0, 255, 255}
	halfRed := [4]uint8{255, 0, 0, 128}

	m := &riff.Muxer{
		Width:  4,
		Height: 2,
		Frames: []riff.MuxFrame{
			{DurationMs: 10, Dispose: riff.DisposeBackground, Blend: riff.BlendNone, Still: rawStill(t, fill(4, 2, red))},
			{X: 2, DurationMs: 10, Blend: riff.BlendAlpha, Still: rawStill(t, fill(2, 2, blue))},
			{X: 2, DurationMs: 10, Blend: riff.BlendAlpha, Still: rawStill(t, fill(2, 2, halfRed))},
		},
	}
	b, err := m.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	dec, err := Open(mockCodec(), webpdata.FromBytes(b), DecoderOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	at := func(pic *picture.Buffer, x, y int) [4]uint8 {
		o := y*pic.Stride() + x*4
		var px [4]uint8
		copy(px[:], pic.Bytes()[o:o+4])
		return px
	}

	first, _, _ := dec.Next()
	if got := at(first, 0, 0); got != red {
		t.Errorf("frame 0: expected red, got %v", got)
	}

	second, _, err := dec.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got := at(second, 0, 0); got != [4]uint8{} {
		t.Errorf("frame 1: expected disposed pixel to be transparent, got %v", got)
	}
	if got := at(second, 3, 1); got != blue {
		t.Errorf("frame 1: expected blue, got %v", got)
	}

	third, end, err := dec.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got := at(third, 2, 0); got != [4]uint8{127, 0, 126, 255} {
		t.Errorf("frame 2: expected blended pixel, got %v", got)
	}
	if end != 30 {
		t.Errorf("expected end 30, got %d", end)
	}

	dec.Reset()
	again, end, err := dec.Next()
	if err != nil {
		t.Fatalf("Next after Reset failed: %v", err)
	}
	if end != 10 || !again.Equal(first) {
		t.Errorf("expected Reset to replay frame 0, got end %d", end)
	}
}

func TestDecoder_Closed(t *testing.T) {
	codec := mockCodec()
	data := encodeFrames(t, codec, []*picture.Buffer{solidFrame(t, 2, 2, 0)}, []int{0}, 40)
	dec, err := Open(codec, data, DecoderOptions{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	dec.Close()
	dec.Close()
	dec.Reset()

	if dec.HasNext() {
		t.Error("expected HasNext to be false after Close")
	}
	if _, _, err := dec.Next(); !errors.Is(err, webperr.ErrState) {
		t.Errorf("expected ErrState, got %v", err)
	}
	if err := dec.Prefetch(context.Background()); !errors.Is(err, webperr.ErrState) {
		t.Errorf("expected ErrState from Prefetch, got %v", err)
	}
}
