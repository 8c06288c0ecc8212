package wasmcodec

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/webpkit/pkg/ports"
)

func TestCodec_LossyEncodeDecode(t *testing.T) {
	c := New()
	src := image.NewNRGBA(image.Rect(0, 0, 48, 24))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	data, err := c.EncodeFrame(src, ports.EncodeParams{Quality: 75, Method: 4})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	f, err := c.ProbeFeatures(data)
	if err != nil {
		t.Fatalf("ProbeFeatures failed: %v", err)
	}
	if f.Width != 48 || f.Height != 24 || f.Lossless {
		t.Errorf("unexpected features %+v", f)
	}

	img, err := c.DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 24 {
		t.Errorf("expected 48x24, got %v", img.Bounds())
	}
}

func TestCodec_Lossless(t *testing.T) {
	c := New()
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 90, A: 255})
		}
	}

	data, err := c.EncodeFrame(src, ports.EncodeParams{Lossless: true, Quality: 75, Method: 4})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	f, err := c.ProbeFeatures(data)
	if err != nil {
		t.Fatalf("ProbeFeatures failed: %v", err)
	}
	if !f.Lossless {
		t.Errorf("expected lossless bitstream, got %+v", f)
	}
}

func TestCodec_Info(t *testing.T) {
	info := New().Info()
	if info.Name != "wasm" || !info.Lossy {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestCodec_InfoBackend(t *testing.T) {
	orig := dynamic
	defer func() { dynamic = orig }()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"shared library", nil, "libwebp/shared"},
		{"wasm", errors.New("libwebp not found"), "libwebp/wasm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dynamic = func() error { return tt.err }
			if got := New().Info().Backend; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		name   string
		params ports.EncodeParams
		want   int
	}{
		{"lossy", ports.EncodeParams{Quality: 75}, 75},
		{"lossy rounds", ports.EncodeParams{Quality: 80.6}, 81},
		{"lossy max stays lossy", ports.EncodeParams{Quality: 100}, 99},
		{"lossless keeps 100", ports.EncodeParams{Quality: 100, Lossless: true}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quality(tt.params); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCodec_LossyQuality100(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	c := New()
	data, err := c.EncodeFrame(src, ports.EncodeParams{Quality: 100, Method: 4})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	f, err := c.ProbeFeatures(data)
	if err != nil {
		t.Fatalf("ProbeFeatures failed: %v", err)
	}
	if f.Lossless {
		t.Error("expected a lossy bitstream at quality 100")
	}
}
