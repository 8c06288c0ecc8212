package nativecodec

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/webperr"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestCodec_LosslessRoundTrip(t *testing.T) {
	c := New()
	src := testImage(32, 16)

	data, err := c.EncodeFrame(src, ports.EncodeParams{Lossless: true})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	f, err := c.ProbeFeatures(data)
	if err != nil {
		t.Fatalf("ProbeFeatures failed: %v", err)
	}
	if f.Width != 32 || f.Height != 16 || !f.Lossless || f.IsAnimation {
		t.Errorf("unexpected features %+v", f)
	}

	img, err := c.DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			want := src.NRGBAAt(x, y)
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestCodec_LossyUnsupported(t *testing.T) {
	_, err := New().EncodeFrame(testImage(2, 2), ports.EncodeParams{Quality: 75})
	if !errors.Is(err, ErrLossyUnsupported) {
		t.Fatalf("expected ErrLossyUnsupported, got %v", err)
	}
	var se *ports.StatusError
	if !errors.As(err, &se) || se.Code != int(webperr.EncodeInvalidConfiguration) {
		t.Errorf("expected INVALID_CONFIGURATION status, got %v", err)
	}
}

func TestCodec_DecodeGarbage(t *testing.T) {
	_, err := New().DecodeFrame([]byte("RIFF\x04\x00\x00\x00WEBP"))
	var se *ports.StatusError
	if !errors.As(err, &se) || se.Code != int(webperr.StatusBitstreamError) {
		t.Errorf("expected BITSTREAM_ERROR status, got %v", err)
	}
}

func TestCodec_Info(t *testing.T) {
	info := New().Info()
	if info.Name != "native" || info.Lossy {
		t.Errorf("unexpected info %+v", info)
	}
}
