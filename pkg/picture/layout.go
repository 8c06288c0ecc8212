package picture

import "fmt"

// Layout identifies the byte order and packing of pixels in a Buffer.
type Layout int

const (
	RGB Layout = iota
	RGBA
	BGR
	BGRA
	ARGB
	RGBAPremultiplied // rgbA
	BGRAPremultiplied // bgrA
	ARGBPremultiplied // Argb
	RGBA4444
	RGBA4444Premultiplied // rgbA_4444
	RGB565
	YUV  // planar 4:2:0
	YUVA // planar 4:2:0 with a full resolution alpha plane

	layoutCount
)

var layoutNames = [...]string{
	RGB:                   "RGB",
	RGBA:                  "RGBA",
	BGR:                   "BGR",
	BGRA:                  "BGRA",
	ARGB:                  "ARGB",
	RGBAPremultiplied:     "rgbA",
	BGRAPremultiplied:     "bgrA",
	ARGBPremultiplied:     "Argb",
	RGBA4444:              "RGBA_4444",
	RGBA4444Premultiplied: "rgbA_4444",
	RGB565:                "RGB_565",
	YUV:                   "YUV",
	YUVA:                  "YUVA",
}

// String returns the canonical layout name.
func (l Layout) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

// ParseLayout maps a canonical name ("RGB", "rgbA", "RGB_565", ...) to a Layout.
func ParseLayout(name string) (Layout, bool) {
	for i, n := range layoutNames {
		if n == name {
			return Layout(i), true
		}
	}
	return 0, false
}

// Valid reports whether l is a recognized layout.
func (l Layout) Valid() bool {
	return l >= 0 && l < layoutCount
}

// Planar reports whether l stores separate Y, U, V (and A) planes.
func (l Layout) Planar() bool {
	return l == YUV || l == YUVA
}

// Decodable reports whether frames can be decoded directly into l.
// Planar layouts are excluded.
func (l Layout) Decodable() bool {
	return l.Valid() && !l.Planar()
}

// HasAlpha reports whether l carries an alpha channel.
func (l Layout) HasAlpha() bool {
	switch l {
	case RGB, BGR, RGB565, YUV:
		return false
	}
	return l.Valid()
}

// Premultiplied reports whether color channels are premultiplied by alpha.
func (l Layout) Premultiplied() bool {
	switch l {
	case RGBAPremultiplied, BGRAPremultiplied, ARGBPremultiplied, RGBA4444Premultiplied:
		return true
	}
	return false
}

// BytesPerPixel returns the packed pixel size, or 0 for planar and unknown layouts.
func (l Layout) BytesPerPixel() int {
	switch l {
	case RGB, BGR:
		return 3
	case RGBA, BGRA, ARGB, RGBAPremultiplied, BGRAPremultiplied, ARGBPremultiplied:
		return 4
	case RGBA4444, RGBA4444Premultiplied, RGB565:
		return 2
	}
	return 0
}

// BufferSize returns the number of bytes a width x height picture occupies.
func (l Layout) BufferSize(width, height int) int {
	if l.Planar() {
		cw, ch := chromaSize(width, height)
		size := width*height + 2*cw*ch
		if l == YUVA {
			size += width * height
		}
		return size
	}
	return width * height * l.BytesPerPixel()
}

func chromaSize(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}
