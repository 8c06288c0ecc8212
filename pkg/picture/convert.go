package picture

import (
	"image"
	"image/color"

	"github.com/user/webpkit/pkg/webperr"
)

// Image returns the pixels as an image.Image.
// Packed layouts are converted to *image.NRGBA; planar layouts share the
// buffer memory through *image.YCbCr or *image.NYCbCrA.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	if b.layout.Planar() {
		ysize := b.width * b.height
		cw, ch := chromaSize(b.width, b.height)
		csize := cw * ch
		ycc := image.YCbCr{
			Y:              b.pix[:ysize],
			Cb:             b.pix[ysize : ysize+csize],
			Cr:             b.pix[ysize+csize : ysize+2*csize],
			YStride:        b.width,
			CStride:        cw,
			SubsampleRatio: image.YCbCrSubsampleRatio420,
			Rect:           rect,
		}
		if b.layout == YUV {
			return &ycc
		}
		return &image.NYCbCrA{
			YCbCr:   ycc,
			A:       b.pix[ysize+2*csize:],
			AStride: b.width,
		}
	}

	img := image.NewNRGBA(rect)
	if b.layout == RGBA {
		copy(img.Pix, b.pix)
		return img
	}

	bpp := b.layout.BytesPerPixel()
	for i, j := 0, 0; i < len(b.pix); i, j = i+bpp, j+4 {
		c := b.layout.get(b.pix[i : i+bpp])
		img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// FromImage converts img into a new buffer with the given packed layout.
func FromImage(img image.Image, layout Layout) (*Buffer, error) {
	if !layout.Decodable() {
		return nil, webperr.Newf(webperr.ErrUnsupportedLayout, "picture.FromImage", "layout %s", layout)
	}

	bounds := img.Bounds()
	b, err := Allocate(bounds.Dx(), bounds.Dy(), layout)
	if err != nil {
		return nil, err
	}

	bpp := layout.BytesPerPixel()
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			dst := b.pix[y*b.stride:]
			if layout == RGBA {
				copy(dst[:b.stride], row[:b.width*4])
				continue
			}
			for x := 0; x < b.width; x++ {
				p := row[x*4 : x*4+4]
				layout.set(dst[x*bpp:x*bpp+bpp], color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
			}
		}
		return b, nil
	}

	for y := 0; y < b.height; y++ {
		dst := b.pix[y*b.stride:]
		for x := 0; x < b.width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			layout.set(dst[x*bpp:x*bpp+bpp], c)
		}
	}
	return b, nil
}

// Convert returns a copy of b in another packed layout.
func (b *Buffer) Convert(layout Layout) (*Buffer, error) {
	if b.Released() {
		return nil, webperr.New(webperr.ErrAllocation, "picture.Convert", "buffer has been released")
	}
	if layout == b.layout {
		return b.Clone(), nil
	}
	return FromImage(b.Image(), layout)
}

// get decodes one packed pixel into non-premultiplied RGBA.
func (l Layout) get(p []byte) color.NRGBA {
	switch l {
	case RGB:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xff}
	case BGR:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: 0xff}
	case RGBA:
		return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	case BGRA:
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	case ARGB:
		return color.NRGBA{R: p[1], G: p[2], B: p[3], A: p[0]}
	case RGBAPremultiplied:
		return unpremultiply(p[0], p[1], p[2], p[3])
	case BGRAPremultiplied:
		return unpremultiply(p[2], p[1], p[0], p[3])
	case ARGBPremultiplied:
		return unpremultiply(p[1], p[2], p[3], p[0])
	case RGBA4444:
		return color.NRGBA{R: p[0] >> 4 * 17, G: p[0] & 0x0f * 17, B: p[1] >> 4 * 17, A: p[1] & 0x0f * 17}
	case RGBA4444Premultiplied:
		return unpremultiply(p[0]>>4*17, p[0]&0x0f*17, p[1]>>4*17, p[1]&0x0f*17)
	case RGB565:
		r5 := p[0] >> 3
		g6 := (p[0]&0x07)<<3 | p[1]>>5
		b5 := p[1] & 0x1f
		return color.NRGBA{R: r5<<3 | r5>>2, G: g6<<2 | g6>>4, B: b5<<3 | b5>>2, A: 0xff}
	}
	return color.NRGBA{}
}

// set encodes a non-premultiplied color into one packed pixel.
func (l Layout) set(p []byte, c color.NRGBA) {
	switch l {
	case RGB:
		p[0], p[1], p[2] = c.R, c.G, c.B
	case BGR:
		p[0], p[1], p[2] = c.B, c.G, c.R
	case RGBA:
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	case BGRA:
		p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
	case ARGB:
		p[0], p[1], p[2], p[3] = c.A, c.R, c.G, c.B
	case RGBAPremultiplied:
		p[0], p[1], p[2], p[3] = premul(c.R, c.A), premul(c.G, c.A), premul(c.B, c.A), c.A
	case BGRAPremultiplied:
		p[0], p[1], p[2], p[3] = premul(c.B, c.A), premul(c.G, c.A), premul(c.R, c.A), c.A
	case ARGBPremultiplied:
		p[0], p[1], p[2], p[3] = c.A, premul(c.R, c.A), premul(c.G, c.A), premul(c.B, c.A)
	case RGBA4444:
		p[0] = c.R&0xf0 | c.G>>4
		p[1] = c.B&0xf0 | c.A>>4
	case RGBA4444Premultiplied:
		p[0] = premul(c.R, c.A)&0xf0 | premul(c.G, c.A)>>4
		p[1] = premul(c.B, c.A)&0xf0 | c.A>>4
	case RGB565:
		p[0] = c.R&0xf8 | c.G>>5
		p[1] = (c.G<<3)&0xe0 | c.B>>3
	}
}

func premul(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

func unpremultiply(r, g, b, a uint8) color.NRGBA {
	if a == 0 {
		return color.NRGBA{}
	}
	if a == 0xff {
		return color.NRGBA{R: r, G: g, B: b, A: a}
	}
	un := func(c uint8) uint8 {
		v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.NRGBA{R: un(r), G: un(g), B: un(b), A: a}
}
