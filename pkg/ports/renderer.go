package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts raster image operations outside the WebP codec:
// reading source frames, writing previews, and drawing contact sheets.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes PNG or JPEG data into an image.Image.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for compositing images.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawRectStroke draws a rectangle outline.
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// DrawText draws text anchored at the specified position.
	DrawText(text string, x, y int, style TextStyle)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies a raster format handled by the Renderer.
type ImageFormat int

const (
	FormatAuto ImageFormat = iota
	FormatPNG
	FormatJPEG
)

// FormatFromExt maps a file extension such as ".png" to an ImageFormat.
func FormatFromExt(ext string) ImageFormat {
	switch ext {
	case ".png", ".PNG":
		return FormatPNG
	case ".jpg", ".jpeg", ".JPG", ".JPEG":
		return FormatJPEG
	}
	return FormatAuto
}
