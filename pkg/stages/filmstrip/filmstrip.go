// Package filmstrip implements the contact sheet stage: decoded frames are
// scaled into a grid of thumbnails, optionally labelled with their end times.
package filmstrip

import (
	"context"
	"fmt"
	"image/color"

	"github.com/user/webpkit/pkg/pipeline"
	"github.com/user/webpkit/pkg/ports"
)

const labelHeight = 16

// Stage renders frames into a single preview image.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new filmstrip stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("filmstrip"),
	}
}

// Execute lays out the frames row by row.
func (s *Stage) Execute(ctx context.Context, input pipeline.StripInput) (pipeline.StripResult, error) {
	result := pipeline.StripResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to render")
	}
	defaults := pipeline.DefaultStripInput()
	if input.Columns <= 0 {
		input.Columns = defaults.Columns
	}
	if input.ThumbWidth <= 0 {
		input.ThumbWidth = defaults.ThumbWidth
	}
	if input.Gap < 0 {
		input.Gap = 0
	}
	if input.Background == nil {
		input.Background = defaults.Background
	}

	first := input.Frames[0].Picture
	if first.Released() {
		return result, fmt.Errorf("first frame has been released")
	}
	thumbW := input.ThumbWidth
	thumbH := max(1, first.Height()*thumbW/first.Width())

	cellH := thumbH
	if input.Labels {
		cellH += labelHeight
	}
	cols := min(input.Columns, len(input.Frames))
	rows := (len(input.Frames) + cols - 1) / cols
	width := input.Gap + cols*(thumbW+input.Gap)
	height := input.Gap + rows*(cellH+input.Gap)

	s.logger.Debug("Rendering %d frames into %dx%d strip", len(input.Frames), width, height)
	canvas := s.renderer.CreateCanvas(width, height, input.Background)

	border := color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	style := ports.TextStyle{
		FontSize: 11,
		FontPath: input.FontPath,
		Color:    color.Black,
		Align:    ports.AlignCenter,
	}

	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if frame.Picture.Released() {
			return result, fmt.Errorf("frame %d has been released", i)
		}
		x := input.Gap + (i%cols)*(thumbW+input.Gap)
		y := input.Gap + (i/cols)*(cellH+input.Gap)

		thumb := s.renderer.ResizeImage(frame.Picture.Image(), thumbW, thumbH)
		canvas.DrawImage(thumb, x, y)
		canvas.DrawRectStroke(x, y, thumbW, thumbH, border, 1)

		if input.Labels {
			canvas.DrawText(fmt.Sprintf("%d ms", frame.EndMs), x+thumbW/2, y+thumbH+labelHeight/2, style)
		}
	}

	result.Image = canvas.ToImage()
	return result, nil
}
