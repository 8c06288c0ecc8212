// Package filesink provides a file-based frame sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/webpkit/pkg/ports"
)

// Sink writes frames as numbered PNG files and reports as plain files under
// a base directory.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// FramePath returns the path SaveFrame writes frame index to.
func (s *Sink) FramePath(index int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("frame-%04d.png", index))
}

// SaveFrame saves a frame as PNG.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	return s.fs.WriteFile(s.FramePath(index), data)
}

// SaveReport saves a named text artifact.
func (s *Sink) SaveReport(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, name), data)
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
