package ports

import (
	"image"
)

// FrameSink receives decoded frames and reports, e.g. for extraction or
// debugging.
type FrameSink interface {
	// Enabled returns true if the sink stores output.
	Enabled() bool

	// SaveFrame saves a decoded frame.
	SaveFrame(index int, img image.Image) error

	// SaveReport saves a named text artifact such as an inspection summary.
	SaveReport(name string, data []byte) error
}
