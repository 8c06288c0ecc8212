package mocks

import (
	"image"
	"sync"

	"github.com/user/webpkit/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu sync.RWMutex

	enabled bool

	SaveFrameFunc func(index int, img image.Image) error

	Frames  map[int]image.Image
	Reports map[string][]byte
}

// NewFrameSink creates a new mock FrameSink.
func NewFrameSink(enabled bool) *FrameSink {
	return &FrameSink{
		enabled: enabled,
		Frames:  make(map[int]image.Image),
		Reports: make(map[string][]byte),
	}
}

func (m *FrameSink) Enabled() bool {
	return m.enabled
}

func (m *FrameSink) SaveFrame(index int, img image.Image) error {
	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(index, img)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = img
	return nil
}

func (m *FrameSink) SaveReport(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[name] = data
	return nil
}

// FrameCount returns the number of saved frames.
func (m *FrameSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

var _ ports.FrameSink = (*FrameSink)(nil)

// NullSink is a no-op implementation of ports.FrameSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                              { return false }
func (m *NullSink) SaveFrame(index int, img image.Image) error { return nil }
func (m *NullSink) SaveReport(name string, data []byte) error  { return nil }

var _ ports.FrameSink = (*NullSink)(nil)
