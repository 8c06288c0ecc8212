// Package webpdata holds encoded WebP bytes with single-owner semantics.
package webpdata

import (
	"errors"
	"io"
)

// ErrWriterDone is returned when writing to a finalized Writer.
var ErrWriterDone = errors.New("webpdata: writer already finalized")

// Data is an owned, immutable encoded buffer.
type Data struct {
	buf      []byte
	released bool
}

// FromBytes takes ownership of b.
func FromBytes(b []byte) *Data {
	return &Data{buf: b}
}

// Bytes returns the encoded bytes, or nil after Release.
// The returned slice must not be modified.
func (d *Data) Bytes() []byte {
	if d == nil {
		return nil
	}
	return d.buf
}

// Size returns the number of encoded bytes.
func (d *Data) Size() int {
	if d == nil {
		return 0
	}
	return len(d.buf)
}

// Released reports whether Release has been called.
func (d *Data) Released() bool {
	return d == nil || d.released
}

// Release frees the buffer. Repeated calls are no-ops.
func (d *Data) Release() {
	if d == nil || d.released {
		return
	}
	d.buf = nil
	d.released = true
}

// WriteTo writes the encoded bytes to w.
func (d *Data) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

// Writer accumulates encoder output. Done transfers the bytes into a Data;
// the half-built state never escapes.
type Writer struct {
	buf  []byte
	done bool
}

// NewWriter creates a Writer with an initial capacity hint.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Write appends p.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrWriterDone
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Done finalizes the writer and hands its buffer to the returned Data.
func (w *Writer) Done() (*Data, error) {
	if w.done {
		return nil, ErrWriterDone
	}
	w.done = true
	d := &Data{buf: w.buf}
	w.buf = nil
	return d, nil
}
