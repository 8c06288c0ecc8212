// Package riff reads and writes the RIFF container used by WebP files.
package riff

import (
	"encoding/binary"
	"errors"
)

// FourCC is a chunk tag stored little-endian.
type FourCC uint32

const (
	FourCCRIFF FourCC = 'R' | 'I'<<8 | 'F'<<16 | 'F'<<24
	FourCCWEBP FourCC = 'W' | 'E'<<8 | 'B'<<16 | 'P'<<24
	FourCCVP8  FourCC = 'V' | 'P'<<8 | '8'<<16 | ' '<<24
	FourCCVP8L FourCC = 'V' | 'P'<<8 | '8'<<16 | 'L'<<24
	FourCCVP8X FourCC = 'V' | 'P'<<8 | '8'<<16 | 'X'<<24
	FourCCALPH FourCC = 'A' | 'L'<<8 | 'P'<<16 | 'H'<<24
	FourCCANIM FourCC = 'A' | 'N'<<8 | 'I'<<16 | 'M'<<24
	FourCCANMF FourCC = 'A' | 'N'<<8 | 'M'<<16 | 'F'<<24
	FourCCICCP FourCC = 'I' | 'C'<<8 | 'C'<<16 | 'P'<<24
	FourCCEXIF FourCC = 'E' | 'X'<<8 | 'I'<<16 | 'F'<<24
	FourCCXMP  FourCC = 'X' | 'M'<<8 | 'P'<<16 | ' '<<24
)

func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Sizes in bytes.
const (
	chunkHeaderSize = 8
	riffHeaderSize  = 12
	vp8xPayloadSize = 10
	animPayloadSize = 6
	anmfHeaderSize  = 16
)

// VP8X feature flags.
const (
	FlagAnimation uint8 = 0x02
	FlagXMP       uint8 = 0x04
	FlagEXIF      uint8 = 0x08
	FlagAlpha     uint8 = 0x10
	FlagICC       uint8 = 0x20

	validFlags = FlagAnimation | FlagXMP | FlagEXIF | FlagAlpha | FlagICC
)

// Limits of the format.
const (
	MaxCanvasDimension = 1 << 24
	MaxDuration        = 1<<24 - 1
	MaxLoopCount       = 1<<16 - 1
	maxChunkPayload    = 1<<32 - 2
)

// Parse errors. Public entry points wrap them in a webperr ContainerError.
var (
	ErrNotRIFF       = errors.New("riff: missing RIFF/WEBP header")
	ErrTruncated     = errors.New("riff: truncated data")
	ErrInvalidChunk  = errors.New("riff: invalid chunk")
	ErrNotAnimation  = errors.New("riff: not an animated WebP")
	ErrNoImage       = errors.New("riff: no image chunk")
	ErrBadBitstream  = errors.New("riff: invalid bitstream header")
	ErrFrameBounds   = errors.New("riff: frame outside canvas")
	ErrInvalidLayout = errors.New("riff: invalid mux parameters")
)

// Chunk is a raw chunk kept for metadata round trips.
type Chunk struct {
	ID      FourCC
	Payload []byte
}

// paddedSize rounds a payload length up to an even number of bytes.
func paddedSize(n int) int {
	return n + n&1
}

// nextChunk splits the first chunk off buf.
// A missing trailing pad byte on the final chunk is tolerated.
func nextChunk(buf []byte) (Chunk, []byte, error) {
	if len(buf) < chunkHeaderSize {
		return Chunk{}, nil, ErrTruncated
	}
	id := FourCC(binary.LittleEndian.Uint32(buf[0:4]))
	size := binary.LittleEndian.Uint32(buf[4:8])
	if size > maxChunkPayload || int(size) > len(buf)-chunkHeaderSize {
		return Chunk{}, nil, ErrTruncated
	}
	end := chunkHeaderSize + int(size)
	payload := buf[chunkHeaderSize:end]
	next := chunkHeaderSize + paddedSize(int(size))
	if next > len(buf) {
		next = len(buf)
	}
	return Chunk{ID: id, Payload: payload}, buf[next:], nil
}

// body validates the RIFF/WEBP header and returns the chunk area,
// clipped to the declared RIFF size.
func body(data []byte) ([]byte, error) {
	if len(data) < riffHeaderSize ||
		FourCC(binary.LittleEndian.Uint32(data[0:4])) != FourCCRIFF ||
		FourCC(binary.LittleEndian.Uint32(data[8:12])) != FourCCWEBP {
		return nil, ErrNotRIFF
	}
	size := int(binary.LittleEndian.Uint32(data[4:8]))
	if size < 4 {
		return nil, ErrNotRIFF
	}
	end := chunkHeaderSize + size
	if end > len(data) {
		end = len(data)
	}
	return data[riffHeaderSize:end], nil
}

// appendChunk appends a chunk header, payload and pad byte to dst.
func appendChunk(dst []byte, id FourCC, payload ...[]byte) []byte {
	n := 0
	for _, p := range payload {
		n += len(p)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(id))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(n))
	for _, p := range payload {
		dst = append(dst, p...)
	}
	if n&1 == 1 {
		dst = append(dst, 0)
	}
	return dst
}

// chunkSize is the on-disk size of a chunk with an n byte payload.
func chunkSize(n int) int {
	return chunkHeaderSize + paddedSize(n)
}

func readLE24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func appendLE24(dst []byte, v int) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}
