// Package ring implements the fixed-capacity circular sample buffer shared
// by the delay-based filters.
package ring

import "errors"

// MaxLength is the hard capacity ceiling: 60 seconds of samples at the
// reference sample rate of 44100 Hz.
const MaxLength = 60 * 44100

// ErrLength is returned when a requested buffer length is not positive or
// exceeds MaxLength.
var ErrLength = errors.New("ring: length out of range")

// Buffer is a circular sample buffer with a single cursor serving both
// peek-then-append semantics: Peek reads the oldest sample, Append
// overwrites it and advances. Storage starts zeroed; length is immutable.
type Buffer struct {
	data []float64
	pos  int
}

// New returns a zeroed ring buffer of the given length.
func New(length int) (*Buffer, error) {
	if length <= 0 || length > MaxLength {
		return nil, ErrLength
	}
	return &Buffer{data: make([]float64, length)}, nil
}

// Len returns the buffer length.
func (b *Buffer) Len() int { return len(b.data) }

// Peek returns the sample at the cursor without advancing.
func (b *Buffer) Peek() float64 { return b.data[b.pos] }

// Append writes a sample at the cursor and advances it, wrapping at the
// buffer length.
func (b *Buffer) Append(value float64) {
	b.data[b.pos] = value
	b.pos++
	if b.pos == len(b.data) {
		b.pos = 0
	}
}
