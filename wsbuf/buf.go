// Package wsbuf implements the byte buffer fed to a websocket.Decoder.
//
// A Buffer stores bytes in a chain of fixed size segments taken from a
// pool so appending never copies what is already buffered and draining
// returns whole segments for reuse.
package wsbuf

import (
	"fmt"
	"io"
	"sync"
)

// DefaultSegmentSize is the segment size of a zero Buffer.
const DefaultSegmentSize = 16 << 10

var segmentPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultSegmentSize)
		return &b
	},
}

type segment struct {
	buf        *[]byte
	start, end int
}

func (s *segment) bytes() []byte {
	return (*s.buf)[s.start:s.end]
}

func (s *segment) free() int {
	return len(*s.buf) - s.end
}

// Buffer is a chain of byte segments. The zero value is ready to use.
//
// The slices returned by Slices alias the buffer and are valid until
// the next call to Add, Fill, Drain or Reset.
type Buffer struct {
	// SegmentSize overrides DefaultSegmentSize for segments allocated
	// after it is set. Those segments are not pooled.
	SegmentSize int

	segs   []*segment
	length int
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return b.length
}

// Add appends a copy of p.
func (b *Buffer) Add(p []byte) {
	for len(p) > 0 {
		s := b.tail()
		n := copy((*s.buf)[s.end:], p)
		s.end += n
		b.length += n
		p = p[n:]
	}
}

// Fill performs a single Read from r into the free space of the buffer
// and returns what Read returned.
func (b *Buffer) Fill(r io.Reader) (int, error) {
	s := b.tail()
	n, err := r.Read((*s.buf)[s.end:])
	s.end += n
	b.length += n
	return n, err
}

// Slices returns the buffered bytes as one slice per segment.
func (b *Buffer) Slices() [][]byte {
	slices := make([][]byte, 0, len(b.segs))
	for _, s := range b.segs {
		if s.end > s.start {
			slices = append(slices, s.bytes())
		}
	}
	return slices
}

// Bytes returns a copy of the buffered bytes.
func (b *Buffer) Bytes() []byte {
	p := make([]byte, 0, b.length)
	for _, s := range b.segs {
		p = append(p, s.bytes()...)
	}
	return p
}

// Drain removes the first n bytes.
// It panics if fewer than n bytes are buffered.
func (b *Buffer) Drain(n int) {
	if n < 0 || n > b.length {
		panic(fmt.Sprintf("wsbuf: cannot drain %v bytes from a buffer of %v bytes", n, b.length))
	}

	b.length -= n
	for n > 0 {
		s := b.segs[0]
		size := s.end - s.start
		if n < size {
			s.start += n
			return
		}
		n -= size
		b.release(s)
		b.segs[0] = nil
		b.segs = b.segs[1:]
	}
	if len(b.segs) == 0 {
		b.segs = nil
	}
}

// Reset drops every buffered byte.
func (b *Buffer) Reset() {
	for _, s := range b.segs {
		b.release(s)
	}
	b.segs = nil
	b.length = 0
}

// tail returns the last segment, appending a new one if it is full.
func (b *Buffer) tail() *segment {
	if len(b.segs) > 0 {
		s := b.segs[len(b.segs)-1]
		if s.free() > 0 {
			return s
		}
	}

	s := &segment{}
	if b.SegmentSize > 0 && b.SegmentSize != DefaultSegmentSize {
		buf := make([]byte, b.SegmentSize)
		s.buf = &buf
	} else {
		s.buf = segmentPool.Get().(*[]byte)
	}
	b.segs = append(b.segs, s)
	return s
}

func (b *Buffer) release(s *segment) {
	if len(*s.buf) == DefaultSegmentSize {
		segmentPool.Put(s.buf)
	}
	s.buf = nil
}
