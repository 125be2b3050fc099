// Package engine implements the shared half of a Merkle-Damgård hash:
// partial-block buffering, padding, the bit-length footer and digest
// serialization. Algorithms plug in their compression function and constants
// through the Algorithm interface.
//
// A Session is not safe for concurrent use. Distinct sessions share nothing
// and may run on separate goroutines.
//
// The length footer holds the message length in bits modulo 2^64, so
// messages of 2^61 bytes or more wrap silently.
package engine

import (
	"encoding/binary"
)

// lengthSize is the byte width of the bit-length footer.
const lengthSize = 8

// Algorithm is the per-algorithm capability set driven by a Session.
type Algorithm interface {
	// Name identifies the algorithm, e.g. "sha256".
	Name() string

	// Size is the digest length in bytes.
	Size() int

	// BlockSize is the number of bytes consumed by one Compress call.
	BlockSize() int

	// ByteOrder is used for the length footer and digest serialization.
	ByteOrder() binary.ByteOrder

	// Init writes the initial state words into state.
	// len(state) == Size()/4.
	Init(state []uint32)

	// Compress advances state by exactly one block.
	Compress(state []uint32, block []byte)
}

// Session is an incremental hash computation over one Algorithm.
type Session struct {
	alg   Algorithm
	state []uint32
	buf   []byte
	fill  int
	total uint64
}

// New returns a Session ready to accept data.
func New(alg Algorithm) *Session {
	s := &Session{
		alg:   alg,
		state: make([]uint32, alg.Size()/4),
		buf:   make([]byte, alg.BlockSize()),
	}
	s.Reset()
	return s
}

// Reset restores the algorithm's initial state and drops buffered input.
func (s *Session) Reset() {
	s.alg.Init(s.state)
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.fill = 0
	s.total = 0
}

// Algorithm returns the algorithm driven by s.
func (s *Session) Algorithm() Algorithm { return s.alg }

// Size returns the digest length in bytes.
func (s *Session) Size() int { return s.alg.Size() }

// BlockSize returns the algorithm's block size.
func (s *Session) BlockSize() int { return s.alg.BlockSize() }

// Len returns the number of bytes absorbed since the last reset.
func (s *Session) Len() uint64 { return s.total }

// Update absorbs p. Any partition of a message across Update calls yields
// the same digest.
func (s *Session) Update(p []byte) {
	s.total += uint64(len(p))

	bs := len(s.buf)
	if s.fill > 0 {
		left := bs - s.fill
		if len(p) < left {
			s.fill += copy(s.buf[s.fill:], p)
			s.checkFill()
			return
		}
		copy(s.buf[s.fill:], p[:left])
		s.alg.Compress(s.state, s.buf)
		s.fill = 0
		p = p[left:]
	}

	for len(p) >= bs {
		s.alg.Compress(s.state, p[:bs])
		p = p[bs:]
	}

	s.fill = copy(s.buf, p)
	s.checkFill()
}

// Write implements io.Writer. It never fails.
func (s *Session) Write(p []byte) (int, error) {
	s.Update(p)
	return len(p), nil
}

// Digest finalizes the message, returns its digest and resets s for reuse.
func (s *Session) Digest() []byte {
	out := s.finish()
	s.Reset()
	return out
}

// Sum appends the digest of the data written so far to in. Unlike Digest it
// leaves s untouched, so more data may follow.
func (s *Session) Sum(in []byte) []byte {
	return append(in, s.Clone().finish()...)
}

// Clone returns an independent copy of s.
func (s *Session) Clone() *Session {
	c := &Session{
		alg:   s.alg,
		state: make([]uint32, len(s.state)),
		buf:   make([]byte, len(s.buf)),
		fill:  s.fill,
		total: s.total,
	}
	copy(c.state, s.state)
	copy(c.buf, s.buf)
	return c
}

func (s *Session) finish() []byte {
	s.checkFill()

	bs := len(s.buf)
	order := s.alg.ByteOrder()

	s.buf[s.fill] = 0x80
	s.fill++

	if bs-s.fill < lengthSize {
		zero(s.buf[s.fill:])
		s.alg.Compress(s.state, s.buf)
		s.fill = 0
	}

	zero(s.buf[s.fill : bs-lengthSize])
	order.PutUint64(s.buf[bs-lengthSize:], s.total<<3)
	s.alg.Compress(s.state, s.buf)

	out := make([]byte, s.alg.Size())
	for i, w := range s.state {
		order.PutUint32(out[i*4:], w)
	}
	return out
}

// checkFill panics when the buffer was left full, which Update never does.
func (s *Session) checkFill() {
	if s.fill < 0 || s.fill >= len(s.buf) {
		panic("engine: buffered bytes reached block size")
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
