package engine

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const magic = "mdh\x01"

var (
	// ErrInvalidState indicates a snapshot that is not a session state.
	ErrInvalidState = errors.New("invalid hash state identifier")

	// ErrStateSize indicates a snapshot whose size does not fit the algorithm.
	ErrStateSize = errors.New("invalid hash state size")

	// ErrAlgorithmMismatch indicates a snapshot taken with another algorithm.
	ErrAlgorithmMismatch = errors.New("hash state belongs to another algorithm")
)

func (s *Session) marshaledSize() int {
	return len(magic) + 1 + len(s.alg.Name()) + 4*len(s.state) + len(s.buf) + 8
}

// MarshalBinary snapshots the session so that it can be resumed later,
// possibly in another process.
//
// Layout: magic | name length | name | state words (BE) | block buffer |
// total length (BE).
func (s *Session) MarshalBinary() ([]byte, error) {
	name := s.alg.Name()
	b := make([]byte, 0, s.marshaledSize())
	b = append(b, magic...)
	b = append(b, byte(len(name)))
	b = append(b, name...)
	for _, w := range s.state {
		b = appendUint32(b, w)
	}
	b = append(b, s.buf[:s.fill]...)
	b = b[:len(b)+len(s.buf)-s.fill] // already zero
	b = appendUint64(b, s.total)
	return b, nil
}

// UnmarshalBinary restores a snapshot produced by MarshalBinary on a session
// of the same algorithm.
func (s *Session) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic)+1 || string(b[:len(magic)]) != magic {
		return ErrInvalidState
	}
	b = b[len(magic):]
	n := int(b[0])
	b = b[1:]
	if len(b) < n {
		return ErrStateSize
	}
	if name := string(b[:n]); name != s.alg.Name() {
		return errors.Wrapf(ErrAlgorithmMismatch, "got %s, want %s", name, s.alg.Name())
	}
	b = b[n:]
	if len(b) != 4*len(s.state)+len(s.buf)+8 {
		return ErrStateSize
	}
	for i := range s.state {
		b, s.state[i] = consumeUint32(b)
	}
	b = b[copy(s.buf, b):]
	_, s.total = consumeUint64(b)
	s.fill = int(s.total % uint64(len(s.buf)))
	return nil
}

func appendUint64(b []byte, x uint64) []byte {
	var a [8]byte
	binary.BigEndian.PutUint64(a[:], x)
	return append(b, a[:]...)
}

func appendUint32(b []byte, x uint32) []byte {
	var a [4]byte
	binary.BigEndian.PutUint32(a[:], x)
	return append(b, a[:]...)
}

func consumeUint64(b []byte) ([]byte, uint64) {
	return b[8:], binary.BigEndian.Uint64(b[0:8])
}

func consumeUint32(b []byte) ([]byte, uint32) {
	return b[4:], binary.BigEndian.Uint32(b[0:4])
}
