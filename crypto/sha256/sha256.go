// Package sha256 implements the SHA-256 hash on top of package engine.
package sha256

import (
	"encoding/binary"

	"massnet.org/mdhash/crypto/engine"
)

// Size is the size of a SHA-256 checksum in bytes.
const Size = 32

// BlockSize is the block size of SHA-256 in bytes.
const BlockSize = 64

const (
	init0 = 0x6a09e667
	init1 = 0xbb67ae85
	init2 = 0x3c6ef372
	init3 = 0xa54ff53a
	init4 = 0x510e527f
	init5 = 0x9b05688c
	init6 = 0x1f83d9ab
	init7 = 0x5be0cd19
)

type algorithm struct{}

// Algorithm is the SHA-256 capability set.
var Algorithm engine.Algorithm = algorithm{}

func (algorithm) Name() string { return "sha256" }

func (algorithm) Size() int { return Size }

func (algorithm) BlockSize() int { return BlockSize }

func (algorithm) ByteOrder() binary.ByteOrder { return binary.BigEndian }

func (algorithm) Init(h []uint32) {
	h[0] = init0
	h[1] = init1
	h[2] = init2
	h[3] = init3
	h[4] = init4
	h[5] = init5
	h[6] = init6
	h[7] = init7
}

func (algorithm) Compress(h []uint32, p []byte) { block(h, p) }

// New returns a new session computing the SHA-256 checksum.
func New() *engine.Session {
	return engine.New(Algorithm)
}

// Sum256 returns the SHA-256 checksum of the data.
func Sum256(data []byte) [Size]byte {
	var sum [Size]byte
	s := New()
	s.Update(data)
	copy(sum[:], s.Digest())
	return sum
}
