// Package md5 implements the MD5 hash on top of package engine.
//
// MD5 is cryptographically broken and should not be used for secure
// applications.
package md5

import (
	"encoding/binary"

	"massnet.org/mdhash/crypto/engine"
)

// Size is the size of an MD5 checksum in bytes.
const Size = 16

// BlockSize is the block size of MD5 in bytes.
const BlockSize = 64

const (
	init0 = 0x67452301
	init1 = 0xefcdab89
	init2 = 0x98badcfe
	init3 = 0x10325476
)

type algorithm struct{}

// Algorithm is the MD5 capability set.
var Algorithm engine.Algorithm = algorithm{}

func (algorithm) Name() string { return "md5" }

func (algorithm) Size() int { return Size }

func (algorithm) BlockSize() int { return BlockSize }

func (algorithm) ByteOrder() binary.ByteOrder { return binary.LittleEndian }

func (algorithm) Init(s []uint32) {
	s[0] = init0
	s[1] = init1
	s[2] = init2
	s[3] = init3
}

func (algorithm) Compress(s []uint32, p []byte) { block(s, p) }

// New returns a new session computing the MD5 checksum.
func New() *engine.Session {
	return engine.New(Algorithm)
}

// Sum returns the MD5 checksum of the data.
func Sum(data []byte) [Size]byte {
	var sum [Size]byte
	s := New()
	s.Update(data)
	copy(sum[:], s.Digest())
	return sum
}
