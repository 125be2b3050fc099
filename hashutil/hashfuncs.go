package hashutil

import (
	"golang.org/x/crypto/ripemd160"
)

// Hash160 returns ripemd160(sha256(b)).
func Hash160(data []byte) []byte {
	s := SHA256(data)
	return Ripemd160(s[:])
}

// Hash256 returns sha256(sha256(data))
func Hash256(data []byte) []byte {
	h := DoubleSHA256(data)
	return h[:]
}

// Ripemd160 return ripemd160(data)
func Ripemd160(data []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}
