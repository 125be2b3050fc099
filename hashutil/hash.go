package hashutil

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
	"massnet.org/mdhash/crypto/md5"
	"massnet.org/mdhash/crypto/sha256"
)

// ErrInvalidHashLength indicates the length of hash is invalid.
var ErrInvalidHashLength = errors.New("invalid length for hash")

// Hash represents a 32-byte SHA-256 value.
type Hash [sha256.Size]byte

// SHA256 returns the sha256 of raw.
func SHA256(raw []byte) Hash {
	return sha256.Sum256(raw)
}

// DoubleSHA256 returns sha256(sha256(raw)).
func DoubleSHA256(raw []byte) Hash {
	h := SHA256(raw)
	return SHA256(h[:])
}

// MD5 returns the md5 of raw.
func MD5(raw []byte) Digest {
	sum := md5.Sum(raw)
	return Digest(sum[:])
}

// Bytes converts Hash to Byte Slice.
func (h Hash) Bytes() []byte {
	bs := make([]byte, len(h))
	copy(bs, h[:])
	return bs
}

// String converts Hash to String.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// DecodeStringToHash decodes a string value to Hash,
// the length of string value must be 64.
func DecodeStringToHash(str string) (Hash, error) {
	if len(str) != 2*sha256.Size {
		return Hash{}, ErrInvalidHashLength
	}
	hBytes, err := hex.DecodeString(str)
	if err != nil {
		return Hash{}, err
	}
	var h = Hash{}
	copy(h[:], hBytes)

	return h, nil
}

// Digest is a digest of any size.
type Digest []byte

// String returns the lowercase hex encoding of d.
func (d Digest) String() string {
	return hex.EncodeToString(d)
}

// Equal reports whether d and other hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// DecodeDigest decodes a hex string holding exactly size bytes.
func DecodeDigest(str string, size int) (Digest, error) {
	if len(str) != 2*size {
		return nil, ErrInvalidHashLength
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return Digest(b), nil
}
