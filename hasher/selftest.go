package hasher

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"massnet.org/mdhash/crypto/engine"
	"massnet.org/mdhash/crypto/md5"
	"massnet.org/mdhash/crypto/sha256"
	"massnet.org/mdhash/hashutil"
	"massnet.org/mdhash/logging"
)

// ErrSelfTest is returned when a known-answer vector fails.
var ErrSelfTest = errors.New("self test failed")

// Vector is a known-answer test for one algorithm.
type Vector struct {
	Name      string
	Algorithm engine.Algorithm
	Message   []byte
	// Check validates the digest of Message.
	Check func(digest []byte) error
}

func expectHex(want string) func([]byte) error {
	return func(digest []byte) error {
		if got := hashutil.Digest(digest).String(); got != want {
			return fmt.Errorf("got %s, want %s", got, want)
		}
		return nil
	}
}

// foldWords xors the little-endian words of an md5 digest.
func foldWords(digest []byte) uint32 {
	var x uint32
	for i := 0; i+4 <= len(digest); i += 4 {
		x ^= binary.LittleEndian.Uint32(digest[i:])
	}
	return x
}

func countingMessage(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(i & 0xff)
	}
	return msg
}

// Vectors returns the built-in known-answer tests.
func Vectors() []Vector {
	return []Vector{
		{
			Name:      "sha256 empty",
			Algorithm: sha256.Algorithm,
			Check:     expectHex("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
		},
		{
			Name:      "sha256 two blocks",
			Algorithm: sha256.Algorithm,
			Message:   []byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"),
			Check:     expectHex("248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"),
		},
		{
			Name:      "md5 empty",
			Algorithm: md5.Algorithm,
			Check:     expectHex("d41d8cd98f00b204e9800998ecf8427e"),
		},
		{
			Name:      "md5 counting 1000",
			Algorithm: md5.Algorithm,
			Message:   countingMessage(1000),
			Check: func(digest []byte) error {
				if x := foldWords(digest); x != 0x33f673b4 {
					return fmt.Errorf("folded words %#08x, want 0x33f673b4", x)
				}
				return nil
			},
		},
	}
}

// SelfTest runs every vector twice: once in a single update and once
// byte by byte on the same session, which also checks reuse after Digest.
func SelfTest() error {
	var failed []string
	for _, v := range Vectors() {
		s := engine.New(v.Algorithm)
		s.Update(v.Message)
		err := v.Check(s.Digest())
		if err == nil {
			for i := range v.Message {
				s.Update(v.Message[i : i+1])
			}
			err = v.Check(s.Digest())
		}
		if err != nil {
			logging.CPrint(logging.ERROR, "self test vector failed", logging.LogFormat{"vector": v.Name, "err": err})
			failed = append(failed, v.Name)
			continue
		}
		logging.VPrint(logging.DEBUG, "self test vector passed", logging.LogFormat{"vector": v.Name})
	}
	if len(failed) > 0 {
		return errors.Wrapf(ErrSelfTest, "%d of %d vectors: %v", len(failed), len(Vectors()), failed)
	}
	return nil
}
