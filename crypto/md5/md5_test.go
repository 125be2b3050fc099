package md5_test

import (
	gomd5 "crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"massnet.org/mdhash/crypto/md5"
)

type md5Test struct {
	out string
	in  string
}

var golden = []md5Test{
	{"d41d8cd98f00b204e9800998ecf8427e", ""},
	{"0cc175b9c0f1b6a831c399e269772661", "a"},
	{"187ef4436122d1cc2f40dc2b92f0eba0", "ab"},
	{"900150983cd24fb0d6963f7d28e17f72", "abc"},
	{"e2fc714c4727ee9395f324cd2e7f331f", "abcd"},
	{"ab56b4d92b40713acc5af89985d4b786", "abcde"},
	{"9e107d9d372bb6826bd81d3542a419d6", "The quick brown fox jumps over the lazy dog"},
	{"57edf4a22be3c955ac49da2e2107b67a", "12345678901234567890123456789012345678901234567890123456789012345678901234567890"},
}

func TestGolden(t *testing.T) {
	for i, g := range golden {
		s := fmt.Sprintf("%x", md5.Sum([]byte(g.in)))
		assert.Equal(t, g.out, s, "Sum(%q)", g.in)

		c := md5.New()
		for j := 0; j < 3; j++ {
			if j < 2 {
				io.WriteString(c, g.in)
			} else {
				io.WriteString(c, g.in[0:len(g.in)/2])
				c.Sum(nil)
				io.WriteString(c, g.in[len(g.in)/2:])
			}
			assert.Equal(t, g.out, fmt.Sprintf("%x", c.Digest()), "md5[%d](%q) = pass %d", i, g.in, j)
		}
	}
}

// The 1000-byte i&0xff message folds to a known word XOR.
func TestBenchmarkMessage(t *testing.T) {
	msg := make([]byte, 1000)
	for i := range msg {
		msg[i] = byte(i & 0xff)
	}
	sum := md5.Sum(msg)
	assert.Equal(t, gomd5.Sum(msg), sum)

	var result uint32
	for i := 0; i < md5.Size; i += 4 {
		result ^= binary.LittleEndian.Uint32(sum[i:])
	}
	assert.Equal(t, uint32(0x33f673b4), result)
}

func BenchmarkBenchmarkMessage(b *testing.B) {
	msg := make([]byte, 1000)
	for i := range msg {
		msg[i] = byte(i & 0xff)
	}
	b.SetBytes(int64(len(msg)))
	s := md5.New()
	for i := 0; i < b.N; i++ {
		s.Update(msg)
		s.Digest()
	}
}
