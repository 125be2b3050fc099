package sha256_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"massnet.org/mdhash/crypto/sha256"
)

type sha256Test struct {
	out string
	in  string
}

var golden = []sha256Test{
	{"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ""},
	{"ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb", "a"},
	{"fb8e20fc2e4c3f248c60c39bd652f3c1347298bb977b8b4d5903b85055620603", "ab"},
	{"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", "abc"},
	{"88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589", "abcd"},
	{"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1", "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"},
	{"d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592", "The quick brown fox jumps over the lazy dog"},
}

func TestGolden(t *testing.T) {
	for i, g := range golden {
		s := fmt.Sprintf("%x", sha256.Sum256([]byte(g.in)))
		assert.Equal(t, g.out, s, "Sum256(%q)", g.in)

		c := sha256.New()
		for j := 0; j < 3; j++ {
			if j < 2 {
				io.WriteString(c, g.in)
			} else {
				io.WriteString(c, g.in[0:len(g.in)/2])
				c.Sum(nil)
				io.WriteString(c, g.in[len(g.in)/2:])
			}
			assert.Equal(t, g.out, fmt.Sprintf("%x", c.Digest()), "sha256[%d](%q) = pass %d", i, g.in, j)
		}
	}
}

func TestReuseAcrossMessages(t *testing.T) {
	c := sha256.New()
	for i := 0; i < 100; i++ {
		c.Update([]byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"))
		assert.Equal(t, golden[5].out, fmt.Sprintf("%x", c.Digest()))
	}
}
