package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"massnet.org/mdhash/crypto/engine"
	"massnet.org/mdhash/crypto/md5"
)

func TestSelfTest(t *testing.T) {
	assert.NoError(t, SelfTest())
}

func TestVectorsDetectWrongDigest(t *testing.T) {
	for _, v := range Vectors() {
		s := engine.New(v.Algorithm)
		s.Update(append(v.Message, 0))
		assert.Error(t, v.Check(s.Digest()), v.Name)
	}
	sum := md5.Sum(countingMessage(1000))
	assert.Equal(t, uint32(0x33f673b4), foldWords(sum[:]))
}
