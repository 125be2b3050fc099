package hashutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"massnet.org/mdhash/hashutil"
	"massnet.org/mdhash/testutil"
)

func TestHash_String(t *testing.T) {
	var h = hashutil.SHA256([]byte("TestHash_String"))
	var testRound = 1000

	for i := 0; i < testRound; i++ {
		h = hashutil.SHA256(h[:])
		if h != mustDecodeStringToHash(h.String()) {
			t.Error("Hash String decode error")
		}
	}

	for i := 0; i < testRound; i++ {
		h = hashutil.DoubleSHA256(h[:])
		if h != mustDecodeStringToHash(h.String()) {
			t.Error("Hash String decode error")
		}
	}
}

func TestDecodeStringToHash(t *testing.T) {
	tests := []*struct {
		str string
		err error
	}{
		{
			str: "0123456789",
			err: hashutil.ErrInvalidHashLength,
		},
		{
			str: "01234567890123456789012345678901234567890123456789012345678901234",
			err: hashutil.ErrInvalidHashLength,
		},
		{
			str: "0123456789012345678901234567890123456789012345678901234567890123",
			err: nil,
		},
		{
			str: "g123456789012345678901234567890123456789012345678901234567890123",
			err: errors.New("encoding/hex: invalid byte: U+0067 'g'"),
		},
	}

	for i, test := range tests {
		if _, err := hashutil.DecodeStringToHash(test.str); !testutil.SameErrorString(err, test.err) {
			t.Errorf("%d, DecodeStringToHash error not match, got = %v, want = %v", i, err, test.err)
		}
	}
}

func TestDecodeDigest(t *testing.T) {
	d, err := hashutil.DecodeDigest("d41d8cd98f00b204e9800998ecf8427e", 16)
	assert.NoError(t, err)
	assert.True(t, d.Equal(hashutil.MD5(nil)))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", d.String())

	_, err = hashutil.DecodeDigest("d41d8cd98f00b204e9800998ecf8427e", 32)
	assert.Equal(t, hashutil.ErrInvalidHashLength, err)

	_, err = hashutil.DecodeDigest("zz1d8cd98f00b204e9800998ecf8427e", 16)
	assert.Error(t, err)
}

func TestHashBytesIsCopy(t *testing.T) {
	h := hashutil.SHA256(nil)
	b := h.Bytes()
	b[0] ^= 0xff
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", h.String())
}

func mustDecodeStringToHash(str string) hashutil.Hash {
	h, err := hashutil.DecodeStringToHash(str)
	if err != nil {
		panic(err)
	}
	return h
}
