package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	base := pkgerrors.New("digest mismatch")
	tests := []struct {
		err  error
		code int
	}{
		{nil, ErrCodeOK},
		{base, ErrCodeUnknown},
		{WithCode(ErrCodeMismatch, base), ErrCodeMismatch},
		{pkgerrors.Wrap(WithCode(ErrCodeIO, base), "open file"), ErrCodeIO},
		{WithCode(ErrCodeUsage, nil), ErrCodeOK},
	}
	for i, test := range tests {
		assert.Equal(t, test.code, Code(test.err), "%d", i)
	}
}

func TestMessage(t *testing.T) {
	err := WithCode(ErrCodeConfig, pkgerrors.New("bad algorithm"))
	assert.Equal(t, "bad algorithm", Message(err))
	assert.Equal(t, "bad algorithm (code 3)", err.Error())
	assert.Equal(t, "plain", Message(pkgerrors.New("plain")))
}
