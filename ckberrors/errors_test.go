package ckberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorParts(t *testing.T) {
	err := fmt.Errorf("load_tx_hash: got 31 bytes: %w", ErrLengthMismatch)

	assert.Equal(t, ErrLengthMismatch, Sentinel(err))
	assert.Equal(t, "LengthMismatchError", GetErrorName(err))
	assert.Equal(t, "E3", GetErrorCode(err))
	assert.Equal(t, "E3_LengthMismatchError", GetErrorCodeWithName(err))
	assert.Equal(t, "Syscall wrote an unexpected number of bytes.", GetErrorDesc(err))
}

func TestUnknownError(t *testing.T) {
	err := errors.New("plain failure")

	assert.Nil(t, Sentinel(err))
	assert.Equal(t, "plain failure", GetErrorName(err))
	assert.Equal(t, "", GetErrorCode(err))
	assert.Equal(t, "", GetErrorCodeWithName(err))
	assert.Equal(t, "No Error", GetErrorName(nil))
}
