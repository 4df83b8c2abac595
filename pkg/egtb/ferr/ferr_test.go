package ferr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felicity-egtb/felicity/pkg/egtb/ferr"
)

func TestNewFormatsMessage(t *testing.T) {
	err := ferr.New(ferr.InvalidFen, "bad square %q", "z9")
	assert.EqualError(t, err, "invalid_fen: bad square \"z9\"")
}

func TestWrapIncludesCause(t *testing.T) {
	cause := errors.New("unexpected eof")
	err := ferr.Wrap(ferr.IoError, cause, "read header")
	assert.EqualError(t, err, "io_error: read header: unexpected eof")
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := ferr.Wrap(ferr.CorruptFile, errors.New("checksum mismatch"), "kqk.fdtm")
	wrapped := fmt.Errorf("load: %w", err)

	assert.True(t, ferr.Is(wrapped, ferr.CorruptFile))
	assert.False(t, ferr.Is(wrapped, ferr.IoError))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, ferr.Is(errors.New("plain"), ferr.InvalidFen))
}

func TestKindStringUnknownDefault(t *testing.T) {
	var k ferr.Kind = 99
	assert.Equal(t, "unknown", k.String())
}
