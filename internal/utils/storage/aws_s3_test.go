package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resepku/internal/utils/storage"
)

func TestDecodeDataURI(t *testing.T) {
	data, ext, contentType, err := storage.DecodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "png", ext)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	for _, payload := range []string{
		"",
		"hello",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64,???",
	} {
		_, _, _, err := storage.DecodeDataURI(payload)
		assert.ErrorIs(t, err, storage.ErrInvalidDataURI, "payload %q", payload)
	}
}
