package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackResponse(t *testing.T) {
	hdr := http.Header{
		"Content-Type": {"application/json"},
		"X-Custom":     {"a", "b"},
	}
	body := []byte(`{"hotels":[]}`)

	payload, err := packResponse(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := unpackResponse(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPackUnpackEmptyBody(t *testing.T) {
	payload, err := packResponse(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := unpackResponse(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestUnpackTruncatedPayload(t *testing.T) {
	_, _, _, ok := unpackResponse([]byte{0, 0, 0})
	assert.False(t, ok)

	// Header length pointing past the buffer.
	bad := []byte{0, 0, 0, 200, 0, 0, 255, 255}
	_, _, _, ok = unpackResponse(bad)
	assert.False(t, ok)
}
