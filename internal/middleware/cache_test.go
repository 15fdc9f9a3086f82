package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	payload, err := encodeCached(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodeCached(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestCaptureWriterCountsPastLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	// First write lands exactly on the limit; the second must still be
	// counted so an oversized body is recognized and never cached.
	_, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("abcde"))
	require.NoError(t, err)

	assert.Equal(t, int64(15), cw.size)
	assert.Equal(t, "0123456789", cw.buf.String())
	assert.Equal(t, "0123456789abcde", rec.Body.String())
}

func TestCaptureWriterUnlimited(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK}

	_, err := cw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = cw.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), cw.size)
	assert.Equal(t, "hello world", cw.buf.String())
}

func TestDecodeCachedRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodeCached(nil)
	assert.False(t, ok)

	_, _, _, ok = decodeCached([]byte("short"))
	assert.False(t, ok)

	// Header length pointing past the payload.
	payload, err := encodeCached(200, http.Header{}, nil)
	require.NoError(t, err)
	payload[7] = 0xFF
	_, _, _, ok = decodeCached(payload)
	assert.False(t, ok)
}
