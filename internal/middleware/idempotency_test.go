package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithKey(t *testing.T, mw echo.MiddlewareFunc, key string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/dispatches", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestIdempotencyKeyRejectsReplay(t *testing.T) {
	deduper, err := NewKeyDeduper("", "", 0, time.Minute)
	require.NoError(t, err)
	mw := IdempotencyKey(deduper)

	first := runWithKey(t, mw, "abc-123")
	assert.Equal(t, http.StatusOK, first.Code)

	second := runWithKey(t, mw, "abc-123")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "duplicate request")
}

func TestIdempotencyKeyAllowsDistinctKeys(t *testing.T) {
	deduper, err := NewKeyDeduper("", "", 0, time.Minute)
	require.NoError(t, err)
	mw := IdempotencyKey(deduper)

	assert.Equal(t, http.StatusOK, runWithKey(t, mw, "key-1").Code)
	assert.Equal(t, http.StatusOK, runWithKey(t, mw, "key-2").Code)
}

func TestIdempotencyKeyPassesThroughWithoutHeader(t *testing.T) {
	deduper, err := NewKeyDeduper("", "", 0, time.Minute)
	require.NoError(t, err)
	mw := IdempotencyKey(deduper)

	assert.Equal(t, http.StatusOK, runWithKey(t, mw, "").Code)
	assert.Equal(t, http.StatusOK, runWithKey(t, mw, "").Code)
}

func TestIdempotencyKeyPassesThroughWithNilDeduper(t *testing.T) {
	mw := IdempotencyKey(nil)
	assert.Equal(t, http.StatusOK, runWithKey(t, mw, "abc-123").Code)
}

func TestMemoryDeduperExpiresKeys(t *testing.T) {
	d := newMemoryKeyDeduper(10 * time.Millisecond)

	dup, err := d.Seen(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = d.Seen(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, dup)

	time.Sleep(20 * time.Millisecond)

	dup, err = d.Seen(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, dup)
}
