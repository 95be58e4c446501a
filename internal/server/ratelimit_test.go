package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2.0, 2)

	// Burst of 2 allowed
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))

	// Third immediate request denied
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	limiter := NewRateLimiter(10.0, 1)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// A token refills after ~100ms at 10/sec
	time.Sleep(150 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiter_PerIPIndependence(t *testing.T) {
	limiter := NewRateLimiter(2.0, 2)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// A different IP has its own bucket
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.ActiveLimiters())
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter(1.0, 1)

	e := echo.New()
	handler := limiter.Middleware(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func() int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := handler(c)
		if err != nil {
			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			return httpErr.Code
		}
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run())
	assert.Equal(t, http.StatusTooManyRequests, run())
}
