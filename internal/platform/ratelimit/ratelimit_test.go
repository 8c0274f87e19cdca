// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/agora/internal/platform/ratelimit"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, client
}

/*
TestLimiter_FixedWindow admits exactly limit hits, then resets after the window.
*/
func TestLimiter_FixedWindow(t *testing.T) {
	server, client := newRedis(t)
	limiter, err := ratelimit.New(client, 3, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		decision, err := limiter.Allow(ctx, "login:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "hit %d", i+1)
	}

	decision, err := limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, time.Minute)

	// Other clients keep their own budget
	decision, err = limiter.Allow(ctx, "login:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	server.FastForward(time.Minute + time.Second)

	decision, err = limiter.Allow(ctx, "login:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

/*
TestNew_RejectsInvalidConfig guards against a limiter that never admits anyone.
*/
func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, client := newRedis(t)

	_, err := ratelimit.New(client, 0, time.Minute)
	assert.Error(t, err)

	_, err = ratelimit.New(client, 5, 0)
	assert.Error(t, err)
}

/*
TestMiddleware returns 429 with Retry-After once the budget is spent.
*/
func TestMiddleware(t *testing.T) {
	_, client := newRedis(t)
	limiter, err := ratelimit.New(client, 1, 30*time.Second)
	require.NoError(t, err)

	handler := ratelimit.Middleware(limiter, "login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		request.RemoteAddr = "192.0.2.7:5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "30", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")
}

/*
TestMiddleware_FailsOpen lets traffic through when Redis is down.
*/
func TestMiddleware_FailsOpen(t *testing.T) {
	server, client := newRedis(t)
	limiter, err := ratelimit.New(client, 1, time.Minute)
	require.NoError(t, err)
	server.Close()

	handler := ratelimit.Middleware(limiter, "login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
