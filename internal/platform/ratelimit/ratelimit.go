// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit throttles credential endpoints across all API replicas.

The in-process token bucket in the middleware package protects a single node
from floods. Credential guessing needs a shared budget, so this limiter keeps
a fixed-window counter per client in Redis.

Algorithm:

	INCR key; on first hit PEXPIRE key window; reject once count > limit.

The script runs atomically inside Redis, so concurrent replicas never race
between the increment and the expiry.
*/
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/constants"
	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/middleware"
	"github.com/taibuivan/agora/internal/platform/respond"
)

var fixedWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])

local current = redis.call("INCR", key)
if current == 1 then
  redis.call("PEXPIRE", key, window_ms)
end

local ttl = redis.call("PTTL", key)
if ttl < 0 then
  ttl = window_ms
end

if current > limit then
  return {0, ttl}
end
return {1, ttl}
`)

// errUnexpectedReply is returned when the script result has an unknown shape.
var errUnexpectedReply = errors.New("ratelimit: unexpected redis reply")

// Decision is the result of a single [Limiter.Allow] call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is a Redis-backed fixed-window counter.
type Limiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

// New returns a Limiter allowing limit hits per window for each key.
func New(client redis.Scripter, limit int, window time.Duration) (*Limiter, error) {
	if limit <= 0 || window < time.Millisecond {
		return nil, fmt.Errorf("ratelimit: invalid limit %d per %s", limit, window)
	}
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: constants.RedisPrefixRateLimit,
	}, nil
}

// Allow counts one hit against key and reports whether it fits the window.
func (limiter *Limiter) Allow(context context.Context, key string) (Decision, error) {
	windowMS := limiter.window.Milliseconds()

	result, err := fixedWindowScript.Run(context, limiter.client, []string{limiter.prefix + key}, limiter.limit, windowMS).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, errUnexpectedReply
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return Decision{}, errUnexpectedReply
	}

	ttlMS, ok := values[1].(int64)
	if !ok {
		return Decision{}, errUnexpectedReply
	}

	retryAfter := time.Duration(ttlMS) * time.Millisecond
	if retryAfter < 0 {
		retryAfter = 0
	}

	return Decision{Allowed: allowed == 1, RetryAfter: retryAfter}, nil
}

// Middleware rejects requests from a client IP that exhausted its budget for scope.
//
// When Redis is unreachable the request is let through and a warning is
// logged: an outage of the cache must not lock every user out.
func Middleware(limiter *Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			key := scope + ":" + middleware.RealIP(request)

			decision, err := limiter.Allow(request.Context(), key)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_check_failed",
					slog.String("scope", scope),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if !decision.Allowed {
				seconds := int((decision.RetryAfter + time.Second - 1) / time.Second)
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
