// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants collects the fixed names and limits shared across
// packages: server timeouts, the per-IP flood guard, header names, and the
// Redis key space.
package constants

import "time"

const (
	AppName    = "agora-api"
	AppVersion = "0.1.0-dev"
)

// # HTTP Server

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout bounds a non-streaming request and every SQL statement.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window after SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Flood Guard (per IP, in memory)

const (
	DefaultRateLimitRPS      = 100.0
	DefaultRateLimitBurst    = 150
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Headers

const (
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXRequestID    = "X-Request-ID"
)

// # Redis Keys
//
// Every key starts with "agora:" so the instance can be shared.

const (
	RedisPrefixVerifyToken = "agora:auth:verify:"
	RedisPrefixRateLimit   = "agora:auth:rl:"
	RedisPrefixTopicFeed   = "agora:topic:"
)
