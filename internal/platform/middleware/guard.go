// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/agora/internal/platform/apperr"
	"github.com/taibuivan/agora/internal/platform/constants"
	"github.com/taibuivan/agora/internal/platform/respond"
)

// # Global Rate Limit

// ipLimiter keeps one token bucket per client IP in process memory. It is a
// coarse flood guard; the Redis limiter in package ratelimit protects the
// credential endpoints across replicas.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*ipBucket
	limit   rate.Limit
	burst   int
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{buckets: make(map[string]*ipBucket), limit: limit, burst: burst}
}

func (limiter *ipLimiter) allow(ip string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket, ok := limiter.buckets[ip]
	if !ok {
		bucket = &ipBucket{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.buckets[ip] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// evictIdle drops buckets untouched for longer than ttl.
func (limiter *ipLimiter) evictIdle(now time.Time, ttl time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, bucket := range limiter.buckets {
		if now.Sub(bucket.lastSeen) > ttl {
			delete(limiter.buckets, ip)
		}
	}
}

// RateLimit answers 429 once an IP exhausts its bucket. The eviction loop
// stops when context is cancelled.
func RateLimit(context context.Context) func(http.Handler) http.Handler {
	limiter := newIPLimiter(rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				limiter.evictIdle(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !limiter.allow(RealIP(request), time.Now()) {
				respond.Error(writer, request, apperr.RateLimited(1))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # CORS

// AppConfig is the slice of configuration the origin policy reads.
type AppConfig interface {
	IsDevelopment() bool
}

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Accept, Authorization, Content-Type, Content-Length, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID, Retry-After"
	corsMaxAgeSeconds = "300"
)

// CORS echoes trusted origins and short-circuits preflight requests with 204.
// Requests without an Origin header are not touched.
func CORS(cfg AppConfig, allowedSuffix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)
			if OriginAllowed(cfg, allowedSuffix, origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				header.Set("Access-Control-Max-Age", corsMaxAgeSeconds)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// OriginAllowed is the origin policy shared by [CORS] and the websocket
// upgrader. Development trusts every origin.
func OriginAllowed(cfg AppConfig, allowedSuffix, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	return allowedSuffix != "" && strings.HasSuffix(origin, allowedSuffix)
}

// # Client Address

// RealIP returns the client address, trusting X-Real-IP and then the first
// X-Forwarded-For hop set by the ingress proxy.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
