package api

import (
	"math"
	"net"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flixlens/flixlens/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a limiter allowing perMinute requests per client.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return ratelimit.PerMinute(perMinute, burst)
}

// rateLimit returns operation middleware that limits requests by client IP.
// Returns 429 Too Many Requests with Retry-After when the limit is exceeded.
func (s *Server) rateLimit(limiter *RateLimiter) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if limiter == nil {
			next(ctx)
			return
		}

		key := clientIP(ctx.RemoteAddr())
		if !limiter.Allow(key) {
			retry := limiter.RetryAfter(key)
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
				"retry_after", retry,
			)
			ctx.SetHeader("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			_ = huma.WriteErr(s.api, ctx, 429, "Too many downloads. Please try again later.")
			return
		}

		next(ctx)
	}
}

// clientIP strips the port from a remote address. chi's RealIP middleware
// has already replaced it with the forwarded client address when present.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
