package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// rateLimitAuth limits auth operations per client IP.
// Returns 429 Too Many Requests when the caller's bucket is empty.
func (s *Server) rateLimitAuth(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())

	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"operation", ctx.Operation().OperationID,
		)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	next(ctx)
}
