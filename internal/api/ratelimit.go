package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/listenupapp/pressroom/internal/http/response"
	"github.com/listenupapp/pressroom/internal/ratelimit"
)

// authPathPrefix selects the stricter session-exchange allowance.
const authPathPrefix = "/api/v1/auth/"

// rateLimit throttles requests per client IP. Health checks and the event
// stream are exempt.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/api/v1/events" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		limiter := s.publicLimiter
		if strings.HasPrefix(r.URL.Path, authPathPrefix) {
			limiter = s.authLimiter
		}

		if !allow(limiter, clientIP(r)) {
			s.logger.Warn("Rate limit exceeded",
				"ip", clientIP(r),
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func allow(limiter *ratelimit.KeyedRateLimiter, key string) bool {
	return limiter == nil || limiter.Allow(key)
}

// clientIP returns the caller address. middleware.RealIP has already folded
// X-Forwarded-For and X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
