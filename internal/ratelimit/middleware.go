package ratelimit

import (
	"net"
	"net/http"

	"github.com/aurawell/aurawell-web/internal/logger"
)

// Middleware applies the limiter keyed by client IP.
// Place after chi's RealIP middleware so RemoteAddr holds the real client.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				key = r.RemoteAddr
			}

			if !limiter.Allow(key) {
				logger.Ctx(r.Context()).Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
