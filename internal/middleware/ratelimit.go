package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitMiddleware provides basic in-memory rate limiting keyed by
// client IP.
type RateLimitMiddleware struct {
	requests map[string][]int64 // IP -> timestamps
	mu       sync.Mutex
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
func NewRateLimitMiddleware() *RateLimitMiddleware {
	return &RateLimitMiddleware{
		requests: make(map[string][]int64),
	}
}

// RateLimit applies rate limiting based on IP address.
func (m *RateLimitMiddleware) RateLimit(maxRequests int, windowSeconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			now := time.Now().Unix()
			windowStart := now - int64(windowSeconds)

			m.mu.Lock()

			if timestamps, exists := m.requests[clientIP]; exists {
				var validTimestamps []int64
				for _, ts := range timestamps {
					if ts >= windowStart {
						validTimestamps = append(validTimestamps, ts)
					}
				}
				m.requests[clientIP] = validTimestamps
			}

			if len(m.requests[clientIP]) >= maxRequests {
				m.mu.Unlock()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			m.requests[clientIP] = append(m.requests[clientIP], now)
			m.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.Split(ip, ",")[0]
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if colonIndex := strings.LastIndex(ip, ":"); colonIndex != -1 {
		ip = ip[:colonIndex]
	}
	return ip
}
