package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"aiso/tripdesk/internal/common"
	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/metrics"
	"aiso/tripdesk/internal/models/dtos"
)

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	metrics  *metrics.MetricsRegistry
}

func NewIPRateLimiter(rps float64, burst int, m *metrics.MetricsRegistry) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		metrics:  m,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(clientIP(r)).Allow() {
			l.metrics.HTTPRateLimited.Inc()

			common.WriteJSON(w, http.StatusTooManyRequests, dtos.ErrorResponse{
				Error: constants.GetErrorMessage(constants.ErrCodeRateLimited),
				Code:  constants.ErrCodeRateLimited,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
