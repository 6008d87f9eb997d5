// Package httpmiddleware holds net/http middleware shared by the dashboard's
// routes.
package httpmiddleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SimpleTokenBucket is an in-memory per-client rate limiter.
type SimpleTokenBucket struct {
	perMinute int
	burst     int
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	now       func() time.Time
}

// NewSimpleTokenBucket creates limiter with capacity tokens and rate per minute.
func NewSimpleTokenBucket(capacity, perMinute int) *SimpleTokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &SimpleTokenBucket{
		perMinute: perMinute,
		burst:     capacity,
		clients:   make(map[string]*rate.Limiter),
		now:       time.Now,
	}
}

// Limit rejects requests from a client IP that has run out of tokens with
// 429 Too Many Requests. A non-positive rate disables the limit.
func (l *SimpleTokenBucket) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.perMinute > 0 && !l.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "too many attempts, try again in a minute", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Allow takes a token for key and reports whether one was available. A
// non-positive rate allows everything.
func (l *SimpleTokenBucket) Allow(key string) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.clients[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.burst)
		l.clients[key] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(l.now(), 1)
}

// ClientIP is the remote address of r without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
