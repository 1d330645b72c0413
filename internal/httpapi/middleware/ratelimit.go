package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hamed0406/uptimehistory/internal/metrics"
)

// tokenBucket: per-client bucket holding at most burst tokens, refilled at rate per second.
type tokenBucket struct {
	tokens float64
	last   time.Time
}

type limiter struct {
	rate  float64 // tokens per second
	burst float64
	mu    sync.Mutex
	m     map[string]*tokenBucket
	ttl   time.Duration // idle buckets older than this are dropped
	swept time.Time
	now   func() time.Time
}

func newLimiter(rps float64, burst int, ttl time.Duration) *limiter {
	if burst < 1 {
		burst = 1
	}
	return &limiter{
		rate:  rps,
		burst: float64(burst),
		m:     make(map[string]*tokenBucket),
		ttl:   ttl,
		now:   time.Now,
	}
}

// allow takes one token for key. When the bucket is empty it also reports
// how long until the next token is available.
func (l *limiter) allow(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	tb := l.m[key]
	if tb == nil {
		tb = &tokenBucket{tokens: l.burst, last: now}
		l.m[key] = tb
	}
	elapsed := now.Sub(tb.last).Seconds()
	tb.tokens = math.Min(l.burst, tb.tokens+elapsed*l.rate)
	tb.last = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true, 0
	}
	wait := time.Duration((1.0 - tb.tokens) / l.rate * float64(time.Second))
	return false, wait
}

// sweep drops idle buckets at most once per ttl. Caller holds mu.
func (l *limiter) sweep(now time.Time) {
	if l.ttl <= 0 || now.Sub(l.swept) < l.ttl {
		return
	}
	for k, tb := range l.m {
		if now.Sub(tb.last) > l.ttl {
			delete(l.m, k)
		}
	}
	l.swept = now
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// RateLimit returns a middleware that rate-limits by client IP.
// Example: RateLimit(120, 60) => 120 req/min with burst 60
func RateLimit(reqPerMin int, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(float64(reqPerMin)/60.0, burst, 10*time.Minute)
	return l.middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.allow(clientIP(r))
		if !ok {
			metrics.RateLimited.Inc()
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// honor X-Forwarded-For if behind a proxy
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
