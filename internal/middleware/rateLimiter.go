package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/JobMatch/internal/config"
	"golang.org/x/time/rate"
)

const (
	clientIdleTTL     = 10 * time.Minute
	clientSweepPeriod = time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter hands every client address its own token bucket.
// Buckets untouched for clientIdleTTL are swept so the map tracks live clients only.
type IPRateLimiter struct {
	mu        sync.RWMutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[string]*clientBucket),
		limit:     limit,
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func DefaultIPRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
}

// Allow spends one token from the bucket of ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()
	b := l.bucket(ip, now)
	b.lastSeen.Store(now.UnixNano())
	return b.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) bucket(ip string, now time.Time) *clientBucket {
	l.mu.RLock()
	b, ok := l.clients[ip]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= clientSweepPeriod {
		l.sweep(now)
	}
	if b, ok = l.clients[ip]; !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = b
	}
	return b
}

// sweep must be called with mu held for writing.
func (l *IPRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-clientIdleTTL).UnixNano()
	for ip, b := range l.clients {
		if b.lastSeen.Load() < cutoff {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func (l *IPRateLimiter) clientCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clients)
}
