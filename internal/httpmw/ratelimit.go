package httpmw

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	perSec   float64
	burst    int
	clients  map[string]*clientLimiter
	lastSeen time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

type clientLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewRateLimiter(perSec float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		perSec:   perSec,
		burst:    burst,
		clients:  map[string]*clientLimiter{},
		lastSeen: 10 * time.Minute,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Stop ends the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.perSec), rl.burst)}
		rl.clients[ip] = c
	}
	c.seen = time.Now()
	return c.limiter
}

// cleanup drops buckets for clients idle past the retention window.
func (rl *RateLimiter) cleanup() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-t.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.seen) > rl.lastSeen {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.get(ClientIP(r)).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
