package forms

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiter throttles form submissions per browser.
type ClientLimiter struct {
	limit   rate.Limit
	burst   int
	clients map[string]*clientEntry
	mu      sync.Mutex
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter allows perMinute submissions per client, with bursts of
// up to burst. A non-positive perMinute disables limiting.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	l := rate.Inf
	if perMinute > 0 {
		l = rate.Limit(float64(perMinute) / 60)
	}
	return &ClientLimiter{
		limit:   l,
		burst:   burst,
		clients: make(map[string]*clientEntry),
	}
}

// Allow reports whether clientID may submit now, consuming a token if so.
func (c *ClientLimiter) Allow(clientID string) bool {
	if c.limit == rate.Inf {
		return true
	}

	c.mu.Lock()
	e, ok := c.clients[clientID]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[clientID] = e
	}
	e.lastSeen = time.Now()
	c.mu.Unlock()

	return e.limiter.Allow()
}

// Prune forgets clients idle for longer than maxIdle and returns how many
// were removed.
func (c *ClientLimiter) Prune(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, e := range c.clients {
		if e.lastSeen.Before(cutoff) {
			delete(c.clients, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (c *ClientLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}
