// Package health runs readiness checks for the live server.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status is the health of a check or of the whole server.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds a check that sets no timeout.
const DefaultTimeout = 5 * time.Second

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status     Status `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Report is the outcome of all checks.
type Report struct {
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// Check is a named probe. A failing critical check makes the server
// unhealthy; any other failure only degrades it.
type Check struct {
	Name     string
	Probe    func(ctx context.Context) error
	Timeout  time.Duration
	Critical bool
}

// Checker runs checks concurrently.
type Checker struct {
	mu      sync.RWMutex
	checks  []Check
	version string
}

// NewChecker creates a checker reporting version.
func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// Add registers a check.
func (c *Checker) Add(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Names returns the registered check names in sorted order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.checks))
	for i, ch := range c.checks {
		names[i] = ch.Name
	}
	sort.Strings(names)
	return names
}

// Run runs every check and folds the results into a report.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := append([]Check(nil), c.checks...)
	version := c.version
	c.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now(),
		Version:   version,
	}

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, ch := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(ctx, ch)
		}()
	}
	wg.Wait()

	for i, ch := range checks {
		r := results[i]
		report.Checks[ch.Name] = r
		if r.Status == StatusHealthy {
			continue
		}
		if ch.Critical {
			report.Status = StatusUnhealthy
		} else if report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}
	return report
}

func run(ctx context.Context, ch Check) CheckResult {
	timeout := ch.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := ch.Probe(ctx)
	r := CheckResult{Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		r.Status = StatusUnhealthy
		r.Error = err.Error()
	}
	return r
}

// Handler serves the report as JSON: 200 unless a critical check failed,
// 503 otherwise.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	})
}
