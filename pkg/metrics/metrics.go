// Package metrics exposes live server counters in the Prometheus text
// format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Namespace prefixes every metric name.
const Namespace = "livesite"

// Metrics holds the live server metrics.
type Metrics struct {
	SocketsActive *Gauge
	SocketsTotal  *Counter

	Events        *CounterVec
	EventErrors   *CounterVec
	EventDuration *Summary

	Navigations *CounterVec

	PageRenders    *CounterVec
	RenderDuration *Summary
}

// New creates the metric set.
func New() *Metrics {
	return &Metrics{
		SocketsActive: NewGauge("sockets_active", "Open live sockets"),
		SocketsTotal:  NewCounter("sockets_total", "Live sockets accepted"),

		Events:        NewCounterVec("events_total", "Client events handled", "event"),
		EventErrors:   NewCounterVec("event_errors_total", "Client events that failed", "event"),
		EventDuration: NewSummary("event_duration_seconds", "Event handling time"),

		Navigations: NewCounterVec("navigations_total", "Resolved link clicks", "effect"),

		PageRenders:    NewCounterVec("page_renders_total", "Pages rendered", "path"),
		RenderDuration: NewSummary("render_duration_seconds", "Page render time"),
	}
}

type writerTo interface {
	writeTo(w io.Writer)
}

// WriteTo writes every metric in the text exposition format. It implements
// io.WriterTo and reports the first write error.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for _, metric := range []writerTo{
		m.SocketsActive, m.SocketsTotal,
		m.Events, m.EventErrors, m.EventDuration,
		m.Navigations,
		m.PageRenders, m.RenderDuration,
	} {
		metric.writeTo(cw)
		if cw.err != nil {
			break
		}
	}
	return cw.n, cw.err
}

// countingWriter counts bytes written and stops writing after the first
// error.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Handler serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = m.WriteTo(w)
	})
}

func header(w io.Writer, name, help, kind string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n# TYPE %s_%s %s\n", Namespace, name, help, Namespace, name, kind)
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

// NewCounter creates a counter.
func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help}
}

// Inc adds one.
func (c *Counter) Inc() { c.value.Add(1) }

// Value returns the current count.
func (c *Counter) Value() int64 { return c.value.Load() }

func (c *Counter) writeTo(w io.Writer) {
	header(w, c.name, c.help, "counter")
	fmt.Fprintf(w, "%s_%s %d\n", Namespace, c.name, c.Value())
}

// Gauge is a value that goes up and down.
type Gauge struct {
	name  string
	help  string
	value atomic.Int64
}

// NewGauge creates a gauge.
func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help}
}

func (g *Gauge) Inc() { g.value.Add(1) }

func (g *Gauge) Dec() { g.value.Add(-1) }

// Value returns the current value.
func (g *Gauge) Value() int64 { return g.value.Load() }

func (g *Gauge) writeTo(w io.Writer) {
	header(w, g.name, g.help, "gauge")
	fmt.Fprintf(w, "%s_%s %d\n", Namespace, g.name, g.Value())
}

// CounterVec is a set of counters keyed by one label.
type CounterVec struct {
	name   string
	help   string
	label  string
	mu     sync.RWMutex
	values map[string]*atomic.Int64
}

// NewCounterVec creates a counter vector.
func NewCounterVec(name, help, label string) *CounterVec {
	return &CounterVec{name: name, help: help, label: label, values: make(map[string]*atomic.Int64)}
}

// Inc adds one to the counter for value.
func (cv *CounterVec) Inc(value string) {
	cv.mu.RLock()
	c, ok := cv.values[value]
	cv.mu.RUnlock()
	if !ok {
		cv.mu.Lock()
		if c, ok = cv.values[value]; !ok {
			c = new(atomic.Int64)
			cv.values[value] = c
		}
		cv.mu.Unlock()
	}
	c.Add(1)
}

// Value returns the count for value.
func (cv *CounterVec) Value(value string) int64 {
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	if c, ok := cv.values[value]; ok {
		return c.Load()
	}
	return 0
}

func (cv *CounterVec) writeTo(w io.Writer) {
	cv.mu.RLock()
	defer cv.mu.RUnlock()

	header(w, cv.name, cv.help, "counter")
	keys := make([]string, 0, len(cv.values))
	for k := range cv.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s_%s{%s=\"%s\"} %d\n", Namespace, cv.name, cv.label, labelEscaper.Replace(k), cv.values[k].Load())
	}
}

// Summary tracks the count and sum of observed durations.
type Summary struct {
	name  string
	help  string
	mu    sync.Mutex
	count int64
	sum   float64
}

// NewSummary creates a summary.
func NewSummary(name, help string) *Summary {
	return &Summary{name: name, help: help}
}

// Observe records d.
func (s *Summary) Observe(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.sum += d.Seconds()
}

// Since records the time elapsed since start.
func (s *Summary) Since(start time.Time) {
	s.Observe(time.Since(start))
}

// Count returns the number of observations.
func (s *Summary) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Summary) writeTo(w io.Writer) {
	s.mu.Lock()
	count, sum := s.count, s.sum
	s.mu.Unlock()

	header(w, s.name, s.help, "summary")
	fmt.Fprintf(w, "%s_%s_sum %g\n", Namespace, s.name, sum)
	fmt.Fprintf(w, "%s_%s_count %d\n", Namespace, s.name, count)
}
