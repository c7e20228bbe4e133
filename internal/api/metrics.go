package api

import (
	"sync"
	"time"
)

// Metrics counts requests per route with an explicit export/reset lifecycle:
// one instance per server, exported via the metrics endpoint, reset on
// demand. No package-level state.
type Metrics struct {
	mu       sync.Mutex
	start    time.Time
	requests map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		start:    time.Now(),
		requests: make(map[string]int64),
	}
}

func (m *Metrics) Inc(route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[route]++
}

// Snapshot is the exported form of the counters.
type Snapshot struct {
	UptimeSeconds int64            `json:"uptimeSeconds"`
	Requests      map[string]int64 `json:"requests"`
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make(map[string]int64, len(m.requests))
	for route, count := range m.requests {
		requests[route] = count
	}
	return Snapshot{
		UptimeSeconds: int64(time.Since(m.start).Seconds()),
		Requests:      requests,
	}
}

// Reset clears the counters but keeps the process start time.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int64)
}
