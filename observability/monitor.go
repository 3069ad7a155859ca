// Package observability aggregates runtime metrics of the mediator for
// logs and the inspector tooling.
package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"parley/bus"
	"parley/domain/event"
)

// monitorPriority runs the counting handler after every functional handler.
const monitorPriority = 90

// Stats aggregates event throughput and process metrics.
type Stats struct {
	EventsPerSecond float64               `json:"events_per_second"`
	EventCounts     map[event.Type]uint64 `json:"event_counts"`
	AllocMemMb      uint64                `json:"alloc_mem_mb"`
	NumGC           uint32                `json:"num_gc"`
	NumGoroutine    int                   `json:"num_goroutine"`
	BusHealthy      bool                  `json:"bus_healthy"`
}

// Monitor counts every event crossing the bus and periodically folds the
// counters into a snapshot readable at any time.
type Monitor struct {
	log *slog.Logger
	bus *bus.Bus

	mu          sync.RWMutex
	latestStats Stats
	counts      sync.Map

	windowEvents uint64
	lastCheck    time.Time
}

func NewMonitor(log *slog.Logger, b *bus.Bus) *Monitor {
	m := &Monitor{
		log:       log,
		bus:       b,
		lastCheck: time.Now(),
		latestStats: Stats{
			EventCounts: make(map[event.Type]uint64),
		},
	}
	b.SubscribeAll("observability-monitor", m.count, bus.Options{Priority: monitorPriority})
	return m
}

func (m *Monitor) count(_ context.Context, evt event.Event) error {
	counter, _ := m.counts.LoadOrStore(evt.Type, new(uint64))
	atomic.AddUint64(counter.(*uint64), 1)
	atomic.AddUint64(&m.windowEvents, 1)
	return nil
}

// Listen refreshes the snapshot until the context is cancelled.
func (m *Monitor) Listen(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return
		case <-ticker.C:
			m.updateStats()
		}
	}
}

func (m *Monitor) updateStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	duration := now.Sub(m.lastCheck).Seconds()
	if duration > 0 {
		windowed := atomic.SwapUint64(&m.windowEvents, 0)
		m.latestStats.EventsPerSecond = float64(windowed) / duration
	}
	m.lastCheck = now

	counts := make(map[event.Type]uint64)
	m.counts.Range(func(key, value any) bool {
		counts[key.(event.Type)] = atomic.LoadUint64(value.(*uint64))
		return true
	})
	m.latestStats.EventCounts = counts

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.latestStats.AllocMemMb = memStats.Alloc / 1024 / 1024
	m.latestStats.NumGC = memStats.NumGC
	m.latestStats.NumGoroutine = runtime.NumGoroutine()
	m.latestStats.BusHealthy = m.bus.IsHealthy()

	m.log.Debug("stats updated",
		"events_per_second", m.latestStats.EventsPerSecond,
		"mem_mb", m.latestStats.AllocMemMb,
		"goroutines", m.latestStats.NumGoroutine,
	)
}

func (m *Monitor) GetLatest() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestStats
}

// Refresh forces a snapshot update outside the ticker loop.
func (m *Monitor) Refresh() Stats {
	m.updateStats()
	return m.GetLatest()
}
