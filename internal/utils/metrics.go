package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

// MetricsSnapshot is a point-in-time view used by the health endpoint.
type MetricsSnapshot struct {
	RequestCount     uint64             `json:"requestCount"`
	ErrorCount       uint64             `json:"errorCount"`
	UptimeSeconds    float64            `json:"uptimeSeconds"`
	AverageLatencyMs map[string]float64 `json:"averageLatencyMs"`
	OperationCounts  map[string]int     `json:"operationCounts"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Snapshot returns the collected metrics in a serializable form.
func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snapshot := MetricsSnapshot{
		RequestCount:     mc.requestCount,
		ErrorCount:       mc.errorCount,
		UptimeSeconds:    time.Since(mc.systemStartTime).Seconds(),
		AverageLatencyMs: make(map[string]float64, len(mc.operationTimes)),
		OperationCounts:  make(map[string]int, len(mc.operationTimes)),
	}

	for operation, latencies := range mc.operationTimes {
		if len(latencies) == 0 {
			continue
		}
		var total int64
		for _, latency := range latencies {
			total += latency
		}
		snapshot.OperationCounts[operation] = len(latencies)
		snapshot.AverageLatencyMs[operation] = float64(total) / float64(len(latencies)) / 1e6
	}

	return snapshot
}
