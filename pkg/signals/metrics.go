package signals

import (
	"sync"
	"time"
)

// MetricsRecorder defines metrics hooks for registry operations.
type MetricsRecorder interface {
	RecordConnect(signature string, signal string)
	RecordDisconnect(signature string, signal string, removed int)
	RecordEmit(signature string, signal string, delivered int, duration time.Duration)
	RecordRelease(removed int)
}

type nopMetrics struct{}

func (n *nopMetrics) RecordConnect(signature string, signal string)                 {}
func (n *nopMetrics) RecordDisconnect(signature string, signal string, removed int) {}
func (n *nopMetrics) RecordEmit(signature string, signal string, delivered int, duration time.Duration) {
}
func (n *nopMetrics) RecordRelease(removed int) {}

var (
	metricsMu sync.RWMutex
	metrics   MetricsRecorder = &nopMetrics{}
)

// SetMetricsRecorder sets the package-level registry metrics recorder.
func SetMetricsRecorder(recorder MetricsRecorder) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if recorder == nil {
		metrics = &nopMetrics{}
		return
	}
	metrics = recorder
}

func metricsRecorder() MetricsRecorder {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	if metrics == nil {
		return &nopMetrics{}
	}
	return metrics
}
