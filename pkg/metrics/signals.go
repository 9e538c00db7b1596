package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (m *Manager) initSignalMetrics(cfg Config) {
	buckets := cfg.EmitDurationBuckets
	if len(buckets) == 0 {
		buckets = DefaultConfig().EmitDurationBuckets
	}

	m.connectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotwire_connects_total",
			Help: "Total number of connections registered",
		},
		[]string{"signature", "signal"},
	)

	m.disconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotwire_disconnects_total",
			Help: "Total number of disconnect calls that removed at least one record",
		},
		[]string{"signature", "signal"},
	)

	m.emitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotwire_emits_total",
			Help: "Total number of signal emits",
		},
		[]string{"signature", "signal"},
	)

	m.slotsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotwire_slot_invocations_total",
			Help: "Total number of slot invocations delivered by emits",
		},
		[]string{"signature", "signal"},
	)

	m.releasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slotwire_object_releases_total",
			Help: "Total number of bindings removed by whole-object releases",
		},
	)

	m.connectionsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "slotwire_connections_live",
			Help: "Current number of registered connections",
		},
	)

	m.emitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotwire_emit_duration_seconds",
			Help:    "Emit dispatch duration in seconds",
			Buckets: buckets,
		},
		[]string{"signature", "signal"},
	)

	m.registry.MustRegister(m.connectsTotal)
	m.registry.MustRegister(m.disconnectsTotal)
	m.registry.MustRegister(m.emitsTotal)
	m.registry.MustRegister(m.slotsDelivered)
	m.registry.MustRegister(m.releasesTotal)
	m.registry.MustRegister(m.connectionsLive)
	m.registry.MustRegister(m.emitDuration)
}

// RecordConnect records one registered connection.
func (m *Manager) RecordConnect(signature string, signal string) {
	if !m.enabled {
		return
	}
	m.connectsTotal.WithLabelValues(signature, signal).Inc()
	m.connectionsLive.Inc()
}

// RecordDisconnect records a disconnect that removed matching records.
func (m *Manager) RecordDisconnect(signature string, signal string, removed int) {
	if !m.enabled {
		return
	}
	m.disconnectsTotal.WithLabelValues(signature, signal).Inc()
	m.connectionsLive.Sub(float64(removed))
}

// RecordEmit records one emit and its delivery fan-out.
func (m *Manager) RecordEmit(signature string, signal string, delivered int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.emitsTotal.WithLabelValues(signature, signal).Inc()
	m.slotsDelivered.WithLabelValues(signature, signal).Add(float64(delivered))
	m.emitDuration.WithLabelValues(signature, signal).Observe(duration.Seconds())
}

// RecordRelease records a whole-object release.
func (m *Manager) RecordRelease(removed int) {
	if !m.enabled {
		return
	}
	m.releasesTotal.Add(float64(removed))
	m.connectionsLive.Sub(float64(removed))
}
