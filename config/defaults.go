package config

import "time"

// Defaults returns the default configuration values keyed by koanf path.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":        "slotwire",
		"app.version":     "dev",
		"app.environment": "development",
		"app.debug":       false,

		"log.level":  "info",
		"log.format": "text",
		"log.output": "stdout",

		"metrics.enabled": true,
		"metrics.port":    9091,
		"metrics.path":    "/metrics",

		"tap.enabled":         false,
		"tap.host":            "127.0.0.1",
		"tap.port":            8420,
		"tap.max_connections": 100,
		"tap.event_buffer":    64,
		"tap.rate_limit":      200.0,
		"tap.rate_burst":      50,

		"journal.enabled":     false,
		"journal.path":        "",
		"journal.sync_writes": false,
		"journal.buffer_size": 256,

		"bridge.enabled":     false,
		"bridge.addr":        "",
		"bridge.channel":     "slotwire:activity",
		"bridge.buffer_size": 256,

		"tracing.enabled":      false,
		"tracing.exporter":     "otlp",
		"tracing.endpoint":     "",
		"tracing.timeout":      10 * time.Second,
		"tracing.sample_ratio": 1.0,
	}
}
