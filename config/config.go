// Package config provides configuration management for slotwire.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for slotwire daemons and
// examples. The library core needs none of this; it configures the
// ambient observability surfaces around a registry.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Metrics is the Prometheus exposition configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tap is the websocket activity tap configuration.
	Tap TapConfig `mapstructure:"tap"`

	// Journal is the on-disk activity journal configuration.
	Journal JournalConfig `mapstructure:"journal"`

	// Bridge is the Redis activity bridge configuration.
	Bridge BridgeConfig `mapstructure:"bridge"`

	// Tracing is the OpenTelemetry tracing configuration.
	Tracing TracingConfig `mapstructure:"tracing"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Version is the application version.
	Version string `mapstructure:"version"`

	// Environment is the runtime environment.
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	// Debug enables debug mode with verbose logging.
	Debug bool `mapstructure:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format selects the handler (json or text).
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Output is "stdout", "stderr", or a file path.
	Output string `mapstructure:"output"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled enables metrics collection and the exposition server.
	Enabled bool `mapstructure:"enabled"`

	// Port is the exposition server port.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// Path is the exposition endpoint path.
	Path string `mapstructure:"path"`
}

// TapConfig holds websocket activity tap settings.
type TapConfig struct {
	// Enabled enables the tap server.
	Enabled bool `mapstructure:"enabled"`

	// Host is the bind address.
	Host string `mapstructure:"host"`

	// Port is the tap server port.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// AllowedOrigins restricts websocket upgrade origins; empty allows all.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// MaxConnections caps concurrent websocket clients.
	MaxConnections int `mapstructure:"max_connections" validate:"min=0"`

	// EventBuffer is the per-client event buffer size.
	EventBuffer int `mapstructure:"event_buffer" validate:"min=0"`

	// RateLimit is the per-client event rate in events/second; 0 disables.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`

	// RateBurst is the per-client burst allowance when rate limiting.
	RateBurst int `mapstructure:"rate_burst" validate:"min=0"`
}

// JournalConfig holds activity journal settings.
type JournalConfig struct {
	// Enabled enables the badger-backed journal.
	Enabled bool `mapstructure:"enabled"`

	// Path is the journal directory.
	Path string `mapstructure:"path"`

	// SyncWrites forces fsync on every write.
	SyncWrites bool `mapstructure:"sync_writes"`

	// BufferSize is the in-memory write queue length.
	BufferSize int `mapstructure:"buffer_size" validate:"min=0"`
}

// BridgeConfig holds Redis activity bridge settings.
type BridgeConfig struct {
	// Enabled enables the Redis bridge.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr"`

	// Channel is the pub/sub channel activities are published to.
	Channel string `mapstructure:"channel"`

	// BufferSize is the in-memory publish queue length.
	BufferSize int `mapstructure:"buffer_size" validate:"min=0"`
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled enables trace export.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the exporter; only "otlp" is supported.
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the OTLP/gRPC collector endpoint (host:port).
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds exporter calls.
	Timeout time.Duration `mapstructure:"timeout"`

	// Headers are extra headers sent to the collector.
	Headers map[string]string `mapstructure:"headers"`

	// SampleRatio is the trace sampling ratio in [0,1].
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"min=0,max=1"`
}

// Validate performs basic semantic validation beyond struct tags.
func (c *Config) Validate() error {
	if err := ValidateWithDetails(c); err != nil {
		return err
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	if c.Bridge.Enabled && c.Bridge.Addr == "" {
		return fmt.Errorf("bridge.addr is required when the bridge is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	return nil
}
