// Package bridge forwards registry activity to external observers over
// Redis Pub/Sub. The bridge is observability fan-out only: signal
// delivery stays in-process and synchronous, and nothing ever flows
// back from Redis into a registry.
package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/slotwire/slotwire/pkg/logger"
	"github.com/slotwire/slotwire/pkg/signals"
)

const (
	// DefaultChannel is the pub/sub channel used when none is configured.
	DefaultChannel = "slotwire:activity"

	defaultBufferSize = 256
)

// Config holds bridge configuration.
type Config struct {
	Channel string

	// BufferSize is the in-memory publish queue length. Activity past a
	// full queue is dropped, never blocked on.
	BufferSize int
}

// RedisBridge publishes activity records as JSON to a Redis channel.
// Publishing happens on a background forwarder so the observer hook
// never waits on the network.
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	log     logger.Logger

	mu     sync.Mutex
	closed bool

	queue  chan signals.Activity
	done   chan struct{}
	cancel context.CancelFunc
}

// NewRedisBridge creates a bridge on an existing Redis client. The
// caller retains ownership of the client.
func NewRedisBridge(client redis.UniversalClient, cfg Config) *RedisBridge {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBridge{
		client:  client,
		channel: cfg.Channel,
		log:     logger.Global().With("component", "bridge"),
		queue:   make(chan signals.Activity, cfg.BufferSize),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go b.forward(ctx)
	return b
}

// ObserveActivity enqueues one activity record for publishing. When the
// queue is full the record is dropped.
func (b *RedisBridge) ObserveActivity(act signals.Activity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.queue <- act:
	default:
		b.log.Warn("bridge queue full, dropping activity", "kind", act.Kind)
	}
}

func (b *RedisBridge) forward(ctx context.Context) {
	defer close(b.done)
	for act := range b.queue {
		data, err := json.Marshal(act)
		if err != nil {
			b.log.Error("bridge marshal failed", "error", err)
			continue
		}
		if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
			b.log.Warn("bridge publish failed", "channel", b.channel, "error", err)
		}
	}
}

// Healthy reports whether the Redis backend answers a ping.
func (b *RedisBridge) Healthy(ctx context.Context) bool {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return false
	}
	return b.client.Ping(ctx).Err() == nil
}

// Channel returns the pub/sub channel activities are published to.
func (b *RedisBridge) Channel() string {
	return b.channel
}

// Close drains the publish queue and stops the forwarder. The Redis
// client is left open for its owner.
func (b *RedisBridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done
	b.cancel()
	return nil
}
