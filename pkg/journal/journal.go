// Package journal persists registry activity to an append-only Badger
// store for later inspection or replay. The journal is an observer: it
// records dispatch that already happened and never affects it.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/slotwire/slotwire/pkg/logger"
	"github.com/slotwire/slotwire/pkg/signals"
)

const (
	entryPrefix = "activity:"
	seqKey      = "journal:seq"

	defaultBufferSize = 256
)

// Config holds journal configuration.
type Config struct {
	Path       string
	SyncWrites bool

	// BufferSize is the in-memory write queue length. Activity past a
	// full queue is dropped, never blocked on.
	BufferSize int
}

// Journal is a Badger-backed, append-only activity log. Writes are
// queued from the observer hook and flushed by a background writer so
// dispatch never waits on disk.
type Journal struct {
	db  *badger.DB
	seq *badger.Sequence
	log logger.Logger

	mu     sync.Mutex
	closed bool

	queue chan signals.Activity
	done  chan struct{}
}

// Open opens (or creates) a journal at cfg.Path.
func Open(cfg Config) (*Journal, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal: path is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("journal: open store: %w", err)
	}

	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: open sequence: %w", err)
	}

	j := &Journal{
		db:    db,
		seq:   seq,
		log:   logger.Global().With("component", "journal"),
		queue: make(chan signals.Activity, cfg.BufferSize),
		done:  make(chan struct{}),
	}
	go j.writeLoop()
	return j, nil
}

func entryKey(seq uint64) []byte {
	// Zero-padded so lexicographic key order is append order.
	return []byte(fmt.Sprintf("%s%020d", entryPrefix, seq))
}

// ObserveActivity enqueues one activity record. When the queue is full
// the record is dropped; the journal trades completeness for never
// stalling dispatch.
func (j *Journal) ObserveActivity(act signals.Activity) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}
	select {
	case j.queue <- act:
	default:
		j.log.Warn("journal queue full, dropping activity", "kind", act.Kind)
	}
}

func (j *Journal) writeLoop() {
	defer close(j.done)
	for act := range j.queue {
		if err := j.append(act); err != nil {
			j.log.Error("journal append failed", "error", err)
		}
	}
}

func (j *Journal) append(act signals.Activity) error {
	n, err := j.seq.Next()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	data, err := json.Marshal(act)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(n), data)
	})
}

// Replay invokes fn for every journaled activity in append order.
// Returning an error from fn stops the replay and surfaces the error.
func (j *Journal) Replay(ctx context.Context, fn func(signals.Activity) error) error {
	return j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(entryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var act signals.Activity
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &act)
			})
			if err != nil {
				return fmt.Errorf("journal: decode entry %s: %w", it.Item().Key(), err)
			}
			if err := fn(act); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of journaled entries.
func (j *Journal) Len() (int, error) {
	count := 0
	err := j.Replay(context.Background(), func(signals.Activity) error {
		count++
		return nil
	})
	return count, err
}

// Close drains the write queue, releases the sequence, and closes the
// store. The journal must not be used afterwards.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	<-j.done

	if err := j.seq.Release(); err != nil {
		_ = j.db.Close()
		return fmt.Errorf("journal: release sequence: %w", err)
	}
	return j.db.Close()
}
