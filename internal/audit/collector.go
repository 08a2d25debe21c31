// Package audit buffers security-relevant events in memory and flushes
// them to Postgres in batches. When no database is configured the
// Recorder interface is satisfied by a no-op, so callers never check.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder is what the web layer depends on.
type Recorder interface {
	Record(e Event)
}

// Nop is a Recorder that drops everything. Used when auditing is disabled.
type Nop struct{}

func (Nop) Record(Event) {}

// BatchInserter is the interface used by Collector to persist events. It
// exists to allow testing without a real database.
type BatchInserter interface {
	BatchInsert(ctx context.Context, events []Event) error
}

// Collector buffers events and periodically flushes them in batches. It is
// safe for concurrent use.
type Collector struct {
	store         BatchInserter
	buffer        []Event
	mu            sync.Mutex
	batchSize     int
	flushInterval time.Duration
	done          chan struct{}
}

// NewCollector creates a Collector that flushes when the buffer reaches
// batchSize or every flushInterval, whichever comes first.
func NewCollector(store BatchInserter, batchSize int, flushInterval time.Duration) *Collector {
	return &Collector{
		store:         store,
		buffer:        make([]Event, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}
}

// Start runs the flush loop until Stop is called or the context is
// cancelled.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-ctx.Done():
			c.flush()
			return
		case <-c.done:
			c.flush()
			return
		}
	}
}

// Record buffers an event, stamping the time if unset. A full buffer
// triggers an immediate flush.
func (c *Collector) Record(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, e)
	shouldFlush := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if shouldFlush {
		c.flush()
	}
}

// flush drains the buffer into the store. Errors are logged, not returned:
// audit writes must never block or fail a user request.
func (c *Collector) flush() {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.buffer
	c.buffer = make([]Event, 0, c.batchSize)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.store.BatchInsert(ctx, batch); err != nil {
		slog.Error("failed to flush audit events", "count", len(batch), "error", err)
	}
}

// Stop signals the flush loop to exit and performs a final flush.
func (c *Collector) Stop() {
	close(c.done)
}

// BufferLen reports the current buffer size (for metrics).
func (c *Collector) BufferLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}
