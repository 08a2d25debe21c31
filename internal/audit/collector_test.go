package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeInserter struct {
	mu      sync.Mutex
	batches [][]Event
}

func (f *fakeInserter) BatchInsert(_ context.Context, events []Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]Event, len(events))
	copy(batch, events)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeInserter) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func TestRecordFlushesAtBatchSize(t *testing.T) {
	store := &fakeInserter{}
	c := NewCollector(store, 3, time.Hour)

	c.Record(Event{Action: ActionLogin})
	c.Record(Event{Action: ActionLogout})
	if store.total() != 0 {
		t.Fatal("should not flush below batch size")
	}

	c.Record(Event{Action: ActionForcedLogout})
	if store.total() != 3 {
		t.Fatalf("expected 3 events flushed, got %d", store.total())
	}
	if c.BufferLen() != 0 {
		t.Errorf("buffer should be empty after flush, has %d", c.BufferLen())
	}
}

func TestStopFlushesRemainder(t *testing.T) {
	store := &fakeInserter{}
	c := NewCollector(store, 100, time.Hour)

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	c.Record(Event{Action: ActionLogin})
	c.Stop()
	<-done

	if store.total() != 1 {
		t.Fatalf("expected final flush of 1 event, got %d", store.total())
	}
}

func TestRecordStampsTimestamp(t *testing.T) {
	store := &fakeInserter{}
	c := NewCollector(store, 1, time.Hour)

	c.Record(Event{Action: ActionUpload})

	if store.total() != 1 {
		t.Fatal("expected immediate flush at batch size 1")
	}
	if store.batches[0][0].Timestamp.IsZero() {
		t.Error("collector should stamp missing timestamps")
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(Event{Action: ActionLogin}) // must not panic
}
