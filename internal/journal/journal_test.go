package journal

import (
	"context"
	"testing"
	"time"
)

func TestJournal_RecordDropsWhenFull(t *testing.T) {
	j := New(Config{BufferSize: 2, BatchSize: 100, FlushInterval: time.Hour}, nil, nil)

	// Not started, so nothing consumes the buffer.
	j.Record("bot-1", "cq", []byte("a"))
	j.Record("bot-1", "cq", []byte("b"))
	j.Record("bot-1", "cq", []byte("c"))

	if got := j.Stats().Drops; got != 1 {
		t.Errorf("Drops = %d, want 1", got)
	}
	if got := len(j.input); got != 2 {
		t.Errorf("buffered entries = %d, want 2", got)
	}
}

func TestJournal_EntriesCarryIdentity(t *testing.T) {
	j := New(Config{}, nil, nil)

	j.Record("bot-7", "mirai", []byte("payload"))

	entry := <-j.input
	if entry.SelfID != "bot-7" || entry.Adapter != "mirai" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("entry has zero ID")
	}
	if entry.ReceivedAt.IsZero() {
		t.Error("entry has zero ReceivedAt")
	}
	if string(entry.Payload) != "payload" {
		t.Errorf("payload = %q", entry.Payload)
	}
}

func TestJournal_BatchAccumulates(t *testing.T) {
	j := New(Config{BatchSize: 100, FlushInterval: time.Hour}, nil, nil)

	for i := 0; i < 5; i++ {
		j.append(Entry{SelfID: "bot-1"})
	}

	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	if len(j.batch) != 5 {
		t.Errorf("batch size = %d, want 5", len(j.batch))
	}
}

func TestJournal_StartStop(t *testing.T) {
	j := New(Config{FlushInterval: 10 * time.Millisecond}, nil, nil)

	if err := j.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := j.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
