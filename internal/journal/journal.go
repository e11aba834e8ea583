package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one journaled payload.
type Entry struct {
	ID         uuid.UUID
	SelfID     string
	Adapter    string
	Payload    []byte
	ReceivedAt time.Time
}

// Config holds journal configuration.
type Config struct {
	BatchSize     int           // rows per insert batch
	FlushInterval time.Duration // max time an entry sits in the batch
	BufferSize    int           // input channel capacity
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// Metrics counts journal activity.
type Metrics struct {
	Inserts int64
	Drops   int64
	Errors  int64
	Flushes int64
}

// Journal batches dispatched payloads into the message_journal table.
type Journal struct {
	cfg    Config
	db     *pgxpool.Pool
	logger *slog.Logger

	input chan Entry

	batch   []Entry
	batchMu sync.Mutex
	metrics Metrics

	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a journal writing to the given pool.
func New(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &Journal{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan Entry, cfg.BufferSize),
		batch:  make([]Entry, 0, cfg.BatchSize),
	}
}

// Start begins consuming entries and flushing batches.
func (j *Journal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.flushTicker = time.NewTicker(j.cfg.FlushInterval)

	j.wg.Add(1)
	go j.consumeLoop()

	j.wg.Add(1)
	go j.flushLoop()

	j.logger.Info("journal started",
		"batch_size", j.cfg.BatchSize,
		"flush_interval", j.cfg.FlushInterval,
	)
	return nil
}

// Stop drains the journal and performs a final flush.
func (j *Journal) Stop(ctx context.Context) error {
	j.logger.Info("stopping journal")

	if j.cancel != nil {
		j.cancel()
	}
	if j.flushTicker != nil {
		j.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		j.logger.Warn("journal stop timed out")
	}

	j.flush()

	j.logger.Info("journal stopped")
	return nil
}

// Record enqueues one payload without blocking. Entries are dropped
// when the buffer is full; the maintenance loops must never stall on
// the journal.
func (j *Journal) Record(selfID, adapter string, payload []byte) {
	entry := Entry{
		ID:         uuid.New(),
		SelfID:     selfID,
		Adapter:    adapter,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}

	select {
	case j.input <- entry:
	default:
		j.batchMu.Lock()
		j.metrics.Drops++
		j.batchMu.Unlock()
		j.logger.Warn("journal buffer full, dropping entry", "self_id", selfID)
	}
}

// Stats returns current metrics.
func (j *Journal) Stats() Metrics {
	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	return j.metrics
}

// consumeLoop reads entries and accumulates batches.
func (j *Journal) consumeLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case entry := <-j.input:
			j.append(entry)
		}
	}
}

// flushLoop periodically flushes the batch.
func (j *Journal) flushLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-j.flushTicker.C:
			j.flush()
		}
	}
}

func (j *Journal) append(entry Entry) {
	j.batchMu.Lock()
	j.batch = append(j.batch, entry)
	shouldFlush := len(j.batch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if shouldFlush {
		j.flush()
	}
}

// flush writes the current batch to the database.
func (j *Journal) flush() {
	j.batchMu.Lock()
	if len(j.batch) == 0 {
		j.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := j.batch
	j.batch = make([]Entry, 0, j.cfg.BatchSize)
	j.batchMu.Unlock()

	start := time.Now()

	if err := j.batchInsert(batch); err != nil {
		j.logger.Error("batch insert failed", "error", err, "count", len(batch))
		j.batchMu.Lock()
		j.metrics.Errors++
		j.batchMu.Unlock()
		return
	}

	j.batchMu.Lock()
	j.metrics.Inserts += int64(len(batch))
	j.metrics.Flushes++
	j.batchMu.Unlock()

	j.logger.Debug("flushed journal entries",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts entries using pgx.Batch with ON CONFLICT DO NOTHING.
func (j *Journal) batchInsert(entries []Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO message_journal (id, self_id, adapter, payload, received_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, e.ID, e.SelfID, e.Adapter, e.Payload, e.ReceivedAt)
	}

	results := j.db.SendBatch(context.Background(), batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
