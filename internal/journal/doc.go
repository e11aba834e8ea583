// Package journal implements the optional payload journal.
//
// The journal:
//   - Receives a copy of every payload the driver dispatches
//   - Accepts entries without blocking the maintenance loops
//   - Batches inserts into Postgres, flushing on size or interval
//   - Drops entries (with a warning) when its buffer is full
package journal
