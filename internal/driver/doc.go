// Package driver implements the forward connection driver core.
//
// The driver:
//   - Holds registered connection setups and lifecycle hooks
//   - Establishes every requested connection concurrently on startup;
//     one failed establishment aborts the whole batch
//   - Spawns a polling or reconnect loop per established bot
//   - Dispatches received payloads to bots as fire-and-forget work
//   - Shuts everything down exactly once, on a termination signal,
//     parent context cancellation, or a failed startup
package driver
