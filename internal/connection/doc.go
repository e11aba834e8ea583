// Package connection implements the websocket maintenance loop.
//
// The reconnect loop:
//   - Opens a persistent websocket stream to the descriptor's target
//   - Dispatches text and binary frames to the bot in arrival order
//   - Logs stream errors and reconnects after the configured interval
//   - Detects stale connections via ping/pong keepalive
//   - Exits silently on cancellation, loudly on anything unexpected
package connection
