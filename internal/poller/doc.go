// Package poller implements the HTTP long-polling maintenance loop.
//
// The poll loop:
//   - Issues one request per cycle using the descriptor's method and body
//   - Treats non-2xx responses as recoverable and keeps polling
//   - Dispatches each 2xx response body to the bot as fire-and-forget work
//   - Waits the configured interval between cycles
//   - Exits silently on cancellation, loudly on transport errors
package poller
