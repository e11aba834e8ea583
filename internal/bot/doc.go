// Package bot defines the adapter and bot contracts plus the two
// process-wide registries the driver works against:
//
//   - AdapterRegistry: adapter name → adapter, injected at configuration
//     time (no dynamic lookup at call sites)
//   - Registry: the connected-bots table, self ID → live bot
//
// Message handling itself is opaque to the driver; a bot only exposes
// HandleMessage over raw payload bytes.
package bot
