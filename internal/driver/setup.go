package driver

import (
	"time"

	"github.com/botforge/forward-driver/internal/request"
)

// Default cadences for maintenance loops.
const (
	DefaultPollInterval      = 3 * time.Second
	DefaultReconnectInterval = 3 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
)

// ConnectionSetup describes one requested connection. It is immutable
// after registration and consumed once by startup.
type ConnectionSetup struct {
	Adapter           string
	Request           request.Request
	PollInterval      time.Duration
	ReconnectInterval time.Duration
}

// SetupOption customizes a connection setup.
type SetupOption func(*ConnectionSetup)

// WithPollInterval sets the wait between polls for HTTP connections.
func WithPollInterval(d time.Duration) SetupOption {
	return func(s *ConnectionSetup) {
		s.PollInterval = d
	}
}

// WithReconnectInterval sets the wait before reopening a broken
// websocket stream.
func WithReconnectInterval(d time.Duration) SetupOption {
	return func(s *ConnectionSetup) {
		s.ReconnectInterval = d
	}
}
