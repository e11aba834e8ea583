package connection

import (
	"errors"
	"net/http"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Frame is one data frame read off the websocket.
type Frame struct {
	Type       int       // websocket.TextMessage or websocket.BinaryMessage
	Data       []byte    // raw frame payload
	ReceivedAt time.Time // local timestamp when the frame was read
}

// ClientConfig configures a websocket client.
type ClientConfig struct {
	URL              string        // target address built from the descriptor
	Header           http.Header   // headers sent during the handshake
	HandshakeTimeout time.Duration // dial timeout
	PingInterval     time.Duration // keepalive ping cadence
	PingTimeout      time.Duration // max silence before the connection is stale
	WriteTimeout     time.Duration // write deadline for sends
	BufferSize       int           // frame channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 30 * time.Second,
		PingInterval:     15 * time.Second,
		PingTimeout:      60 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       256,
	}
}

// Config holds reconnect loop configuration.
type Config struct {
	ReconnectInterval time.Duration // wait before reopening the stream (default: 3s)
	HandshakeTimeout  time.Duration // dial timeout (default: 30s)
	BufferSize        int           // per-connection frame buffer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconnectInterval: 3 * time.Second,
		HandshakeTimeout:  30 * time.Second,
		BufferSize:        256,
	}
}
