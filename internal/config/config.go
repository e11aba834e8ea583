package config

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/botforge/forward-driver/internal/request"
)

// Config is the root configuration for a forwardd instance.
type Config struct {
	Driver      DriverConfig       `yaml:"driver"`
	Connections []ConnectionConfig `yaml:"connections"`
	Journal     JournalConfig      `yaml:"journal"`
	Log         LogConfig          `yaml:"log"`
}

// DriverConfig holds driver-wide settings.
type DriverConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ConnectionConfig describes one connection to establish on startup.
type ConnectionConfig struct {
	Adapter           string            `yaml:"adapter"`
	Kind              string            `yaml:"kind"` // "http" or "websocket"
	URL               string            `yaml:"url"`
	Method            string            `yaml:"method"` // HTTP only
	Body              string            `yaml:"body"`   // HTTP only
	Headers           map[string]string `yaml:"headers"`
	PollInterval      time.Duration     `yaml:"poll_interval"`
	ReconnectInterval time.Duration     `yaml:"reconnect_interval"`
}

// JournalConfig holds the optional payload journal settings.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Database      DBConfig      `yaml:"database"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Request converts a connection entry into a driver descriptor.
func (c ConnectionConfig) Request() (request.Request, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", c.URL, err)
	}

	header := make(http.Header, len(c.Headers))
	for key, value := range c.Headers {
		header.Set(key, value)
	}

	switch c.Kind {
	case "http":
		return &request.HTTPRequest{
			Scheme:   u.Scheme,
			Host:     u.Host,
			Path:     u.Path,
			RawQuery: u.RawQuery,
			Method:   c.Method,
			Body:     []byte(c.Body),
			Header:   header,
		}, nil
	case "websocket":
		return &request.WebSocketRequest{
			Scheme:   u.Scheme,
			Host:     u.Host,
			Path:     u.Path,
			RawQuery: u.RawQuery,
			Header:   header,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", request.ErrInvalidKind, c.Kind)
	}
}
