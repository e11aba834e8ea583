package config

import (
	"net/http"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultRequestTimeout    = 30 * time.Second
	DefaultPollInterval      = 3 * time.Second
	DefaultReconnectInterval = 3 * time.Second
	DefaultMethod            = http.MethodGet
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultBatchSize         = 500
	DefaultFlushInterval     = 1 * time.Second
	DefaultBufferSize        = 10000
	DefaultLogLevel          = "info"
)

func (c *Config) applyDefaults() {
	if c.Driver.RequestTimeout == 0 {
		c.Driver.RequestTimeout = DefaultRequestTimeout
	}

	for i := range c.Connections {
		conn := &c.Connections[i]
		if conn.Method == "" {
			conn.Method = DefaultMethod
		}
		if conn.PollInterval == 0 {
			conn.PollInterval = DefaultPollInterval
		}
		if conn.ReconnectInterval == 0 {
			conn.ReconnectInterval = DefaultReconnectInterval
		}
	}

	if c.Journal.Enabled {
		applyDBDefaults(&c.Journal.Database)
		if c.Journal.BatchSize == 0 {
			c.Journal.BatchSize = DefaultBatchSize
		}
		if c.Journal.FlushInterval == 0 {
			c.Journal.FlushInterval = DefaultFlushInterval
		}
		if c.Journal.BufferSize == 0 {
			c.Journal.BufferSize = DefaultBufferSize
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
