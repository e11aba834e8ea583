package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if len(c.Connections) == 0 {
		return errors.New("at least one connection is required")
	}

	for i, conn := range c.Connections {
		if err := conn.validate(); err != nil {
			return fmt.Errorf("connections[%d]: %w", i, err)
		}
	}

	if c.Journal.Enabled {
		if err := c.Journal.Database.validate("journal.database"); err != nil {
			return err
		}
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
		if c.Journal.BufferSize < 1 {
			return errors.New("journal.buffer_size must be >= 1")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	return nil
}

func (c ConnectionConfig) validate() error {
	if c.Adapter == "" {
		return errors.New("adapter is required")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", c.URL)
	}

	switch c.Kind {
	case "http":
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("http connection needs http(s) url, got %q", c.URL)
		}
	case "websocket":
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("websocket connection needs ws(s) url, got %q", c.URL)
		}
	default:
		return fmt.Errorf("kind must be http or websocket, got %q", c.Kind)
	}

	if c.PollInterval < 0 {
		return errors.New("poll_interval must be >= 0")
	}
	if c.ReconnectInterval < 0 {
		return errors.New("reconnect_interval must be >= 0")
	}

	return nil
}

func (db DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	return nil
}
