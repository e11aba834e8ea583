package poller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/request"
)

// Sink receives payloads read off the connection. Dispatch must not
// block; message handling happens on its own schedule.
type Sink interface {
	Dispatch(b bot.Bot, payload []byte)
}

// Config holds poll loop configuration.
type Config struct {
	Interval time.Duration // wait between polls (default: 3s)
	Timeout  time.Duration // per-request timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 3 * time.Second,
		Timeout:  30 * time.Second,
	}
}

// Loop maintains one long-polling HTTP session for one bot.
type Loop struct {
	cfg    Config
	bot    bot.Bot
	req    *request.HTTPRequest
	client *http.Client
	sink   Sink
	logger *slog.Logger
}

// New creates a poll loop. The HTTP client lives for the whole loop so
// connections are reused across cycles.
func New(cfg Config, b bot.Bot, req *request.HTTPRequest, sink Sink, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Loop{
		cfg:    cfg,
		bot:    b,
		req:    req,
		client: &http.Client{Timeout: cfg.Timeout},
		sink:   sink,
		logger: logger,
	}
}

// Run polls until ctx is cancelled or a transport error ends the loop.
// Cancellation is a silent exit; anything else is logged and terminates
// only this loop.
func (l *Loop) Run(ctx context.Context) {
	target := l.req.URL().String()

	for {
		if err := l.pollOnce(ctx, target); err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			l.logger.Error("unexpected error while polling",
				"url", target,
				"error", err,
			)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cfg.Interval):
		}
	}
}

// pollOnce issues a single poll cycle. A non-2xx status is recoverable:
// it is logged and the loop carries on without disconnecting the bot.
func (l *Loop) pollOnce(ctx context.Context, target string) error {
	var body io.Reader
	if len(l.req.Body) > 0 {
		body = bytes.NewReader(l.req.Body)
	}

	method := l.req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	for key, values := range l.req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		l.logger.Error("poll request failed",
			"url", target,
			"status", resp.StatusCode,
		)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	l.sink.Dispatch(l.bot, data)
	return nil
}
