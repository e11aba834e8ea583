package connection

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/request"
)

// Sink receives frames read off the stream. Dispatch must not block;
// message handling happens on its own schedule.
type Sink interface {
	Dispatch(b bot.Bot, payload []byte)
}

// Loop maintains one persistent websocket session for one bot,
// reconnecting after stream errors.
type Loop struct {
	cfg    Config
	bot    bot.Bot
	req    *request.WebSocketRequest
	sink   Sink
	logger *slog.Logger
}

// NewLoop creates a reconnect loop.
func NewLoop(cfg Config, b bot.Bot, req *request.WebSocketRequest, sink Sink, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = def.ReconnectInterval
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	return &Loop{
		cfg:    cfg,
		bot:    b,
		req:    req,
		sink:   sink,
		logger: logger,
	}
}

// Run keeps the stream open until ctx is cancelled. Each pass dials one
// connection, consumes frames until the stream breaks, then waits the
// reconnect interval before dialing again. Failed dials retry on the
// same cadence. Cancellation is a silent exit.
func (l *Loop) Run(ctx context.Context) {
	target := l.req.URL().String()

	for {
		client := NewClient(ClientConfig{
			URL:              target,
			Header:           l.req.Header,
			HandshakeTimeout: l.cfg.HandshakeTimeout,
			BufferSize:       l.cfg.BufferSize,
		}, l.logger)

		if err := client.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("websocket connect failed, retrying",
				"url", target,
				"error", err,
			)
		} else {
			l.consume(ctx, client, target)
			client.Close()
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.cfg.ReconnectInterval):
		}
	}
}

// consume reads frames from one connection until it breaks. Every data
// frame is dispatched fire-and-forget in arrival order; an error frame
// forces a reconnect.
func (l *Loop) consume(ctx context.Context, client *Client, target string) {
	for {
		select {
		case <-ctx.Done():
			return

		case err := <-client.Errors():
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Debug("websocket closed by peer, reconnecting", "url", target)
				return
			}
			l.logger.Error("error on websocket stream, reconnecting",
				"url", target,
				"error", err,
			)
			return

		case frame, ok := <-client.Frames():
			if !ok {
				return
			}
			l.sink.Dispatch(l.bot, frame.Data)
		}
	}
}
