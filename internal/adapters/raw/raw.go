// Package raw provides a passthrough adapter for standalone forwardd
// deployments. The self ID comes from the descriptor's X-Self-ID
// header and received payloads are logged, not interpreted; real
// platform adapters are registered by embedding applications.
package raw

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/request"
)

// SelfIDHeader carries the bot identity on a raw connection.
const SelfIDHeader = "X-Self-ID"

// Adapter is the raw passthrough adapter.
type Adapter struct {
	logger *slog.Logger
}

// New creates a raw adapter.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string { return "raw" }

// CheckPermission reads the self ID from the descriptor's X-Self-ID
// header. A missing header fails the establishment.
func (a *Adapter) CheckPermission(ctx context.Context, d bot.Driver, req request.Request) (string, map[string]string, error) {
	var selfID string
	switch r := req.(type) {
	case *request.HTTPRequest:
		selfID = r.Header.Get(SelfIDHeader)
	case *request.WebSocketRequest:
		selfID = r.Header.Get(SelfIDHeader)
	default:
		return "", nil, fmt.Errorf("%w: %T", request.ErrInvalidKind, req)
	}

	selfID = strings.TrimSpace(selfID)
	if selfID == "" {
		return "", nil, nil
	}

	return selfID, map[string]string{"driver": d.Type()}, nil
}

// NewBot constructs a logging bot for the established connection.
func (a *Adapter) NewBot(selfID string, req request.Request) bot.Bot {
	return &Bot{
		selfID: selfID,
		logger: a.logger.With("self_id", selfID),
	}
}

// Bot logs every payload it receives.
type Bot struct {
	selfID string
	logger *slog.Logger
}

// SelfID returns the bot identity.
func (b *Bot) SelfID() string { return b.selfID }

// Adapter returns the adapter identifier.
func (b *Bot) Adapter() string { return "raw" }

// HandleMessage logs the payload.
func (b *Bot) HandleMessage(ctx context.Context, payload []byte) error {
	b.logger.Debug("message received", "bytes", len(payload))
	return nil
}
