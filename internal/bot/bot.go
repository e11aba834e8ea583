package bot

import (
	"context"
	"errors"

	"github.com/botforge/forward-driver/internal/request"
)

// Errors
var (
	ErrUnknownAdapter = errors.New("unknown adapter")
	ErrSetupFailed    = errors.New("setup failed")
	ErrDuplicateBot   = errors.New("bot already connected")
)

// Bot is a live connection to the remote platform, produced by a
// successful permission check.
type Bot interface {
	// SelfID returns the platform-assigned identity of this bot.
	SelfID() string

	// Adapter returns the name of the adapter that built this bot.
	Adapter() string

	// HandleMessage processes one raw payload received on the connection.
	// The driver invokes it as independent, fire-and-forget work.
	HandleMessage(ctx context.Context, payload []byte) error
}

// Driver is the view of the driver passed to permission checks.
type Driver interface {
	// Type identifies the driver implementation (e.g. "forward").
	Type() string
}

// Adapter builds bots for one remote platform.
type Adapter interface {
	// Name returns the adapter identifier used in connection setups.
	Name() string

	// CheckPermission performs the handshake for a requested connection
	// and returns the bot's self ID plus optional metadata. An empty
	// self ID fails the establishment.
	CheckPermission(ctx context.Context, d Driver, req request.Request) (selfID string, metadata map[string]string, err error)

	// NewBot constructs a bot for an established connection.
	NewBot(selfID string, req request.Request) Bot
}
