package driver

import (
	"context"
	"fmt"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/connection"
	"github.com/botforge/forward-driver/internal/poller"
	"github.com/botforge/forward-driver/internal/request"
)

// establish performs the handshake for one setup: adapter lookup,
// permission check, registration in the connected-bots table, and
// spawning of the maintenance loop. The bot is visible in the table as
// soon as this returns, before its loop has processed any traffic.
func (d *Driver) establish(ctx context.Context, setup ConnectionSetup) error {
	adapter, ok := d.adapters.Get(setup.Adapter)
	if !ok {
		return fmt.Errorf("%w: %q", bot.ErrUnknownAdapter, setup.Adapter)
	}

	selfID, metadata, err := adapter.CheckPermission(ctx, d, setup.Request)
	if err != nil {
		return fmt.Errorf("check permission for adapter %q: %w", setup.Adapter, err)
	}
	if selfID == "" {
		return fmt.Errorf("%w: adapter %q returned no self id", bot.ErrSetupFailed, setup.Adapter)
	}

	b := adapter.NewBot(selfID, setup.Request)
	if err := d.bots.Connect(b); err != nil {
		return err
	}

	logger := d.logger.With("self_id", selfID, "adapter", setup.Adapter)
	logger.Info("connection established", "kind", setup.Request.Kind(), "metadata", metadata)

	switch req := setup.Request.(type) {
	case *request.HTTPRequest:
		loop := poller.New(poller.Config{
			Interval: setup.PollInterval,
			Timeout:  d.requestTimeout,
		}, b, req, d, logger)
		d.spawn(func() {
			defer d.bots.Disconnect(b)
			loop.Run(d.ctx)
		})

	case *request.WebSocketRequest:
		loop := connection.NewLoop(connection.Config{
			ReconnectInterval: setup.ReconnectInterval,
			HandshakeTimeout:  d.requestTimeout,
		}, b, req, d, logger)
		d.spawn(func() {
			defer d.bots.Disconnect(b)
			loop.Run(d.ctx)
		})
	}

	return nil
}
