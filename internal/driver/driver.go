package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"reflect"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/botforge/forward-driver/internal/bot"
	"github.com/botforge/forward-driver/internal/request"
)

// Hook is a lifecycle callback invoked during startup or shutdown.
type Hook func(ctx context.Context) error

// Recorder receives a copy of every dispatched payload.
type Recorder interface {
	Record(selfID, adapter string, payload []byte)
}

// Driver owns the whole connection lifecycle: setups, establishment,
// maintenance loops, hooks and the single shutdown path.
type Driver struct {
	adapters *bot.AdapterRegistry
	bots     *bot.Registry
	logger   *slog.Logger
	recorder Recorder

	requestTimeout time.Duration

	mu            sync.Mutex
	setups        []ConnectionSetup
	startupHooks  map[uintptr]Hook
	shutdownHooks map[uintptr]Hook

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	shutdownOnce sync.Once
	done         chan struct{}
}

// Option customizes a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithRecorder attaches a payload recorder (e.g. the journal).
func WithRecorder(r Recorder) Option {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithRequestTimeout overrides the fixed per-request timeout used by
// maintenance loops.
func WithRequestTimeout(t time.Duration) Option {
	return func(d *Driver) {
		d.requestTimeout = t
	}
}

// New creates a driver working against the given adapter registry.
func New(adapters *bot.AdapterRegistry, opts ...Option) *Driver {
	d := &Driver{
		adapters:       adapters,
		requestTimeout: DefaultRequestTimeout,
		startupHooks:   make(map[uintptr]Hook),
		shutdownHooks:  make(map[uintptr]Hook),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.bots = bot.NewRegistry(d.logger)
	return d
}

// Type identifies this driver implementation.
func (d *Driver) Type() string { return "forward" }

// Bots returns the connected-bots registry.
func (d *Driver) Bots() *bot.Registry { return d.bots }

// OnStartup registers a startup hook and returns it, so it can be used
// decorator-style. Registering the same function twice is a no-op.
func (d *Driver) OnStartup(fn Hook) Hook {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startupHooks[reflect.ValueOf(fn).Pointer()] = fn
	return fn
}

// OnShutdown registers a shutdown hook. Idempotent like OnStartup.
func (d *Driver) OnShutdown(fn Hook) Hook {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdownHooks[reflect.ValueOf(fn).Pointer()] = fn
	return fn
}

// RequestConnection registers one connection to establish on startup.
// No network activity happens here. Descriptors that are neither HTTP
// nor websocket are rejected.
func (d *Driver) RequestConnection(adapter string, req request.Request, opts ...SetupOption) error {
	switch req.(type) {
	case *request.HTTPRequest, *request.WebSocketRequest:
	default:
		return fmt.Errorf("%w: %T", request.ErrInvalidKind, req)
	}

	setup := ConnectionSetup{
		Adapter:           adapter,
		Request:           req,
		PollInterval:      DefaultPollInterval,
		ReconnectInterval: DefaultReconnectInterval,
	}
	for _, opt := range opts {
		opt(&setup)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.setups = append(d.setups, setup)
	return nil
}

// Run installs termination-signal handling, schedules startup and
// blocks until the driver has fully shut down. SIGHUP, SIGTERM and
// SIGINT each trigger Shutdown exactly once; so does cancellation of
// the parent context.
func (d *Driver) Run(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			d.logger.Info("received shutdown signal", "signal", sig.String())
			d.Shutdown(sig)
		case <-ctx.Done():
			d.Shutdown(nil)
		case <-d.done:
		}
	}()

	d.spawn(func() { d.startup() })

	<-d.done
	return nil
}

// startup establishes every pending setup concurrently. Any failure
// aborts the whole batch and triggers shutdown without running startup
// hooks. On success the startup hooks run as one coarse batch whose
// failure is logged and ignored.
func (d *Driver) startup() {
	d.mu.Lock()
	setups := make([]ConnectionSetup, len(d.setups))
	copy(setups, d.setups)
	hooks := make([]Hook, 0, len(d.startupHooks))
	for _, h := range d.startupHooks {
		hooks = append(hooks, h)
	}
	d.mu.Unlock()

	g, gctx := errgroup.WithContext(d.ctx)
	for _, setup := range setups {
		g.Go(func() error {
			return d.establish(gctx, setup)
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.Error("startup failed, exiting", "error", err)
		go d.Shutdown(nil)
		return
	}

	if len(hooks) == 0 {
		return
	}
	hg, hctx := errgroup.WithContext(d.ctx)
	for _, hook := range hooks {
		hg.Go(func() error {
			return hook(hctx)
		})
	}
	if err := hg.Wait(); err != nil {
		d.logger.Warn("error when running startup hook, ignored", "error", err)
	}
}

// Shutdown tears the driver down exactly once: shutdown hooks first
// (failures logged, non-fatal), then a coarse cancellation sweep over
// every loop and pending dispatch, then the blocked Run returns.
// Safe to invoke concurrently and repeatedly; sig records the
// originating termination signal, if any.
func (d *Driver) Shutdown(sig os.Signal) {
	d.shutdownOnce.Do(func() {
		if sig != nil {
			d.logger.Info("shutting down", "signal", sig.String())
		} else {
			d.logger.Info("shutting down")
		}

		d.mu.Lock()
		hooks := make([]Hook, 0, len(d.shutdownHooks))
		for _, h := range d.shutdownHooks {
			hooks = append(hooks, h)
		}
		d.mu.Unlock()

		if len(hooks) > 0 {
			g, gctx := errgroup.WithContext(context.Background())
			for _, hook := range hooks {
				g.Go(func() error {
					return hook(gctx)
				})
			}
			if err := g.Wait(); err != nil {
				d.logger.Warn("error when running shutdown hook, ignored", "error", err)
			}
		}

		if d.cancel != nil {
			d.cancel()
		}
		d.wg.Wait()

		close(d.done)
		d.logger.Info("driver stopped")
	})
}

// Dispatch hands one received payload to the bot as independent,
// non-awaited work. Completion order across dispatches is unspecified.
func (d *Driver) Dispatch(b bot.Bot, payload []byte) {
	if d.recorder != nil {
		d.recorder.Record(b.SelfID(), b.Adapter(), payload)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := b.HandleMessage(d.ctx, payload); err != nil {
			d.logger.Error("message handler failed",
				"self_id", b.SelfID(),
				"adapter", b.Adapter(),
				"error", err,
			)
		}
	}()
}

// spawn runs fn as driver-scoped work awaited by Shutdown.
func (d *Driver) spawn(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}
