package bot

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry is the connected-bots table. A self ID maps to at most one
// live bot at a time; establishers insert and loop finalizers remove.
type Registry struct {
	mu     sync.RWMutex
	bots   map[string]Bot
	logger *slog.Logger
}

// NewRegistry creates an empty connected-bots registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		bots:   make(map[string]Bot),
		logger: logger,
	}
}

// Connect inserts a bot keyed by its self ID. A second bot with the same
// self ID is rejected with ErrDuplicateBot; establishments racing on the
// same ID therefore serialize here.
func (r *Registry) Connect(b Bot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	selfID := b.SelfID()
	if _, exists := r.bots[selfID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBot, selfID)
	}

	r.bots[selfID] = b
	r.logger.Info("bot connected",
		"self_id", selfID,
		"adapter", b.Adapter(),
		"total_bots", len(r.bots),
	)
	return nil
}

// Disconnect removes a bot. The removal only happens when the table
// still holds this exact bot, so a finalizer cannot evict a newer bot
// that reused the self ID. Calling it again is a no-op.
func (r *Registry) Disconnect(b Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	selfID := b.SelfID()
	if current, exists := r.bots[selfID]; exists && current == b {
		delete(r.bots, selfID)
		r.logger.Info("bot disconnected",
			"self_id", selfID,
			"adapter", b.Adapter(),
			"total_bots", len(r.bots),
		)
	}
}

// Get returns the connected bot with the given self ID.
func (r *Registry) Get(selfID string) (Bot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bots[selfID]
	return b, ok
}

// List returns all connected bots.
func (r *Registry) List() []Bot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bots := make([]Bot, 0, len(r.bots))
	for _, b := range r.bots {
		bots = append(bots, b)
	}
	return bots
}

// Count returns the number of connected bots.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bots)
}
