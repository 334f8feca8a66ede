package mockevent

import (
	"log/slog"
	"sync"
	"time"

	"github.com/getmockd/mockevent/pkg/logging"
)

// Registry holds handlers in registration order and records missed connections.
//
// Handler ids are slot indexes. ClearHandler leaves a nil slot behind so other
// ids stay valid; Clear drops every slot and numbering restarts at 0.
type Registry struct {
	opts   options
	logger *slog.Logger

	mu       sync.Mutex
	handlers []*Handler
	missed   []*Connection
	pending  map[string]*Connection
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		opts:    o,
		logger:  logging.Component(o.logger, "mockevent"),
		pending: make(map[string]*Connection),
	}
}

// Register creates a handler from cfg and appends it to the registry.
func (r *Registry) Register(cfg HandlerConfig) (*Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	h, err := newHandler(r, len(r.handlers), cfg)
	if err != nil {
		return nil, err
	}
	r.handlers = append(r.handlers, h)

	r.opts.metrics.HandlerRegistered()
	r.logger.Debug("handler registered", "handler", h.id, "url", h.url, "responses", len(h.all))
	return h, nil
}

// Get returns the handler at id, or nil for an empty or unknown slot.
func (r *Registry) Get(id int) *Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.handlers) {
		return nil
	}
	return r.handlers[id]
}

// Handlers returns a copy of every slot, cleared ones as nil.
func (r *Registry) Handlers() []*Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

// Len returns the number of slots, cleared ones included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// ClearHandler stops the handler at id and empties its slot.
func (r *Registry) ClearHandler(id int) {
	r.mu.Lock()
	var h *Handler
	if id >= 0 && id < len(r.handlers) {
		h = r.handlers[id]
		r.handlers[id] = nil
	}
	r.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// clearSlot empties slot id only if it still holds h; after Clear the id may
// belong to a newer handler.
func (r *Registry) clearSlot(id int, h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id >= 0 && id < len(r.handlers) && r.handlers[id] == h {
		r.handlers[id] = nil
	}
}

// Clear stops and removes every handler. The next registration gets id 0.
// The missed list is kept.
func (r *Registry) Clear() {
	r.mu.Lock()
	handlers := r.handlers
	r.handlers = nil
	r.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h.Stop()
		}
	}
}

// Missed returns the connections no handler matched, oldest first.
func (r *Registry) Missed() []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Connection, len(r.missed))
	copy(out, r.missed)
	return out
}

// ClearMissed empties the missed list.
func (r *Registry) ClearMissed() {
	r.mu.Lock()
	r.missed = nil
	r.mu.Unlock()
}

// Match returns the first handler, in registration order, serving url.
func (r *Registry) Match(url string) *Handler {
	for _, h := range r.Handlers() {
		if h != nil && h.Matches(url) {
			return h
		}
	}
	return nil
}

// Open creates a connection to url. After the initial delay it binds to the
// first matching handler, or lands in Missed.
func (r *Registry) Open(url string, settings ConnectionSettings) *Connection {
	c := newConnection(r, url, settings)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		c.state = StateClosed
		close(c.ready)
		return c
	}

	// The timer is armed before Close can see c in pending.
	c.mu.Lock()
	c.timer = time.AfterFunc(r.opts.initialDelay, c.scan)
	c.mu.Unlock()
	r.pending[c.id] = c
	return c
}

// Close stops every playback loop and cancels scans that have not run yet.
// Cancelled connections are closed and their Ready channel released.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	handlers := make([]*Handler, len(r.handlers))
	copy(handlers, r.handlers)
	pending := r.pending
	r.pending = make(map[string]*Connection)
	r.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h.Stop()
		}
	}

	for _, c := range pending {
		c.mu.Lock()
		stopped := c.timer != nil && c.timer.Stop()
		c.state = StateClosed
		c.mu.Unlock()
		if stopped {
			close(c.ready)
		}
	}
}

// forget removes c from the pending scans and reports whether it was still
// there. A scan Close has already cancelled is not pending.
func (r *Registry) forget(c *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[c.id]
	delete(r.pending, c.id)
	return ok
}

func (r *Registry) recordMissed(c *Connection) {
	r.mu.Lock()
	r.missed = append(r.missed, c)
	r.mu.Unlock()

	r.opts.metrics.ConnectionMissed()
	r.logger.Debug("connection missed", "connection", c.id, "url", c.url)
}
