package mockevent

import (
	"sync/atomic"

	"github.com/getmockd/mockevent/pkg/metrics"
)

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry(WithMetrics(metrics.Default())))
}

// Default returns the process-wide registry used by the package-level functions.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry and returns the previous one.
func SetDefault(r *Registry) *Registry {
	return defaultRegistry.Swap(r)
}

// Register registers a handler on the default registry.
func Register(cfg HandlerConfig) (*Handler, error) {
	return Default().Register(cfg)
}

// Open opens a connection on the default registry.
func Open(url string, settings ConnectionSettings) *Connection {
	return Default().Open(url, settings)
}

// Get returns a handler of the default registry.
func Get(id int) *Handler {
	return Default().Get(id)
}

// Handlers returns every slot of the default registry.
func Handlers() []*Handler {
	return Default().Handlers()
}

// Clear removes every handler from the default registry.
func Clear() {
	Default().Clear()
}

// ClearHandler empties one slot of the default registry.
func ClearHandler(id int) {
	Default().ClearHandler(id)
}

// Missed returns the default registry's unmatched connections.
func Missed() []*Connection {
	return Default().Missed()
}
