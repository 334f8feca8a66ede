package mockeventtest

import (
	"time"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// HandlerBuilder builds handler configurations using a fluent API.
type HandlerBuilder struct {
	mock *Mock
	cfg  mockevent.HandlerConfig
}

// Respond queues a response without an id.
func (b *HandlerBuilder) Respond(name string, data interface{}) *HandlerBuilder {
	return b.RespondWithID(name, data, "")
}

// RespondWithID queues a response with an id.
func (b *HandlerBuilder) RespondWithID(name string, data interface{}, id string) *HandlerBuilder {
	b.cfg.Responses = append(b.cfg.Responses, mockevent.Response{Name: name, Data: data, ID: id})
	return b
}

// Responses queues several responses at once.
func (b *HandlerBuilder) Responses(responses ...mockevent.Response) *HandlerBuilder {
	b.cfg.Responses = append(b.cfg.Responses, responses...)
	return b
}

// Generate sets a response function.
func (b *HandlerBuilder) Generate(fn mockevent.ResponseFunc) *HandlerBuilder {
	b.cfg.Response = fn
	return b
}

// Every sets the playback interval.
func (b *HandlerBuilder) Every(interval time.Duration) *HandlerBuilder {
	b.cfg.Interval = interval
	return b
}

// Namespace sets the handler namespace.
func (b *HandlerBuilder) Namespace(ns string) *HandlerBuilder {
	b.cfg.Namespace = ns
	return b
}

// Disabled registers the handler without starting playback on connect.
func (b *HandlerBuilder) Disabled() *HandlerBuilder {
	enabled := false
	b.cfg.Enabled = &enabled
	return b
}

// Config returns the configuration built so far.
func (b *HandlerBuilder) Config() mockevent.HandlerConfig {
	return b.cfg
}

// Reply registers the handler, failing the test on error. A builder with no
// responses and no generator registers an empty queue.
func (b *HandlerBuilder) Reply() *mockevent.Handler {
	t := b.mock.t
	t.Helper()

	cfg := b.cfg
	if cfg.Responses == nil && cfg.Response == nil {
		cfg.Responses = []mockevent.Response{}
	}
	h, err := b.mock.registry.Register(cfg)
	if err != nil {
		t.Fatalf("failed to register handler %q: %v", cfg.URL, err)
		return nil
	}
	return h
}
