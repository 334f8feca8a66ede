package mockevent

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// collector records events delivered to it.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) listen(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *collector) names() []string {
	var names []string
	for _, ev := range c.all() {
		names = append(names, ev.Name)
	}
	return names
}

// busWith returns a bus with col subscribed to every event.
func busWith(col *collector) Bus {
	bus := NewBus()
	bus.Subscribe(AllEvents, col.listen)
	return bus
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r := NewRegistry(opts...)
	t.Cleanup(r.Close)
	return r
}

func waitReady(t *testing.T, c *Connection) {
	t.Helper()
	select {
	case <-c.Ready():
	case <-time.After(2 * time.Second):
		t.Fatalf("connection %s never finished scanning", c.URL())
	}
}

func mustRegister(t *testing.T, r *Registry, cfg HandlerConfig) *Handler {
	t.Helper()
	h, err := r.Register(cfg)
	require.NoError(t, err)
	return h
}

func threeResponses() []Response {
	return []Response{
		{Name: "first", ID: "1", Data: map[string]interface{}{"n": 1}},
		{Name: "second", ID: "2", Data: map[string]interface{}{"n": 2}},
		{Name: "third", ID: "3", Data: map[string]interface{}{"n": 3}},
	}
}

func boolPtr(b bool) *bool { return &b }

// syncBuffer is a bytes.Buffer safe for the playback goroutine to log into.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
