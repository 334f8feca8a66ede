package mockevent

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mockevent/pkg/metrics"
)

// ReadyState is the connection state. It only moves forward.
type ReadyState int

// Connection states, numbered like EventSource.readyState.
const (
	StateConnecting ReadyState = iota
	StateOpen
	StateClosed
)

func (s ReadyState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("ReadyState(%d)", int(s))
	}
}

// OpenInfo is passed to OnOpen.
type OpenInfo struct {
	Message string `json:"message"`
	Apology string `json:"apology"`
}

var openInfo = OpenInfo{
	Message: "You're open!",
	Apology: "I didn't know what else to say.",
}

// ConnectionSettings configures a connection at open time.
type ConnectionSettings struct {
	// OnOpen is called once when a handler matches.
	OnOpen func(OpenInfo)

	// OnError receives configuration errors and the bound handler's error events.
	OnError func(Event)

	// Bus receives the connection's events. Nil creates a private in-memory bus.
	Bus Bus
}

// Connection is one simulated EventSource client.
type Connection struct {
	id      string
	url     string
	reg     *Registry
	bus     Bus
	onOpen  func(OpenInfo)
	onError func(Event)
	opened  time.Time
	ready   chan struct{}

	mu      sync.Mutex
	state   ReadyState
	handler *Handler
	timer   *time.Timer
}

func newConnection(r *Registry, url string, settings ConnectionSettings) *Connection {
	bus := settings.Bus
	if bus == nil {
		bus = NewBus()
	}
	return &Connection{
		id:      uuid.NewString(),
		url:     url,
		reg:     r,
		bus:     bus,
		onOpen:  settings.OnOpen,
		onError: settings.OnError,
		opened:  time.Now(),
		ready:   make(chan struct{}),
		state:   StateConnecting,
	}
}

// ID returns the connection's unique id.
func (c *Connection) ID() string { return c.id }

// URL returns the requested URL.
func (c *Connection) URL() string { return c.url }

// Bus returns the bus events are published on.
func (c *Connection) Bus() Bus { return c.bus }

// OpenedAt returns when Open was called.
func (c *Connection) OpenedAt() time.Time { return c.opened }

// Ready is closed once the handler scan has finished, matched or not.
func (c *Connection) Ready() <-chan struct{} { return c.ready }

// ReadyState returns the current state.
func (c *Connection) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handler returns the matched handler, or nil.
func (c *Connection) Handler() *Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

// LastEventID returns the matched handler's last response id.
func (c *Connection) LastEventID() string {
	if h := c.Handler(); h != nil {
		return h.LastResponseID()
	}
	return ""
}

// Close moves the connection to StateClosed. Playback is not cancelled; the
// handler drops whatever it dequeues from now on.
func (c *Connection) Close() {
	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
}

// AddEventListener subscribes fn to events named name on the connection's bus.
func (c *Connection) AddEventListener(name string, fn Listener) (remove func()) {
	return c.bus.Subscribe(name, fn)
}

// fail reports err through OnError.
func (c *Connection) fail(err error) {
	if c.onError == nil {
		return
	}
	c.onError(Event{Name: "error", Err: err, Time: time.Now()})
}

// advance moves from one state to the next and reports whether it did.
func (c *Connection) advance(from, to ReadyState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

// scan binds the connection to the first matching handler or records it as missed.
func (c *Connection) scan() {
	defer close(c.ready)

	r := c.reg
	if !r.forget(c) {
		return
	}

	h := r.Match(c.url)
	if h == nil {
		r.recordMissed(c)
		return
	}

	r.opts.metrics.ConnectionMatched()
	r.logger.Debug("connection matched", "connection", c.id, "url", c.url, "handler", h.id)

	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()

	c.bus.Subscribe(h.ErrorEventName(), func(ev Event) {
		c.fail(ev.Err)
	})

	if c.advance(StateConnecting, StateOpen) && c.onOpen != nil {
		c.onOpen(openInfo)
	}

	h.bind(c)

	if !h.hasResponseSource() {
		r.opts.metrics.HandlerError(metrics.KindConfiguration)
		c.fail(fmt.Errorf("%w: handler %s requires response type attribute", ErrConfiguration, h.url))
	}

	if h.generator != nil {
		h.generator(h, c)
	}

	if h.hasQueue {
		h.stream()
	}
}
