package mockevent

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/mockevent/internal/matching"
	"github.com/getmockd/mockevent/pkg/metrics"
)

// Matcher is a URL pattern that tests URLs itself. *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(url string) bool
}

// Response is one canned event.
type Response struct {
	// Name is the event name. Required.
	Name string `json:"name" yaml:"name"`

	// Data is the payload, JSON-encoded on dispatch. Required: nil, the empty
	// string and nil pointers, maps and slices count as missing. Zero values
	// such as 0, false and an empty map are valid payloads.
	Data interface{} `json:"data" yaml:"data"`

	// ID becomes the handler's last response id once sent.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// ResponseFunc produces events for a connection by calling h.Send.
// It is called once, when the connection matches.
type ResponseFunc func(h *Handler, c *Connection)

// HandlerConfig describes a handler to register.
type HandlerConfig struct {
	// URL is a literal pattern; "*" matches one or more characters anywhere.
	// Ignored when Matcher is set.
	URL string

	// Matcher overrides URL with a custom pattern such as a *regexp.Regexp.
	Matcher Matcher

	// Namespace is prefixed to URL unless URL already starts with it.
	// Empty uses the registry namespace.
	Namespace string

	// Responses is the canned queue. A non-nil empty slice still streams (nothing).
	Responses []Response

	// Response is an optional generator.
	Response ResponseFunc

	// Interval is the playback period. Zero uses the registry interval.
	Interval time.Duration

	// Enabled overrides the registry default when non-nil.
	Enabled *bool
}

// Handler is a registered mock. Its methods are safe for concurrent use.
type Handler struct {
	id        int
	reg       *Registry
	url       string
	namespace string
	matcher   matching.Matcher
	interval  time.Duration
	generator ResponseFunc
	hasQueue  bool

	mu             sync.Mutex
	all            []Response
	queue          []Response
	enabled        bool
	lastResponseID string
	conn           *Connection
	stopCh         chan struct{}
}

func newHandler(r *Registry, id int, cfg HandlerConfig) (*Handler, error) {
	if cfg.URL == "" && cfg.Matcher == nil {
		return nil, fmt.Errorf("%w: url or matcher is required", ErrInvalidConfig)
	}
	if cfg.Responses == nil && cfg.Response == nil {
		return nil, fmt.Errorf("%w: responses or a response function is required", ErrInvalidConfig)
	}

	h := &Handler{
		id:        id,
		reg:       r,
		namespace: cfg.Namespace,
		interval:  cfg.Interval,
		generator: cfg.Response,
		hasQueue:  cfg.Responses != nil,
		enabled:   r.opts.enabled,
	}
	if h.namespace == "" {
		h.namespace = r.opts.namespace
	}
	if h.interval <= 0 {
		h.interval = r.opts.replayInterval
	}
	h.interval = clampInterval(h.interval)
	if cfg.Enabled != nil {
		h.enabled = *cfg.Enabled
	}

	if cfg.Matcher != nil {
		h.matcher = cfg.Matcher
		h.url = matching.Describe(cfg.Matcher)
	} else {
		h.url = cfg.URL
		if !strings.HasPrefix(h.url, h.namespace) {
			h.url = h.namespace + h.url
		}
		lit, err := matching.NewLiteral(h.url)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		h.matcher = lit
	}

	h.all = cloneResponses(cfg.Responses)
	h.queue = cloneResponses(cfg.Responses)
	return h, nil
}

// ID returns the registration index.
func (h *Handler) ID() int { return h.id }

// URL returns the effective pattern, namespace included.
func (h *Handler) URL() string { return h.url }

// Namespace returns the namespace applied at registration.
func (h *Handler) Namespace() string { return h.namespace }

// Interval returns the playback period.
func (h *Handler) Interval() time.Duration { return h.interval }

// ErrorEventName is the event raised on the bound connection's bus when the
// handler fails.
func (h *Handler) ErrorEventName() string {
	return "mock-event-" + strconv.Itoa(h.id) + "-error"
}

// Matches reports whether url is served by this handler.
func (h *Handler) Matches(url string) bool {
	return h.matcher.MatchString(url)
}

// Enabled reports whether playback is allowed.
func (h *Handler) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled
}

// Pending returns the number of responses left in the queue.
func (h *Handler) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// LastResponseID returns the id of the last response sent to an open connection.
func (h *Handler) LastResponseID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastResponseID
}

// Connection returns the connection playback currently targets, or nil.
func (h *Handler) Connection() *Connection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn
}

// Streaming reports whether a playback loop is running.
func (h *Handler) Streaming() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopCh != nil
}

// Start enables the handler and streams. Without a last response id the queue
// is refilled from the original responses, so playback restarts from the top;
// otherwise it resumes where it stopped.
func (h *Handler) Start() {
	h.mu.Lock()
	h.enabled = true
	if h.lastResponseID == "" {
		h.queue = cloneResponses(h.all)
	}
	h.mu.Unlock()

	h.stream()
}

// Stop disables the handler and ends its playback loop.
func (h *Handler) Stop() {
	h.mu.Lock()
	h.enabled = false
	h.haltLocked()
	h.mu.Unlock()
}

// Clear stops the handler and removes it from its registry slot.
func (h *Handler) Clear() {
	h.Stop()
	h.reg.clearSlot(h.id, h)
}

// Send dispatches one response to the bound connection as a named event.
// A response without a name or payload raises the handler error event instead.
func (h *Handler) Send(resp Response) {
	if resp.Name == "" || missingData(resp.Data) {
		h.raise(fmt.Errorf("%w: `name` and `data` are required on mock handler response object", ErrMalformedResponse), metrics.KindMalformed)
		return
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		h.raise(fmt.Errorf("%w: encoding %q: %v", ErrMalformedResponse, resp.Name, err), metrics.KindMalformed)
		return
	}

	conn := h.Connection()
	if conn == nil {
		h.reg.logger.Debug("no connection bound, response discarded", "handler", h.id, "event", resp.Name)
		return
	}
	conn.bus.Publish(Event{Name: resp.Name, Data: string(data), ID: resp.ID})
	h.reg.opts.metrics.EventDispatched()
}

// Error raises the handler error event for a failure producing responses,
// such as a generator that could not be evaluated. err is wrapped with
// ErrMalformedResponse unless it already is.
func (h *Handler) Error(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, ErrMalformedResponse) {
		err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	h.raise(err, metrics.KindMalformed)
}

func (h *Handler) raise(err error, kind string) {
	h.reg.opts.metrics.HandlerError(kind)

	conn := h.Connection()
	if conn == nil {
		h.reg.logger.Warn("handler error with no connection bound", "handler", h.id, "error", err)
		return
	}
	conn.bus.Publish(Event{Name: h.ErrorEventName(), Err: err})
}

func (h *Handler) bind(c *Connection) {
	h.mu.Lock()
	h.conn = c
	h.mu.Unlock()
}

func (h *Handler) hasResponseSource() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.all) > 0 || h.generator != nil
}

// stream starts the playback loop unless one is running or the handler is disabled.
func (h *Handler) stream() {
	h.mu.Lock()
	if h.stopCh != nil || !h.enabled {
		h.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	h.stopCh = stop
	h.mu.Unlock()

	h.reg.logger.Debug("playback started", "handler", h.id, "interval", h.interval)
	go h.play(stop)
}

// play re-arms its timer after each delivery, so consecutive events are at
// least one interval apart even when a tick runs late.
func (h *Handler) play(stop chan struct{}) {
	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			if !h.tick(stop) && h.finish(stop) {
				return
			}
			timer.Reset(h.interval)
		}
	}
}

// tick plays the head of the queue and reports whether the loop should continue.
func (h *Handler) tick(stop chan struct{}) bool {
	h.mu.Lock()
	if h.stopCh != stop {
		h.mu.Unlock()
		return false
	}
	if len(h.queue) == 0 {
		h.mu.Unlock()
		return false
	}

	resp := h.queue[0]
	h.queue = h.queue[1:]
	more := len(h.queue) > 0
	conn := h.conn
	open := conn != nil && conn.ReadyState() == StateOpen
	if open {
		h.lastResponseID = resp.ID
	}
	h.mu.Unlock()

	if open {
		h.Send(resp)
		return more
	}

	h.reg.opts.metrics.EventDropped()
	if h.reg.opts.verbose {
		url := ""
		if conn != nil {
			url = conn.URL()
		}
		h.reg.logger.Warn("missed response because connection is not open",
			"handler", h.id, "url", url, "event", resp.Name, "id", resp.ID)
	}
	return more
}

// finish ends the loop started with stop once its last response has been
// delivered. It reports false when Start refilled the queue in the meantime.
func (h *Handler) finish(stop chan struct{}) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCh != stop {
		return true
	}
	if len(h.queue) > 0 {
		return false
	}
	h.stopCh = nil
	h.reg.logger.Debug("playback finished", "handler", h.id)
	return true
}

func (h *Handler) haltLocked() {
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
}

func cloneResponses(src []Response) []Response {
	if src == nil {
		return nil
	}
	dst := make([]Response, len(src))
	copy(dst, src)
	return dst
}

// missingData treats nil values, nil references and empty strings as absent.
func missingData(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
