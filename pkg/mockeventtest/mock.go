package mockeventtest

import (
	"testing"
	"time"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// DefaultTimeout bounds every wait in this package.
const DefaultTimeout = 2 * time.Second

// Mock wraps a registry scoped to one test.
type Mock struct {
	t        testing.TB
	registry *mockevent.Registry
	timeout  time.Duration
}

// New creates a mock registry closed automatically when the test ends.
func New(t testing.TB, opts ...mockevent.Option) *Mock {
	t.Helper()

	m := &Mock{
		t:        t,
		registry: mockevent.NewRegistry(opts...),
		timeout:  DefaultTimeout,
	}
	t.Cleanup(m.registry.Close)
	return m
}

// Registry returns the underlying registry.
func (m *Mock) Registry() *mockevent.Registry {
	return m.registry
}

// SetTimeout changes how long waits block before failing the test.
func (m *Mock) SetTimeout(d time.Duration) {
	m.timeout = d
}

// Handle starts building a handler for url.
//
// Example:
//
//	mock.Handle("/feed").
//	    Respond("update", map[string]int{"n": 1}).
//	    Reply()
func (m *Mock) Handle(url string) *HandlerBuilder {
	return &HandlerBuilder{mock: m, cfg: mockevent.HandlerConfig{URL: url}}
}

// HandleMatching starts building a handler with a custom matcher.
func (m *Mock) HandleMatching(matcher mockevent.Matcher) *HandlerBuilder {
	return &HandlerBuilder{mock: m, cfg: mockevent.HandlerConfig{Matcher: matcher}}
}

// Open opens a recorded stream to url.
func (m *Mock) Open(url string) *Stream {
	m.t.Helper()

	s := &Stream{
		t:        m.t,
		recorder: NewRecorder(),
		timeout:  m.timeout,
		opened:   make(chan struct{}),
	}
	s.conn = m.registry.Open(url, mockevent.ConnectionSettings{
		Bus: s.recorder,
		OnOpen: func(mockevent.OpenInfo) {
			close(s.opened)
		},
		OnError: func(ev mockevent.Event) {
			s.mu.Lock()
			s.errs = append(s.errs, ev.Err)
			s.mu.Unlock()
		},
	})
	return s
}

// Reset removes every handler and the missed list.
func (m *Mock) Reset() {
	m.registry.Clear()
	m.registry.ClearMissed()
}

// AssertMissed asserts that a connection to url was recorded as missed.
func (m *Mock) AssertMissed(url string) {
	m.t.Helper()
	for _, c := range m.registry.Missed() {
		if c.URL() == url {
			return
		}
	}
	m.t.Errorf("expected a missed connection to %s, missed: %v", url, missedURLs(m.registry))
}

// AssertNotMissed asserts that no connection to url was recorded as missed.
func (m *Mock) AssertNotMissed(url string) {
	m.t.Helper()
	for _, c := range m.registry.Missed() {
		if c.URL() == url {
			m.t.Errorf("expected %s to match a handler, but it was missed", url)
			return
		}
	}
}

func missedURLs(r *mockevent.Registry) []string {
	missed := r.Missed()
	urls := make([]string, len(missed))
	for i, c := range missed {
		urls[i] = c.URL()
	}
	return urls
}
