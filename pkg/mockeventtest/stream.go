package mockeventtest

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Stream is a connection opened by Mock.Open whose events are recorded.
type Stream struct {
	t        testing.TB
	conn     *mockevent.Connection
	recorder *Recorder
	timeout  time.Duration
	opened   chan struct{}

	mu   sync.Mutex
	errs []error
}

// Conn returns the underlying connection.
func (s *Stream) Conn() *mockevent.Connection { return s.conn }

// Recorder returns the recording bus.
func (s *Stream) Recorder() *Recorder { return s.recorder }

// Close closes the connection.
func (s *Stream) Close() { s.conn.Close() }

// Errors returns the errors delivered to the connection's error callback.
func (s *Stream) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

// WaitReady blocks until the handler scan has finished.
func (s *Stream) WaitReady() {
	s.t.Helper()
	select {
	case <-s.conn.Ready():
	case <-time.After(s.timeout):
		s.t.Fatalf("connection to %s did not finish scanning within %s", s.conn.URL(), s.timeout)
	}
}

// WaitOpen blocks until the connection is open.
func (s *Stream) WaitOpen() {
	s.t.Helper()
	select {
	case <-s.opened:
	case <-time.After(s.timeout):
		s.t.Fatalf("connection to %s did not open within %s (state %s)", s.conn.URL(), s.timeout, s.conn.ReadyState())
	}
}

// WaitFor blocks until at least n events have been recorded.
func (s *Stream) WaitFor(n int) []mockevent.Event {
	s.t.Helper()
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	for {
		count, changed := s.recorder.changed()
		if count >= n {
			return s.recorder.Events()
		}
		select {
		case <-changed:
		case <-deadline.C:
			s.t.Fatalf("expected %d events on %s within %s, got %d: %v",
				n, s.conn.URL(), s.timeout, count, s.recorder.Names())
			return nil
		}
	}
}

// WaitForEvent blocks until an event named name has been recorded and returns
// the first such event.
func (s *Stream) WaitForEvent(name string) Event {
	s.t.Helper()
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	for {
		_, changed := s.recorder.changed()
		for _, ev := range s.recorder.Events() {
			if ev.Name == name {
				return Event{Event: ev}
			}
		}
		select {
		case <-changed:
		case <-deadline.C:
			s.t.Fatalf("expected event %q on %s within %s, got: %v",
				name, s.conn.URL(), s.timeout, s.recorder.Names())
			return Event{}
		}
	}
}

// Event returns the i-th recorded event, failing the test when absent.
func (s *Stream) Event(i int) Event {
	s.t.Helper()
	events := s.recorder.Events()
	if i < 0 || i >= len(events) {
		s.t.Fatalf("event %d requested but only %d recorded", i, len(events))
		return Event{}
	}
	return Event{Event: events[i]}
}

// AssertNames asserts the exact sequence of recorded event names.
func (s *Stream) AssertNames(names ...string) {
	s.t.Helper()
	got := s.recorder.Names()
	if !slices.Equal(got, names) {
		s.t.Errorf("event names mismatch\nexpected: %q\nactual:   %q", names, got)
	}
}

// AssertNoEvents asserts that nothing was recorded.
func (s *Stream) AssertNoEvents() {
	s.t.Helper()
	if n := s.recorder.Len(); n != 0 {
		s.t.Errorf("expected no events, got %d: %v", n, s.recorder.Names())
	}
}

// AssertState asserts the connection state.
func (s *Stream) AssertState(want mockevent.ReadyState) {
	s.t.Helper()
	if got := s.conn.ReadyState(); got != want {
		s.t.Errorf("expected connection state %s, got %s", want, got)
	}
}
