package mockeventtest

import (
	"sync"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Recorder is a mockevent.Bus that keeps every published event.
type Recorder struct {
	inner mockevent.Bus

	mu     sync.Mutex
	events []mockevent.Event
	notify chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		inner:  mockevent.NewBus(),
		notify: make(chan struct{}),
	}
}

// Publish records ev and delivers it to subscribers.
func (r *Recorder) Publish(ev mockevent.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	close(r.notify)
	r.notify = make(chan struct{})
	r.mu.Unlock()

	r.inner.Publish(ev)
}

// Subscribe registers a listener on the underlying bus.
func (r *Recorder) Subscribe(name string, fn mockevent.Listener) func() {
	return r.inner.Subscribe(name, fn)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []mockevent.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]mockevent.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.Name
	}
	return names
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// changed returns the current count and a channel closed on the next publish.
func (r *Recorder) changed() (int, <-chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events), r.notify
}
