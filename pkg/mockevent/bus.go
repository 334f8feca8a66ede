package mockevent

import (
	"sync"
	"time"
)

// AllEvents subscribes a listener to every event published on a bus.
const AllEvents = "*"

// Event is a dispatched named event.
type Event struct {
	// Name is the response name, or the handler error event name.
	Name string `json:"name"`

	// Data is the JSON-encoded response payload. Empty for error events.
	Data string `json:"data,omitempty"`

	// ID is the response id used as Last-Event-ID.
	ID string `json:"id,omitempty"`

	// Err is set on error events.
	Err error `json:"-"`

	// Time is when the event was published.
	Time time.Time `json:"time"`
}

// Listener receives events.
type Listener func(Event)

// Bus delivers named events to listeners. Publish must deliver synchronously,
// in subscription order, before returning.
type Bus interface {
	Publish(ev Event)

	// Subscribe registers fn for events named name (or AllEvents) and returns
	// a function that removes the subscription.
	Subscribe(name string, fn Listener) (remove func())
}

type subscription struct {
	id int
	fn Listener
}

type memBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

// NewBus returns an in-memory Bus.
func NewBus() Bus {
	return &memBus{subs: make(map[string][]subscription)}
}

func (b *memBus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	// Listeners run unlocked so they may subscribe or publish themselves.
	b.mu.RLock()
	named := b.subs[ev.Name]
	all := b.subs[AllEvents]
	listeners := make([]Listener, 0, len(named)+len(all))
	for _, s := range named {
		listeners = append(listeners, s.fn)
	}
	if ev.Name != AllEvents {
		for _, s := range all {
			listeners = append(listeners, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (b *memBus) Subscribe(name string, fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[name]
			for i, s := range subs {
				if s.id == id {
					b.subs[name] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(b.subs[name]) == 0 {
				delete(b.subs, name)
			}
		})
	}
}
