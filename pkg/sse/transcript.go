package sse

import (
	"io"
	"log/slog"
	"sync"

	"github.com/getmockd/mockevent/pkg/logging"
	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Transcript is a mockevent.Bus that writes each published event to w in SSE
// format before delivering it to subscribers.
type Transcript struct {
	inner   mockevent.Bus
	encoder *Encoder
	logger  *slog.Logger

	mu     sync.Mutex
	w      io.Writer
	events int
	bytes  int64
	err    error
}

// NewTranscript creates a transcript writing to w.
func NewTranscript(w io.Writer, logger *slog.Logger) *Transcript {
	return &Transcript{
		inner:   mockevent.NewBus(),
		encoder: NewEncoder(),
		logger:  logging.Component(logger, "sse"),
		w:       w,
	}
}

// Publish encodes ev, writes it, then delivers it. Write errors are kept and
// reported by Err; delivery still happens.
func (t *Transcript) Publish(ev mockevent.Event) {
	frame, err := t.encoder.FormatEvent(ev)
	if err != nil {
		t.logger.Warn("event not encodable", "event", ev.Name, "error", err)
	} else {
		t.write(frame)
	}
	t.inner.Publish(ev)
}

// Subscribe registers a listener on the underlying bus.
func (t *Transcript) Subscribe(name string, fn mockevent.Listener) func() {
	return t.inner.Subscribe(name, fn)
}

// Comment writes a comment frame, such as a connection banner.
func (t *Transcript) Comment(text string) {
	t.write(t.encoder.FormatComment(text))
}

// Retry writes a standalone retry frame telling clients to wait retryMs
// milliseconds before reconnecting. Non-positive values are ignored.
func (t *Transcript) Retry(retryMs int) {
	if retryMs <= 0 {
		return
	}
	t.write(t.encoder.FormatRetry(retryMs))
}

// Stats returns the number of frames and bytes written.
func (t *Transcript) Stats() (events int, bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.events, t.bytes
}

// Err returns the first write error, if any.
func (t *Transcript) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Transcript) write(frame string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	n, err := io.WriteString(t.w, frame)
	t.bytes += int64(n)
	if err != nil {
		t.err = err
		return
	}
	t.events++
}
