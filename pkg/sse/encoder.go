package sse

import (
	"fmt"
	"strings"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Encoder formats mock events per the W3C event stream format.
// See: https://html.spec.whatwg.org/multipage/server-sent-events.html
type Encoder struct{}

// NewEncoder creates a new SSE encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// FormatEvent formats a dispatched event. Error events, which carry no data,
// become comment lines naming the error so transcripts stay parseable.
func (e *Encoder) FormatEvent(ev mockevent.Event) (string, error) {
	if ev.Err != nil {
		return e.FormatComment(ev.Name + ": " + ev.Err.Error()), nil
	}
	return e.FormatFields(ev.Name, ev.Data, ev.ID)
}

// FormatFields formats one event from its fields. Multiline data is split into
// several data lines.
func (e *Encoder) FormatFields(name, data, id string) (string, error) {
	if strings.ContainsAny(name, "\r\n") || strings.ContainsAny(id, "\r\n") {
		return "", ErrInvalidField
	}
	if len(data) > MaxEventDataSize {
		return "", ErrEventTooLarge
	}

	var sb strings.Builder

	if name != "" {
		sb.WriteString(fieldEvent)
		sb.WriteString(name)
		sb.WriteByte('\n')
	}

	if id != "" {
		sb.WriteString(fieldID)
		sb.WriteString(id)
		sb.WriteByte('\n')
	}

	for _, line := range strings.Split(data, "\n") {
		sb.WriteString(fieldData)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	// A blank line dispatches the event.
	sb.WriteByte('\n')
	return sb.String(), nil
}

// FormatComment formats a comment block. Comments start with ":" and are
// ignored by EventSource clients.
func (e *Encoder) FormatComment(comment string) string {
	var sb strings.Builder
	for _, line := range strings.Split(comment, "\n") {
		sb.WriteString(fieldComment)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// FormatRetry formats a standalone retry message.
func (e *Encoder) FormatRetry(retryMs int) string {
	return fmt.Sprintf("%s%d\n\n", fieldRetry, retryMs)
}
