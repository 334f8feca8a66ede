// Package sse renders mock events in the Server-Sent Events wire format.
//
// The mock client never frames bytes itself; this package exists so that what a
// handler plays back can be printed, diffed against golden files, or fed to a
// real EventSource parser. Transcript is a mockevent.Bus that writes every
// published event to an io.Writer as it is delivered.
package sse

import "errors"

// ContentTypeEventStream is the MIME type for SSE responses.
const ContentTypeEventStream = "text/event-stream"

// MaxEventDataSize is the largest data payload the encoder accepts.
const MaxEventDataSize = 1 << 20 // 1MB

// SSE field prefixes per W3C specification
const (
	fieldEvent   = "event:"
	fieldData    = "data:"
	fieldID      = "id:"
	fieldRetry   = "retry:"
	fieldComment = ":"
)

var (
	// ErrInvalidField indicates an event name or id containing a line break.
	ErrInvalidField = errors.New("sse: field contains a line break")

	// ErrEventTooLarge indicates the event data exceeds MaxEventDataSize.
	ErrEventTooLarge = errors.New("sse: event data too large")
)
