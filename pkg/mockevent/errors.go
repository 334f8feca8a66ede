package mockevent

import "errors"

var (
	// ErrInvalidConfig is returned by Register for configurations that can never serve a connection.
	ErrInvalidConfig = errors.New("mockevent: invalid handler configuration")

	// ErrConfiguration is delivered to OnError when a matched handler has no
	// responses and no response function.
	ErrConfiguration = errors.New("mockevent: handler has no response source")

	// ErrMalformedResponse is carried by a handler error event when a response
	// lacks a name or payload, or its payload cannot be encoded.
	ErrMalformedResponse = errors.New("mockevent: malformed response")

	// ErrRegistryClosed is returned by Register after Close.
	ErrRegistryClosed = errors.New("mockevent: registry closed")
)
