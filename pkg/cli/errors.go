package cli

import "errors"

// Common CLI errors
var (
	ErrNoMatch = errors.New("no handler matches url")
	ErrTimeout = errors.New("playback did not finish before the timeout")
)
