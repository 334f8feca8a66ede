// Package logging builds the slog loggers used by mockevent.
//
// Registries accept a *slog.Logger through mockevent.WithLogger. When none is
// given they log nothing; the CLI builds one from its --log-level and
// --log-format flags:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	reg := mockevent.NewRegistry(mockevent.WithLogger(logger))
//
// Dropped responses are logged at Warn when the registry is verbose. Matches,
// misses and playback start/stop are logged at Debug.
package logging
