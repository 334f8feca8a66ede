package mockevent

import (
	"log/slog"
	"time"

	"github.com/getmockd/mockevent/pkg/logging"
	"github.com/getmockd/mockevent/pkg/metrics"
)

// MinReplayInterval is the shortest playback period; tickers need a positive one.
const MinReplayInterval = time.Millisecond

type options struct {
	initialDelay   time.Duration
	replayInterval time.Duration
	verbose        bool
	enabled        bool
	namespace      string
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

func defaultOptions() options {
	return options{
		verbose: true,
		enabled: true,
		logger:  logging.Nop(),
	}
}

// Option configures a Registry.
type Option func(*options)

// WithInitialDelay sets how long a new connection waits before scanning for a handler.
func WithInitialDelay(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.initialDelay = d
	}
}

// WithReplayInterval sets the default playback period of handlers.
func WithReplayInterval(d time.Duration) Option {
	return func(o *options) {
		o.replayInterval = d
	}
}

// WithVerbose controls whether dropped responses are logged at Warn.
func WithVerbose(v bool) Option {
	return func(o *options) {
		o.verbose = v
	}
}

// WithEnabled sets whether new handlers start enabled.
func WithEnabled(v bool) Option {
	return func(o *options) {
		o.enabled = v
	}
}

// WithNamespace sets the default namespace prefixed to handler URLs.
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = logging.Nop()
		}
		o.logger = l
	}
}

// WithMetrics records registry activity into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinReplayInterval {
		return MinReplayInterval
	}
	return d
}
