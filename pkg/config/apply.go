package config

import (
	"fmt"

	"github.com/getmockd/mockevent/internal/matching"
	"github.com/getmockd/mockevent/pkg/mockevent"
)

// RegistryOptions converts the file options into registry options.
func (f *File) RegistryOptions() []mockevent.Option {
	if f == nil || f.Options == nil {
		return nil
	}
	o := f.Options

	opts := []mockevent.Option{
		mockevent.WithInitialDelay(o.InitialDelay.Std()),
		mockevent.WithNamespace(o.Namespace),
	}
	if o.ReplayInterval > 0 {
		opts = append(opts, mockevent.WithReplayInterval(o.ReplayInterval.Std()))
	}
	if o.Verbose != nil {
		opts = append(opts, mockevent.WithVerbose(*o.Verbose))
	}
	if o.Enabled != nil {
		opts = append(opts, mockevent.WithEnabled(*o.Enabled))
	}
	return opts
}

// HandlerConfig converts a spec into a registration config.
func (s HandlerSpec) HandlerConfig() (mockevent.HandlerConfig, error) {
	cfg := mockevent.HandlerConfig{
		URL:       s.URL,
		Namespace: s.Namespace,
		Interval:  s.Interval.Std(),
		Enabled:   s.Enabled,
		Responses: s.Responses,
	}

	switch {
	case s.Regex != "":
		re, err := matching.CompileRegexp(s.Regex)
		if err != nil {
			return cfg, err
		}
		cfg.Matcher = re
	case s.Glob != "":
		if err := matching.ValidateGlob(s.Glob); err != nil {
			return cfg, err
		}
		cfg.Matcher = matching.Glob(s.Glob)
	}

	if s.Generator != nil {
		g, err := CompileGenerator(*s.Generator)
		if err != nil {
			return cfg, err
		}
		cfg.Response = g.ResponseFunc()
	}

	return cfg, nil
}

// HandlerConfigs converts every handler in the file.
func (f *File) HandlerConfigs() ([]mockevent.HandlerConfig, error) {
	configs := make([]mockevent.HandlerConfig, 0, len(f.Handlers))
	for i, spec := range f.Handlers {
		cfg, err := spec.HandlerConfig()
		if err != nil {
			return nil, fmt.Errorf("handler %d (%s): %w", i, spec.Pattern(), err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Register adds every handler in f to r, in file order. Nothing is registered
// when any handler fails to convert.
func Register(r *mockevent.Registry, f *File) ([]*mockevent.Handler, error) {
	configs, err := f.HandlerConfigs()
	if err != nil {
		return nil, err
	}

	handlers := make([]*mockevent.Handler, 0, len(configs))
	for i, cfg := range configs {
		h, err := r.Register(cfg)
		if err != nil {
			return handlers, fmt.Errorf("handler %d (%s): %w", i, f.Handlers[i].Pattern(), err)
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}
