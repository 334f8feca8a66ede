package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

// File is a decoded handler file.
type File struct {
	Options  *Options      `json:"options,omitempty" yaml:"options,omitempty"`
	Handlers []HandlerSpec `json:"handlers" yaml:"handlers"`

	// Source is the path the file was read from, empty for parsed bytes.
	Source string `json:"-" yaml:"-"`
}

// Options mirrors the registry options.
type Options struct {
	InitialDelay   Duration `json:"initialDelay,omitempty" yaml:"initialDelay,omitempty"`
	ReplayInterval Duration `json:"replayInterval,omitempty" yaml:"replayInterval,omitempty"`
	Verbose        *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Enabled        *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace      string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// HandlerSpec describes one handler. Exactly one of URL, Regex and Glob is set.
type HandlerSpec struct {
	URL       string               `json:"url,omitempty" yaml:"url,omitempty"`
	Regex     string               `json:"regex,omitempty" yaml:"regex,omitempty"`
	Glob      string               `json:"glob,omitempty" yaml:"glob,omitempty"`
	Namespace string               `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Interval  Duration             `json:"interval,omitempty" yaml:"interval,omitempty"`
	Enabled   *bool                `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Responses []mockevent.Response `json:"responses,omitempty" yaml:"responses,omitempty"`
	Generator *GeneratorSpec       `json:"generator,omitempty" yaml:"generator,omitempty"`
}

// Pattern returns whichever URL pattern is set, for messages.
func (s HandlerSpec) Pattern() string {
	switch {
	case s.Regex != "":
		return "regex:" + s.Regex
	case s.Glob != "":
		return "glob:" + s.Glob
	default:
		return s.URL
	}
}

// GeneratorSpec produces Count events from expressions. Name and Data are
// required; ID is optional.
type GeneratorSpec struct {
	Count int    `json:"count" yaml:"count"`
	Name  string `json:"name" yaml:"name"`
	Data  string `json:"data" yaml:"data"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Duration accepts Go duration strings ("250ms") or integer milliseconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String formats the duration like time.Duration.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes a duration string or a number of milliseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v interface{}) error {
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(val * float64(time.Millisecond)))
	case int:
		*d = Duration(time.Duration(val) * time.Millisecond)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	if *d < 0 {
		return fmt.Errorf("duration must not be negative: %s", d)
	}
	return nil
}
