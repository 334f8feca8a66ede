package config

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockevent/internal/matching"
	"github.com/getmockd/mockevent/pkg/mockevent"
)

func TestRegistryOptions(t *testing.T) {
	assert.Nil(t, (&File{}).RegistryOptions())

	f, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	r := mockevent.NewRegistry(f.RegistryOptions()...)
	t.Cleanup(r.Close)

	h, err := r.Register(mockevent.HandlerConfig{URL: "x", Responses: []mockevent.Response{}})
	require.NoError(t, err)
	assert.Equal(t, "/v1/x", h.URL())
	assert.Equal(t, 50*time.Millisecond, h.Interval())
}

func TestHandlerSpec_HandlerConfig(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		cfg, err := HandlerSpec{URL: "/a", Interval: Duration(time.Second), Responses: []mockevent.Response{}}.HandlerConfig()
		require.NoError(t, err)
		assert.Equal(t, "/a", cfg.URL)
		assert.Nil(t, cfg.Matcher)
		assert.Equal(t, time.Second, cfg.Interval)
	})

	t.Run("regex", func(t *testing.T) {
		cfg, err := HandlerSpec{Regex: `^/a/\d+$`, Responses: []mockevent.Response{}}.HandlerConfig()
		require.NoError(t, err)
		re, ok := cfg.Matcher.(*regexp.Regexp)
		require.True(t, ok)
		assert.True(t, re.MatchString("/a/12"))
	})

	t.Run("bad regex", func(t *testing.T) {
		_, err := HandlerSpec{Regex: `(`, Responses: []mockevent.Response{}}.HandlerConfig()
		assert.ErrorContains(t, err, "invalid regex")
	})

	t.Run("glob", func(t *testing.T) {
		cfg, err := HandlerSpec{Glob: "/a/**", Responses: []mockevent.Response{}}.HandlerConfig()
		require.NoError(t, err)
		assert.Equal(t, matching.Glob("/a/**"), cfg.Matcher)
	})

	t.Run("bad glob", func(t *testing.T) {
		_, err := HandlerSpec{Glob: "/a/[", Responses: []mockevent.Response{}}.HandlerConfig()
		assert.Error(t, err)
	})

	t.Run("generator", func(t *testing.T) {
		cfg, err := HandlerSpec{URL: "/a", Generator: &GeneratorSpec{Count: 1, Name: `"x"`, Data: `1`}}.HandlerConfig()
		require.NoError(t, err)
		assert.NotNil(t, cfg.Response)
		assert.Nil(t, cfg.Responses)
	})
}

func TestRegister_AllOrNothingConversion(t *testing.T) {
	r := mockevent.NewRegistry()
	t.Cleanup(r.Close)

	f := &File{Handlers: []HandlerSpec{
		{URL: "/ok", Responses: []mockevent.Response{}},
		{Regex: "(", Responses: []mockevent.Response{}},
	}}
	handlers, err := Register(r, f)
	assert.ErrorContains(t, err, "handler 1 (regex:()")
	assert.Empty(t, handlers)
	assert.Zero(t, r.Len())
}

func TestRegister_PlaysFileHandlers(t *testing.T) {
	f, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	r := mockevent.NewRegistry(append(f.RegistryOptions(), mockevent.WithInitialDelay(0))...)
	t.Cleanup(r.Close)

	handlers, err := Register(r, f)
	require.NoError(t, err)
	require.Len(t, handlers, 2)
	assert.Equal(t, "/v1/users/*", handlers[0].URL())

	var mu sync.Mutex
	var got []mockevent.Event
	bus := mockevent.NewBus()
	bus.Subscribe(mockevent.AllEvents, func(ev mockevent.Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	c := r.Open("/v1/orders/42", mockevent.ConnectionSettings{Bus: bus})
	<-c.Ready()
	assert.Same(t, handlers[1], c.Handler())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "order", got[0].Name)
	assert.JSONEq(t, `{"n": 0}`, got[0].Data)
	assert.JSONEq(t, `{"n": 1}`, got[1].Data)
}
