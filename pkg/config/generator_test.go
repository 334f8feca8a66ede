package config

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

func TestCompileGenerator(t *testing.T) {
	tests := []struct {
		name    string
		spec    GeneratorSpec
		wantErr string
	}{
		{name: "valid", spec: GeneratorSpec{Count: 1, Name: `"a"`, Data: `1`}},
		{name: "zero count", spec: GeneratorSpec{Count: 0, Name: `"a"`, Data: `1`}, wantErr: "count"},
		{name: "missing name", spec: GeneratorSpec{Count: 1, Data: `1`}, wantErr: "name expression is required"},
		{name: "syntax error", spec: GeneratorSpec{Count: 1, Name: `"a"`, Data: `{`}, wantErr: "compile generator data"},
		{name: "unknown variable", spec: GeneratorSpec{Count: 1, Name: `"a"`, Data: `1`, ID: `nope + 1`}, wantErr: "compile generator id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := CompileGenerator(tt.spec)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, g)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGenerator_Responses(t *testing.T) {
	g, err := CompileGenerator(GeneratorSpec{
		Count: 3,
		Name:  `index % 2 == 0 ? "even" : "odd"`,
		Data:  `{"n": index, "url": url, "handler": handler}`,
		ID:    `string(index + 1)`,
	})
	require.NoError(t, err)

	got, err := g.Responses(4, "/feed")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "even", got[0].Name)
	assert.Equal(t, "odd", got[1].Name)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[2].ID)
	assert.Equal(t, map[string]interface{}{"n": 2, "url": "/feed", "handler": 4}, got[2].Data)
}

func TestGenerator_NonStringNameIsFormatted(t *testing.T) {
	g, err := CompileGenerator(GeneratorSpec{Count: 1, Name: `index + 7`, Data: `"x"`})
	require.NoError(t, err)

	got, err := g.Responses(0, "/")
	require.NoError(t, err)
	assert.Equal(t, "7", got[0].Name)
	assert.Empty(t, got[0].ID)
}

func TestGenerator_ResponseFuncRaisesEvaluationError(t *testing.T) {
	g, err := CompileGenerator(GeneratorSpec{Count: 3, Name: `"n"`, Data: `[10, 20][index]`})
	require.NoError(t, err)

	r := mockevent.NewRegistry(mockevent.WithInitialDelay(0))
	t.Cleanup(r.Close)

	h, err := r.Register(mockevent.HandlerConfig{URL: "/gen", Response: g.ResponseFunc()})
	require.NoError(t, err)

	var mu sync.Mutex
	var data []string
	var errs []error
	bus := mockevent.NewBus()
	bus.Subscribe("n", func(ev mockevent.Event) {
		mu.Lock()
		data = append(data, ev.Data)
		mu.Unlock()
	})
	bus.Subscribe(h.ErrorEventName(), func(ev mockevent.Event) {
		mu.Lock()
		errs = append(errs, ev.Err)
		mu.Unlock()
	})

	c := r.Open("/gen", mockevent.ConnectionSettings{Bus: bus})
	<-c.Ready()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"10", "20"}, data, "responses generated before the failure are still sent")
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], mockevent.ErrMalformedResponse))
	assert.ErrorContains(t, errs[0], "eval generator data")
	assert.ErrorContains(t, errs[0], "index out of range")
}
