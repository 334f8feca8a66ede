package mockevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewRegistry()
	prev := SetDefault(r)
	t.Cleanup(func() {
		SetDefault(prev)
		r.Close()
	})
	require.NotNil(t, prev)
	assert.Same(t, r, Default())

	h, err := Register(HandlerConfig{URL: "/global/*", Responses: []Response{}})
	require.NoError(t, err)
	assert.Same(t, h, Get(0))
	assert.Len(t, Handlers(), 1)

	waitReady(t, Open("/global/a", ConnectionSettings{}))
	waitReady(t, Open("/elsewhere", ConnectionSettings{}))
	require.Len(t, Missed(), 1)
	assert.Equal(t, "/elsewhere", Missed()[0].URL())

	ClearHandler(0)
	assert.Nil(t, Get(0))
	assert.Len(t, Handlers(), 1)

	Clear()
	assert.Empty(t, Handlers())
	assert.Len(t, Missed(), 1)
}
