package sse

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockevent/pkg/mockevent"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTranscript_WritesAndDelivers(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranscript(&buf, nil)

	var got []string
	tr.Subscribe("tick", func(ev mockevent.Event) { got = append(got, ev.Data) })

	tr.Comment("connected")
	tr.Publish(mockevent.Event{Name: "tick", Data: "1", ID: "a"})
	tr.Publish(mockevent.Event{Name: "tick", Data: "2"})

	assert.Equal(t, []string{"1", "2"}, got)
	assert.Equal(t, ":connected\n\nevent:tick\nid:a\ndata:1\n\nevent:tick\ndata:2\n\n", buf.String())

	events, n := tr.Stats()
	assert.Equal(t, 3, events)
	assert.Equal(t, int64(buf.Len()), n)
	assert.NoError(t, tr.Err())
}

func TestTranscript_UnencodableEventStillDelivered(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranscript(&buf, nil)

	delivered := 0
	tr.Subscribe(mockevent.AllEvents, func(mockevent.Event) { delivered++ })
	tr.Publish(mockevent.Event{Name: "bad\nname", Data: "1"})

	assert.Equal(t, 1, delivered)
	assert.Zero(t, buf.Len())
}

func TestTranscript_WriteErrorIsSticky(t *testing.T) {
	tr := NewTranscript(failingWriter{}, nil)

	tr.Publish(mockevent.Event{Name: "a", Data: "1"})
	tr.Publish(mockevent.Event{Name: "b", Data: "2"})

	require.Error(t, tr.Err())
	assert.Contains(t, tr.Err().Error(), "disk full")
	events, _ := tr.Stats()
	assert.Zero(t, events)
}

func TestTranscript_AsConnectionBus(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranscript(&buf, nil)

	r := mockevent.NewRegistry(mockevent.WithReplayInterval(2 * time.Millisecond))
	t.Cleanup(r.Close)

	_, err := r.Register(mockevent.HandlerConfig{
		URL:       "/stream",
		Responses: []mockevent.Response{{Name: "greeting", Data: map[string]string{"hi": "there"}, ID: "1"}},
	})
	require.NoError(t, err)

	c := r.Open("/stream", mockevent.ConnectionSettings{Bus: tr})
	require.Eventually(t, func() bool {
		events, _ := tr.Stats()
		return events == 1
	}, 2*time.Second, 5*time.Millisecond)
	c.Close()

	assert.Equal(t, "event:greeting\nid:1\ndata:{\"hi\":\"there\"}\n\n", buf.String())
}

func TestTranscript_Retry(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranscript(&buf, nil)

	tr.Retry(0)
	tr.Retry(-5)
	assert.Zero(t, buf.Len())

	tr.Retry(3000)
	tr.Publish(mockevent.Event{Name: "tick", Data: "1"})

	assert.Equal(t, "retry:3000\n\nevent:tick\ndata:1\n\n", buf.String())
	frames, n := tr.Stats()
	assert.Equal(t, 2, frames)
	assert.Equal(t, int64(buf.Len()), n)
}
