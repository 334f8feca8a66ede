// Package mockeventtest provides a testing SDK for mock event streams in Go tests.
//
// # Basic Usage
//
// Create a mock, register a handler with a fluent builder, open a stream and
// assert on what it received:
//
//	func TestFeed(t *testing.T) {
//	    mock := mockeventtest.New(t)
//
//	    mock.Handle("/feed/*").
//	        Respond("greeting", map[string]string{"hello": "world"}).
//	        RespondWithID("tick", 1, "1").
//	        Every(5 * time.Millisecond).
//	        Reply()
//
//	    stream := mock.Open("/feed/live")
//	    stream.WaitOpen()
//	    stream.WaitFor(2)
//
//	    stream.AssertNames("greeting", "tick")
//	    stream.Event(0).AssertJSON(t, `{"hello": "world"}`)
//	    stream.Event(0).AssertPath(t, "$.hello", "world")
//	}
//
// # Missed Connections
//
//	stream := mock.Open("/unknown")
//	stream.WaitReady()
//	mock.AssertMissed("/unknown")
//
// Cleanup is automatic: the registry is closed when the test ends.
package mockeventtest
