// Package mockevent simulates a server-push event stream (EventSource) client
// for tests.
//
// Test code registers handlers describing which URLs they serve and which
// canned events they play back. Opening a connection schedules a scan of the
// registered handlers; the first handler whose URL pattern matches binds to
// the connection, the connection becomes Open, and the handler streams its
// queued responses to the connection one per replay interval.
//
//	reg := mockevent.NewRegistry(mockevent.WithReplayInterval(10 * time.Millisecond))
//	defer reg.Close()
//
//	_, err := reg.Register(mockevent.HandlerConfig{
//	    URL: "/v1/users/*",
//	    Responses: []mockevent.Response{
//	        {Name: "user", ID: "1", Data: map[string]interface{}{"id": 1}},
//	    },
//	})
//
//	conn := reg.Open("/v1/users/1", mockevent.ConnectionSettings{
//	    OnError: func(ev mockevent.Event) { t.Log(ev.Err) },
//	})
//	conn.AddEventListener("user", func(ev mockevent.Event) { t.Log(ev.Data) })
//
// # URL patterns
//
// A literal URL with "*" is an unanchored wildcard: "/api/*" matches
// "/api/x" and also "/x/api/y". Use HandlerConfig.Matcher with a
// *regexp.Regexp or a glob for stricter matching.
//
// # Connections that match nothing
//
// A connection no handler matches is not an error. It is appended to
// Registry.Missed, which tests poll.
//
// # Sharing a handler
//
// A handler owns one response queue and one playback loop, and streams to
// the connection it was most recently bound to. One handler should serve one
// active connection at a time.
package mockevent
