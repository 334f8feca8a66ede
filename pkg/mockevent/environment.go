package mockevent

import (
	"net/http"
	"strings"
	"time"
)

// ContentTypeEventStream is the MIME type of an event stream.
const ContentTypeEventStream = "text/event-stream"

// Environment supplies the ambient browser values that simulated headers need.
type Environment interface {
	Now() time.Time
	Cookies() string
	UserAgent() string
	Languages() []string
	// Origin is scheme://host of the page opening the stream.
	Origin() string
	Host() string
}

// StaticEnvironment is an Environment built from fixed values.
// A zero At reads the wall clock.
type StaticEnvironment struct {
	At       time.Time
	Cookie   string
	Agent    string
	Langs    []string
	Scheme   string
	HostPort string
}

// SystemEnvironment returns an environment for a page served from http://localhost.
func SystemEnvironment() StaticEnvironment {
	return StaticEnvironment{
		Agent:    "mockevent",
		Langs:    []string{"en-US", "en"},
		Scheme:   "http",
		HostPort: "localhost",
	}
}

func (e StaticEnvironment) Now() time.Time {
	if e.At.IsZero() {
		return time.Now()
	}
	return e.At
}

func (e StaticEnvironment) Cookies() string     { return e.Cookie }
func (e StaticEnvironment) UserAgent() string   { return e.Agent }
func (e StaticEnvironment) Languages() []string { return e.Langs }
func (e StaticEnvironment) Host() string        { return e.HostPort }

func (e StaticEnvironment) Origin() string {
	scheme := e.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + e.HostPort
}

// Headers returns the request headers a browser would send when opening c.
func (c *Connection) Headers(env Environment) http.Header {
	h := make(http.Header)
	h.Set("Accept", ContentTypeEventStream)
	h.Set("Accept-Encoding", "gzip, deflate, sdch")
	h.Set("Accept-Language", strings.Join(env.Languages(), ","))
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Cookie", env.Cookies())
	h.Set("Host", env.Host())
	h.Set("Last-Event-ID", c.LastEventID())
	h.Set("Origin", env.Origin())
	h.Set("Referer", env.Origin())
	h.Set("User-Agent", env.UserAgent())
	return h
}

// Headers returns the response headers a streaming server would send.
func (h *Handler) Headers(env Environment) http.Header {
	out := make(http.Header)
	out.Set("Access-Control-Allow-Credentials", "true")
	out.Set("Access-Control-Allow-Headers", "Content-type,Authorization")
	out.Set("Access-Control-Allow-Methods", "GET,PUT,POST,DELETE,PATCH,OPTIONS")
	out.Set("Access-Control-Allow-Origin", env.Origin())
	out.Set("Access-Control-Expose-Headers", "*")
	out.Set("Cache-Control", "no-cache")
	out.Set("Connection", "keep-alive")
	out.Set("Content-Type", ContentTypeEventStream)
	out.Set("Date", env.Now().UTC().Format(http.TimeFormat))
	return out
}
