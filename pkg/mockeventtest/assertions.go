package mockeventtest

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/getmockd/mockevent/internal/matching"
	"github.com/getmockd/mockevent/pkg/mockevent"
)

// Event is a recorded event with assertion helpers.
type Event struct {
	mockevent.Event
}

// AssertName asserts the event name.
func (e Event) AssertName(t testing.TB, expected string) {
	t.Helper()
	if e.Name != expected {
		t.Errorf("expected event name %q, got %q", expected, e.Name)
	}
}

// AssertID asserts the event id.
func (e Event) AssertID(t testing.TB, expected string) {
	t.Helper()
	if e.ID != expected {
		t.Errorf("expected event id %q, got %q", expected, e.ID)
	}
}

// AssertJSON asserts that the event data matches the expected JSON.
// The expected value can be a string, []byte, or any value that will be JSON encoded.
func (e Event) AssertJSON(t testing.TB, expected any) {
	t.Helper()

	var expectedJSON any
	var actualJSON any

	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	case []byte:
		if err := json.Unmarshal(v, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		if err := json.Unmarshal(data, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	}

	if err := json.Unmarshal([]byte(e.Data), &actualJSON); err != nil {
		t.Errorf("event %q data is not valid JSON: %v\ndata: %s", e.Name, err, e.Data)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("event %q data does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			e.Name, string(expectedBytes), string(actualBytes))
	}
}

// AssertPath asserts a JSONPath condition on the event data. Numbers compare
// by value; {"exists": bool} checks presence only.
func (e Event) AssertPath(t testing.TB, path string, expected any) {
	t.Helper()
	e.AssertPaths(t, map[string]interface{}{path: expected})
}

// AssertPaths asserts several JSONPath conditions at once.
func (e Event) AssertPaths(t testing.TB, conditions map[string]interface{}) {
	t.Helper()
	for path := range conditions {
		if err := matching.ValidateJSONPath(path); err != nil {
			t.Errorf("invalid JSONPath %q: %v", path, err)
			return
		}
	}

	result := matching.MatchPayload(conditions, e.Data)
	if !result.Matched {
		t.Errorf("event %q data failed JSONPath conditions %s\ndata: %s",
			e.Name, strings.Join(result.Failures, ", "), e.Data)
	}
}

// AssertError asserts that this is an error event carrying an error.
func (e Event) AssertError(t testing.TB) {
	t.Helper()
	if e.Err == nil {
		t.Errorf("expected event %q to carry an error", e.Name)
	}
}
