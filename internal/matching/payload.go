package matching

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/ohler55/ojg/jp"
)

// PayloadResult holds the outcome of evaluating JSONPath conditions against an
// event payload.
type PayloadResult struct {
	// Matched is true when every condition held.
	Matched bool
	// Values holds the value found for each matched path, keyed by the path as written.
	Values map[string]interface{}
	// Failures lists the paths that did not hold, sorted.
	Failures []string
}

// MatchPayload evaluates JSONPath conditions against a JSON-encoded payload.
// A condition value of {"exists": true|false} checks presence only.
// Payloads that are not valid JSON fail every condition.
func MatchPayload(conditions map[string]interface{}, data string) PayloadResult {
	result := PayloadResult{Matched: true, Values: make(map[string]interface{})}
	if len(conditions) == 0 {
		return result
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		for path := range conditions {
			result.Failures = append(result.Failures, path)
		}
		sort.Strings(result.Failures)
		result.Matched = false
		return result
	}

	for path, expected := range conditions {
		ok, value := matchSinglePath(path, expected, doc)
		if !ok {
			result.Failures = append(result.Failures, path)
			continue
		}
		if value != nil {
			result.Values[path] = value
		}
	}
	sort.Strings(result.Failures)
	result.Matched = len(result.Failures) == 0
	return result
}

func matchSinglePath(path string, expected interface{}, doc interface{}) (bool, interface{}) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false, nil
	}

	results := expr.Get(doc)
	if isExistenceCheck(expected) {
		want := expected.(map[string]interface{})["exists"].(bool)
		if len(results) == 0 {
			return !want, nil
		}
		if want {
			return true, results[0]
		}
		return false, nil
	}

	for _, r := range results {
		if valuesEqual(r, expected) {
			return true, r
		}
	}
	return false, nil
}

func isExistenceCheck(expected interface{}) bool {
	m, ok := expected.(map[string]interface{})
	if !ok || len(m) != 1 {
		return false
	}
	_, ok = m["exists"].(bool)
	return ok
}

// valuesEqual compares a decoded JSON value with an expected Go value.
// JSON numbers decode as float64, so numeric kinds compare by value.
func valuesEqual(actual, expected interface{}) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	a, aok := toFloat64(actual)
	e, eok := toFloat64(expected)
	if aok && eok {
		return a == e
	}
	// Composite expectations are normalised through JSON.
	ab, err1 := json.Marshal(actual)
	eb, err2 := json.Marshal(expected)
	return err1 == nil && err2 == nil && string(ab) == string(eb)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateJSONPath returns an error if path is not a valid JSONPath expression.
func ValidateJSONPath(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}
