// Package matching decides which mock handler a simulated connection belongs to.
//
// Handlers declare the URLs they serve in one of three ways:
//
//   - Literal pattern: "/v1/users" matches only "/v1/users". A literal pattern may
//     contain "*" wildcards, in which case it is turned into an unanchored regular
//     expression where each "*" stands for one or more characters. Because the
//     expression is unanchored, "/api/*" also matches "/x/api/y".
//   - Regular expression: any value implementing Matcher, typically *regexp.Regexp.
//     The matcher decides on its own; anchors are the caller's responsibility.
//   - Glob: Glob("/v1/**") uses doublestar semantics and is anchored at both ends.
//
// The package also evaluates JSONPath conditions against event payloads, which the
// test helpers use to assert on dispatched data.
package matching
