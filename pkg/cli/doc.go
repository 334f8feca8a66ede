// Package cli provides the command-line interface for mockevent.
//
// Commands:
//   - play: Load a handler file, open a mock connection to a URL and print
//     every dispatched event in text/event-stream format
//   - match: Show which handler in a file serves a URL
//   - validate: Check a handler file against the schema
//   - version: Show mockevent version
//
// Handler file arguments accept a single YAML/JSON file or a doublestar glob
// such as "mocks/**/*.yaml".
//
// Usage:
//
//	mockevent play handlers.yaml /v1/users/42
//	mockevent play --timeout 10s --metrics 'mocks/**/*.yaml' /feed
//	mockevent match handlers.yaml /v1/orders/7
//	mockevent validate handlers.yaml
package cli
