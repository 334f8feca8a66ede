// Package metrics exposes Prometheus counters for mock handlers, connections and
// dispatched events.
//
// A Metrics value owns its collectors and registers them with the Registerer it
// was created with, so tests can use a throwaway prometheus.NewRegistry(). All
// methods are safe on a nil *Metrics, which records nothing.
//
// Default() returns a process-wide instance backed by its own registry, created
// once on first use.
package metrics
