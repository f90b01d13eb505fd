// Package metrics is the engine's telemetry facade. Hot paths cache
// metric pointers once during construction and write to atomics without
// locking; registration and enumeration take a mutex.
package metrics

import "sync/atomic"

// Registry is the central metric store. Keys are dotted names, e.g.
// "scheduler.turns_processed".
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns the number of registered metrics across all types.
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// Snapshot returns a point-in-time copy of every metric as float64,
// keyed by name. Used by the debug endpoint and tests.
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.TotalCount())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out[key] = float64(ptr.Load())
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out[key] = ptr.Get()
	})
	return out
}
