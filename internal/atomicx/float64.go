// Package atomicx supplies the atomic float64 scalar used for cross-thread
// playback state (rates, volumes, cursor positions). sync/atomic has no
// float type, so values round-trip through math.Float64bits.
package atomicx

import (
	"math"
	"sync/atomic"
)

// Float64 is an atomically updated float64. The zero value reads as 0.
type Float64 struct {
	bits atomic.Uint64
}

// Load returns the current value.
func (f *Float64) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store publishes a new value.
func (f *Float64) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
