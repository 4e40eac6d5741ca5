package signals

import "sync/atomic"

// Signal is a boolean store that records whether an interrupt has been
// requested. Implementations must be safe for concurrent use; Set may be
// called from the goroutine relaying OS signals while other goroutines call
// Get.
//
// Only eventual visibility is required. A Signal is an advisory flag, not a
// way to synchronize other memory.
type Signal interface {
	Set(value bool)
	Get() bool
}

// Flag is the production implementation of Signal, a single atomically
// stored boolean. The zero value is an unset Flag.
type Flag struct {
	v atomic.Bool
}

var _ Signal = (*Flag)(nil)

// NewFlag returns a new unset Flag.
func NewFlag() *Flag { return &Flag{} }

// Set stores value.
func (f *Flag) Set(value bool) { f.v.Store(value) }

// Get returns the last value stored.
func (f *Flag) Get() bool { return f.v.Load() }
