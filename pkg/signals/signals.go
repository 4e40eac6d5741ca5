// Package signals lets long-running evaluation detect interrupt requests.
//
// Interruption is cooperative. A driver, usually the goroutine relaying
// SIGINT, calls Trigger on a Signals handle; code that may run for an
// unbounded number of steps calls Check at each step and stops with the
// returned error. Nothing is preempted: an interrupt that is never checked
// has no effect.
//
// A process typically creates one Flag and shares it among all handles. Since
// the flag stays set until cleared, the top-level loop must call Reset before
// each independent evaluation; otherwise the next evaluation stops at its
// first checkpoint.
package signals

import "src.intr.sh/pkg/diag"

// Signals is a handle to a shared Signal. Copies of a Signals share the same
// Signal, so triggering one copy is visible through all of them.
//
// A Signals with no Signal, such as the zero value and Empty, is never
// interrupted.
type Signals struct {
	sig Signal
}

// Empty is a Signals that is not hooked up to any Signal, and is thus never
// interrupted. It is equal to the zero value.
//
// It should be used in tests, or where an enclosing construct already checks
// for interrupts.
var Empty = Signals{}

// New returns a Signals using sig as the interrupt source. Once sig is set to
// true, Check returns an error and Interrupted returns true.
func New(sig Signal) Signals {
	return Signals{sig}
}

// Check returns an *Interrupted error carrying the range of r if an interrupt
// has been triggered, and nil otherwise.
func (s Signals) Check(r diag.Ranger) error {
	if s.sig != nil && s.sig.Get() {
		return interruptError(r)
	}
	return nil
}

// Kept out of line so that Check stays small enough to be inlined at
// checkpoints.
//
//go:noinline
func interruptError(r diag.Ranger) error {
	return &Interrupted{r.Range()}
}

// Trigger triggers an interrupt.
func (s Signals) Trigger() {
	if s.sig != nil {
		s.sig.Set(true)
	}
}

// Interrupted returns whether an interrupt has been triggered.
func (s Signals) Interrupted() bool {
	return s.sig != nil && s.sig.Get()
}

// Reset clears a triggered interrupt.
func (s Signals) Reset() {
	if s.sig != nil {
		s.sig.Set(false)
	}
}

// IsEmpty returns whether s has no Signal attached. Callers use it to skip
// interrupt bookkeeping altogether.
func (s Signals) IsEmpty() bool {
	return s.sig == nil
}

// String shows the current state of s.
func (s Signals) String() string {
	if s.sig == nil {
		return "Signals{no source}"
	}
	if s.sig.Get() {
		return "Signals{interrupted: true}"
	}
	return "Signals{interrupted: false}"
}

// GoString is the same as String, so that %#v shows the state instead of the
// implementation of the Signal.
func (s Signals) GoString() string { return s.String() }
