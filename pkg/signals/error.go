package signals

import (
	"errors"

	"src.intr.sh/pkg/diag"
)

// ErrInterrupted matches every error returned by (Signals).Check under
// errors.Is.
var ErrInterrupted = errors.New("interrupted")

// Interrupted is the error returned by (Signals).Check when an interrupt has
// been triggered. It records the location passed to the Check call that
// observed the interrupt.
type Interrupted struct {
	diag.Ranging
}

// Error returns "interrupted".
func (e *Interrupted) Error() string { return ErrInterrupted.Error() }

// Is reports whether target is ErrInterrupted.
func (e *Interrupted) Is(target error) bool { return target == ErrInterrupted }
