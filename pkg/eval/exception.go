package eval

import (
	"fmt"

	"src.intr.sh/pkg/diag"
	"src.intr.sh/pkg/parse"
)

// Exception is the error returned by (*Evaler).Eval when a command fails. It
// records the part of the source the failure is attributed to.
type Exception struct {
	Reason  error
	Context *diag.Context
}

// Error returns the message of the reason of the exception.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason of the exception, so that errors.Is(exc,
// signals.ErrInterrupted) works.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Range returns the range the exception is attributed to.
func (exc *Exception) Range() diag.Ranging { return exc.Context.Range() }

// Show shows the exception.
func (exc *Exception) Show(indent string) string {
	var reason string
	if shower, ok := exc.Reason.(diag.Shower); ok {
		reason = shower.Show(indent)
	} else {
		reason = exc.Reason.Error()
	}
	return fmt.Sprintf("Exception: %s\n%s  %s", reason, indent, exc.Context.Show(indent+"  "))
}

// Wraps err in an Exception. If err carries its own range, like the
// *signals.Interrupted returned by checkpoints, that range is used; otherwise
// err is attributed to r.
func errorp(src parse.Source, r diag.Ranger, err error) error {
	switch err := err.(type) {
	case nil:
		return nil
	case *Exception:
		return err
	case diag.Ranger:
		r = err
	}
	return &Exception{err, diag.NewContext(src.Name, src.Code, r)}
}

func errorpf(src parse.Source, r diag.Ranger, format string, args ...any) error {
	return errorp(src, r, fmt.Errorf(format, args...))
}
