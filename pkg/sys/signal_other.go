//go:build !unix

package sys

import (
	"fmt"
	"os"
)

// InterruptSignals returns the signals that request an interrupt by default.
func InterruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// DumpStackSignal is the signal that requests a dump of goroutine stacks. No
// such signal exists on this platform.
var DumpStackSignal os.Signal

// SignalByName looks up a signal by its name. Only the interrupt signal is
// supported on this platform.
func SignalByName(name string) (os.Signal, error) {
	if name == "SIGINT" || name == "Interrupt" {
		return os.Interrupt, nil
	}
	return nil, fmt.Errorf("unknown signal %q", name)
}

// SignalName returns the name of a signal.
func SignalName(sig os.Signal) string {
	if sig == os.Interrupt {
		return "SIGINT"
	}
	return sig.String()
}
