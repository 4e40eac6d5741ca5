//go:build unix

package sys

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// InterruptSignals returns the signals that request an interrupt by default.
func InterruptSignals() []os.Signal {
	return []os.Signal{unix.SIGINT, unix.SIGQUIT}
}

// DumpStackSignal is the signal that requests a dump of goroutine stacks.
var DumpStackSignal os.Signal = unix.SIGUSR1

// SignalByName looks up a signal by its name, like "SIGINT".
func SignalByName(name string) (os.Signal, error) {
	if sig := unix.SignalNum(name); sig != 0 {
		return sig, nil
	}
	return nil, fmt.Errorf("unknown signal %q", name)
}

// SignalName returns the name of a signal, like "SIGINT".
func SignalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return name
		}
	}
	return sig.String()
}
