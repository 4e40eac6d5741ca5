// Package trap relays OS signals to a signals.Signal.
package trap

import (
	"os"
	"os/signal"

	"src.intr.sh/pkg/logutil"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/sys"
)

var logger = logutil.GetLogger("[trap] ")

// Notifier abstracts the registration of OS signal delivery, so that tests can
// deliver signals without involving the OS.
type Notifier interface {
	// Notify arranges for the given signals to be delivered on c.
	Notify(c chan<- os.Signal, sigs ...os.Signal)
	// Stop stops delivery of signals on c.
	Stop(c chan<- os.Signal)
}

// OSNotifier is the Notifier backed by the os/signal package.
var OSNotifier Notifier = osNotifier{}

type osNotifier struct{}

func (osNotifier) Notify(c chan<- os.Signal, sigs ...os.Signal) { signal.Notify(c, sigs...) }
func (osNotifier) Stop(c chan<- os.Signal)                      { signal.Stop(c) }

// Trap sets Source whenever one of the signals it listens to arrives.
type Trap struct {
	// Set to true when a signal arrives. Must not be nil.
	Source signals.Signal
	// Used to receive signals. If nil, OSNotifier is used.
	Notifier Notifier
	// If not nil, called with each received signal after Source has been
	// set.
	OnSignal func(os.Signal)
}

// Listen starts relaying the given signals, or those returned by
// sys.InterruptSignals if none is given. It returns a function that stops
// listening and waits for the relaying goroutine to exit.
//
// Listen never clears Source; resetting it between evaluations is the job of
// the evaluation loop.
func (t *Trap) Listen(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = sys.InterruptSignals()
	}
	notifier := t.Notifier
	if notifier == nil {
		notifier = OSNotifier
	}

	sigCh := make(chan os.Signal, 1)
	notifier.Notify(sigCh, sigs...)

	// Closed by stop to request the relaying goroutine to stop.
	stopCh := make(chan struct{})
	// Closed by the relaying goroutine when it has stopped.
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case sig := <-sigCh:
				logger.Printf("received %s", sys.SignalName(sig))
				t.Source.Set(true)
				if t.OnSignal != nil {
					t.OnSignal(sig)
				}
			case <-stopCh:
				notifier.Stop(sigCh)
				return
			}
		}
	}()

	return func() {
		close(stopCh)
		<-stopped
	}
}
