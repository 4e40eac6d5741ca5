package shell

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"src.intr.sh/pkg/config"
	"src.intr.sh/pkg/control"
	"src.intr.sh/pkg/errutil"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store"
	"src.intr.sh/pkg/store/storedefs"
	"src.intr.sh/pkg/sys"
	"src.intr.sh/pkg/trap"
)

type sessionCfg struct {
	// Whether to relay OS signals to the signals.
	Trap bool
	// Used by the trap; trap.OSNotifier when nil.
	Notifier trap.Notifier
}

// The resources that live as long as the shell: the trap, the journal and the
// control server. Failure to set up any of them is reported as a warning, and
// the shell continues without it.
type session struct {
	closers []func() error
}

// The trap sets source directly; the control server acts on it through a
// signals.Signals.
func openSession(fds [3]*os.File, cfg *config.Config, source signals.Signal, scfg *sessionCfg) *session {
	s := &session{}
	warn := func(err error, consequence string) {
		fmt.Fprintln(fds[2], "Warning:", err)
		fmt.Fprintln(fds[2], consequence)
	}

	var journal storedefs.Store
	if cfg.DB != "" {
		st, err := openJournal(cfg.DB)
		if err != nil {
			warn(err, "Actions will not be journaled.")
		} else {
			journal = st
			s.closers = append(s.closers, st.Close)
		}
	}

	if scfg.Trap {
		osSigs, err := cfg.OSSignals()
		if err != nil {
			warn(err, "Using the default interrupt signals.")
		}
		t := &trap.Trap{
			Source:   source,
			Notifier: scfg.Notifier,
			OnSignal: func(os.Signal) { addAction(journal, signals.Interrupt) },
		}
		stop := t.Listen(osSigs...)
		s.closers = append(s.closers, func() error { stop(); return nil })
		if sys.DumpStackSignal != nil {
			stop := dumpStackOnSignal(t.Notifier, fds[2])
			s.closers = append(s.closers, func() error { stop(); return nil })
		}
	}

	if cfg.Sock != "" {
		stop, err := serveControl(cfg.Sock, signals.New(source), journal)
		if err != nil {
			warn(err, "The control server is not available.")
		} else {
			s.closers = append(s.closers, stop)
		}
	}
	return s
}

// Close releases the resources in the reverse order of acquisition.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errutil.Multi(errs...)
}

func openJournal(db string) (store.DBStore, error) {
	if err := os.MkdirAll(filepath.Dir(db), 0700); err != nil {
		return nil, err
	}
	return store.NewStore(db)
}

func addAction(journal storedefs.Store, a signals.Action) {
	if journal == nil {
		return
	}
	if _, err := journal.AddAction(a); err != nil {
		logger.Printf("failed to journal %s: %v", a, err)
	}
}

func dumpStackOnSignal(notifier trap.Notifier, w io.Writer) (stop func()) {
	if notifier == nil {
		notifier = trap.OSNotifier
	}
	sigCh := make(chan os.Signal, 1)
	notifier.Notify(sigCh, sys.DumpStackSignal)
	stopCh := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-sigCh:
				fmt.Fprint(w, sys.DumpStack())
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

func serveControl(sock string, sigs signals.Signals, journal storedefs.Store) (stop func() error, err error) {
	l, err := net.Listen("unix", sock)
	if err != nil {
		return nil, err
	}
	logger.Println("control server listening on", sock)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- control.NewServer(sigs, journal).Serve(ctx, l) }()
	return func() error {
		cancel()
		err := <-done
		// The listener removes the socket file when closed.
		return err
	}, nil
}
