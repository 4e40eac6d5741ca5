package shell

import (
	"os"
	"strings"
	"testing"
	"time"

	"src.intr.sh/pkg/prog/progtest"
	"src.intr.sh/pkg/sys"
	"src.intr.sh/pkg/testutil"
)

type registration struct {
	c    chan<- os.Signal
	sigs []os.Signal
}

// A trap.Notifier that hands out the channels registered with it.
type fakeNotifier struct{ regs chan registration }

func newFakeNotifier() fakeNotifier { return fakeNotifier{make(chan registration, 4)} }

func (n fakeNotifier) Notify(c chan<- os.Signal, sigs ...os.Signal) {
	n.regs <- registration{c, sigs}
}

func (n fakeNotifier) Stop(chan<- os.Signal) {}

// Waits for a registration that includes sig.
func (n fakeNotifier) waitFor(t *testing.T, sig os.Signal) chan<- os.Signal {
	t.Helper()
	timeout := time.After(testutil.Scaled(5 * time.Second))
	for {
		select {
		case reg := <-n.regs:
			for _, s := range reg.sigs {
				if s == sig {
					return reg.c
				}
			}
		case <-timeout:
			t.Fatalf("%v never registered", sig)
		}
	}
}

type result struct {
	exit           int
	stdout, stderr string
}

func runAsync(p *Program, args ...string) <-chan result {
	done := make(chan result, 1)
	go func() {
		exit, stdout, stderr := progtest.Run(p, "", args...)
		done <- result{exit, stdout, stderr}
	}()
	return done
}

// Calls f periodically until done delivers a result.
func repeatUntilDone(t *testing.T, done <-chan result, f func()) result {
	t.Helper()
	timeout := time.After(testutil.Scaled(5 * time.Second))
	ticker := time.NewTicker(testutil.Scaled(10 * time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case r := <-done:
			return r
		case <-ticker.C:
			f()
		case <-timeout:
			t.Fatal("program did not finish")
		}
	}
}

func TestTrap_InterruptsEvaluation(t *testing.T) {
	n := newFakeNotifier()
	done := runAsync(&Program{notifier: n}, "-trap", "-c", "repeat inf x | count")

	sig := sys.InterruptSignals()[0]
	c := n.waitFor(t, sig)
	// The shell resets the interrupt right before evaluating, so keep sending
	// until the evaluation observes one.
	r := repeatUntilDone(t, done, func() {
		select {
		case c <- sig:
		default:
		}
	})

	if r.exit != 2 {
		t.Errorf("got exit %v, want 2", r.exit)
	}
	if !strings.Contains(r.stderr, "Exception: interrupted") {
		t.Errorf("got stderr %q, want an interrupted exception", r.stderr)
	}
}

func TestTrap_NotInstalledWithoutTerminal(t *testing.T) {
	n := newFakeNotifier()
	progtest.Test(t, &Program{notifier: n},
		progtest.ThatIntr("-c", "echo a").WritesStdout("a\n"))
	select {
	case reg := <-n.regs:
		t.Errorf("signals %v registered without -trap", reg.sigs)
	default:
	}
}

func TestTrap_DumpStack(t *testing.T) {
	if sys.DumpStackSignal == nil {
		t.Skip("no signal for dumping stacks on this platform")
	}
	n := newFakeNotifier()
	done := runAsync(&Program{notifier: n}, "-trap", "-c", "sleep 200ms")
	n.waitFor(t, sys.DumpStackSignal) <- sys.DumpStackSignal

	r := <-done
	if r.exit != 0 {
		t.Errorf("got exit %v, want 0", r.exit)
	}
	if !strings.Contains(r.stderr, "goroutine") {
		t.Errorf("got stderr %q, want a stack dump", r.stderr)
	}
}
