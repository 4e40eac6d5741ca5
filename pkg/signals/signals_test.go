package signals_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"src.intr.sh/pkg/diag"
	. "src.intr.sh/pkg/signals"
)

var (
	loc1 = diag.Ranging{From: 0, To: 3}
	loc2 = diag.Ranging{From: 4, To: 9}
	loc3 = diag.Ranging{From: 10, To: 12}
)

func TestSignals_FreshSourceIsNotInterrupted(t *testing.T) {
	s := New(NewFlag())
	if s.Interrupted() {
		t.Errorf("Interrupted() = true for a fresh source")
	}
	if err := s.Check(loc1); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
}

func TestSignals_TriggerCheckReset(t *testing.T) {
	a := New(NewFlag())

	if err := a.Check(loc1); err != nil {
		t.Errorf("Check(loc1) = %v, want nil", err)
	}

	a.Trigger()
	err := a.Check(loc2)
	var interrupted *Interrupted
	if !errors.As(err, &interrupted) {
		t.Fatalf("Check(loc2) = %v, want *Interrupted", err)
	}
	if interrupted.Ranging != loc2 {
		t.Errorf("error range = %v, want %v", interrupted.Ranging, loc2)
	}
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("errors.Is(err, ErrInterrupted) = false")
	}

	a.Reset()
	if err := a.Check(loc3); err != nil {
		t.Errorf("Check(loc3) after Reset = %v, want nil", err)
	}
}

func TestSignals_CheckReportsExactLocation(t *testing.T) {
	s := New(NewFlag())
	s.Trigger()
	for _, loc := range []diag.Ranging{loc1, loc2, diag.PointRanging(7), diag.Unknown} {
		err := s.Check(loc)
		var interrupted *Interrupted
		if !errors.As(err, &interrupted) || interrupted.Range() != loc {
			t.Errorf("Check(%v) = %#v, want &Interrupted{%v}", loc, err, loc)
		}
	}
}

func TestSignals_Empty(t *testing.T) {
	for _, e := range []Signals{Empty, {}} {
		e.Trigger()
		if e.Interrupted() {
			t.Errorf("Interrupted() = true after Trigger on empty Signals")
		}
		if err := e.Check(loc1); err != nil {
			t.Errorf("Check() = %v on empty Signals, want nil", err)
		}
		e.Reset()
		if !e.IsEmpty() {
			t.Errorf("IsEmpty() = false on empty Signals")
		}
	}
}

func TestSignals_IsEmpty(t *testing.T) {
	if New(NewFlag()).IsEmpty() {
		t.Errorf("IsEmpty() = true with a source attached")
	}
}

func TestSignals_SharedSource(t *testing.T) {
	flag := NewFlag()
	a, b := New(flag), New(flag)
	b.Trigger()
	if !a.Interrupted() {
		t.Errorf("a.Interrupted() = false after b.Trigger()")
	}
	a.Reset()
	if b.Interrupted() {
		t.Errorf("b.Interrupted() = true after a.Reset()")
	}
}

func TestSignals_CopySharesSource(t *testing.T) {
	orig := New(NewFlag())
	clone := orig
	clone.Trigger()
	if !orig.Interrupted() {
		t.Errorf("triggering a copy is not visible from the original")
	}
}

func TestSignals_Idempotence(t *testing.T) {
	s := New(NewFlag())
	s.Trigger()
	s.Trigger()
	if !s.Interrupted() {
		t.Errorf("Interrupted() = false after triggering twice")
	}
	s.Reset()
	s.Reset()
	if s.Interrupted() {
		t.Errorf("Interrupted() = true after resetting twice")
	}
}

// countingSignal is a Signal that records how it is used.
type countingSignal struct {
	value      atomic.Bool
	gets, sets atomic.Int32
}

func (c *countingSignal) Set(v bool) { c.sets.Add(1); c.value.Store(v) }
func (c *countingSignal) Get() bool  { c.gets.Add(1); return c.value.Load() }

func TestSignals_CustomSignal(t *testing.T) {
	sig := &countingSignal{}
	s := New(sig)

	s.Check(loc1)
	s.Interrupted()
	s.Trigger()
	if err := s.Check(loc2); err == nil {
		t.Errorf("Check() = nil after Trigger with a custom Signal")
	}

	if gets := sig.gets.Load(); gets != 3 {
		t.Errorf("Get called %d times, want 3", gets)
	}
	if sets := sig.sets.Load(); sets != 1 {
		t.Errorf("Set called %d times, want 1", sets)
	}
}

func TestSignals_NoCaching(t *testing.T) {
	sig := &countingSignal{}
	s := New(sig)
	for i := 0; i < 4; i++ {
		want := i%2 == 1
		sig.value.Store(want)
		if got := s.Interrupted(); got != want {
			t.Errorf("Interrupted() = %v, want %v", got, want)
		}
	}
}

func TestSignals_String(t *testing.T) {
	s := New(NewFlag())
	tests := []struct {
		name string
		s    Signals
		pre  func()
		want string
	}{
		{"empty", Empty, func() {}, "Signals{no source}"},
		{"not interrupted", s, func() {}, "Signals{interrupted: false}"},
		{"interrupted", s, s.Trigger, "Signals{interrupted: true}"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.pre()
			if got := test.s.String(); got != test.want {
				t.Errorf("String() = %q, want %q", got, test.want)
			}
			if got := fmt.Sprintf("%#v", test.s); got != test.want {
				t.Errorf("%%#v = %q, want %q", got, test.want)
			}
		})
	}
}

func TestSignals_StringHasNoSideEffects(t *testing.T) {
	sig := &countingSignal{}
	_ = New(sig).String()
	if sets := sig.sets.Load(); sets != 0 {
		t.Errorf("String called Set %d times", sets)
	}
}

func TestSignals_ConcurrentTriggerAndCheck(t *testing.T) {
	s := New(NewFlag())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Trigger()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Check(loc1)
			}
		}()
	}
	wg.Wait()
	if !s.Interrupted() {
		t.Errorf("Interrupted() = false after concurrent triggers")
	}
}

func BenchmarkCheck_NotInterrupted(b *testing.B) {
	s := New(NewFlag())
	for i := 0; i < b.N; i++ {
		if s.Check(loc1) != nil {
			b.Fatal("unexpected interrupt")
		}
	}
}

func BenchmarkCheck_Empty(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if Empty.Check(loc1) != nil {
			b.Fatal("unexpected interrupt")
		}
	}
}
