package eval

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"src.intr.sh/pkg/diag"
	"src.intr.sh/pkg/parse"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/testutil"
)

func evalCode(ev *Evaler, code string) (string, error) {
	var sb strings.Builder
	err := ev.Eval(parse.Source{Name: "[test]", Code: code}, &sb)
	return sb.String(), err
}

// Returns the range of the first occurrence of s in code.
func rangeOf(code, s string) diag.Ranging {
	i := strings.Index(code, s)
	return diag.Ranging{From: i, To: i + len(s)}
}

var outputTests = []struct {
	code string
	want string
}{
	{"echo foo bar", "foo\nbar\n"},
	{"echo foo bar | upper", "FOO\nBAR\n"},
	{"range 3", "0\n1\n2\n"},
	{"range 2 4", "2\n3\n"},
	{"range 5 | count", "5\n"},
	{"repeat 2 x", "x\nx\n"},
	{"repeat inf x | take 3", "x\nx\nx\n"},
	{"range 100000 | take 2", "0\n1\n"},
	{"echo a; echo b\necho c", "a\nb\nc\n"},
	{"sleep 1ms", ""},
	{"count", "0\n"},
}

func TestEval_Output(t *testing.T) {
	for _, test := range outputTests {
		for _, sigs := range []signals.Signals{signals.Empty, signals.New(signals.NewFlag())} {
			ev := NewEvaler()
			ev.Signals = sigs
			out, err := evalCode(ev, test.code)
			if err != nil {
				t.Errorf("%q with %v: got error %v", test.code, sigs, err)
			}
			if out != test.want {
				t.Errorf("%q with %v: got output %q, want %q", test.code, sigs, out, test.want)
			}
		}
	}
}

func TestEval_CommandErrors(t *testing.T) {
	for _, test := range []struct {
		code    string
		message string
		culprit string
	}{
		{"echo a | fail bad thing", "bad thing", "fail bad thing"},
		{"echo a | nope x", "unknown command: nope", "nope"},
		{"range x", "bad integer: x", "range x"},
		{"take", "arity mismatch: want 1 arguments, got 0", "take"},
		{"sleep forever", "bad duration: forever", "sleep forever"},
	} {
		_, err := evalCode(NewEvaler(), test.code)
		var exc *Exception
		if !errors.As(err, &exc) {
			t.Errorf("%q: got error %v, want *Exception", test.code, err)
			continue
		}
		if exc.Error() != test.message {
			t.Errorf("%q: got message %q, want %q", test.code, exc.Error(), test.message)
		}
		if want := rangeOf(test.code, test.culprit); exc.Range() != want {
			t.Errorf("%q: got range %v, want %v", test.code, exc.Range(), want)
		}
	}
}

func TestEval_ParseError(t *testing.T) {
	_, err := evalCode(NewEvaler(), "echo |")
	var parseErr *diag.Error
	if !errors.As(err, &parseErr) {
		t.Errorf("got error %v, want *diag.Error", err)
	}
}

func TestEval_InterruptedBeforeStart(t *testing.T) {
	sigs := signals.New(signals.NewFlag())
	sigs.Trigger()
	ev := NewEvaler()
	ev.Signals = sigs

	code := "echo foo | upper\necho bar"
	out, err := evalCode(ev, code)
	if out != "" {
		t.Errorf("got output %q, want none", out)
	}
	assertInterruptedAt(t, err, rangeOf(code, "echo foo | upper"))
}

func TestEval_InterruptedAfterLastPipeline(t *testing.T) {
	ev := NewEvaler()
	ev.Signals = signals.New(signals.NewFlag())
	ev.AddBuiltin("trigger", func(fm *Frame, args []string) error {
		fm.Signals.Trigger()
		return nil
	})

	code := "echo a; trigger"
	out, err := evalCode(ev, code)
	if out != "a\n" {
		t.Errorf("got output %q, want %q", out, "a\n")
	}
	// No command observes the interrupt, so it is reported for the chunk.
	assertInterruptedAt(t, err, diag.Ranging{From: 0, To: len(code)})
}

func TestEval_InterruptedBetweenPipelines(t *testing.T) {
	ev := NewEvaler()
	ev.Signals = signals.New(signals.NewFlag())
	ev.AddBuiltin("trigger", func(fm *Frame, args []string) error {
		fm.Signals.Trigger()
		return nil
	})

	code := "trigger\necho a | upper"
	out, err := evalCode(ev, code)
	if out != "" {
		t.Errorf("got output %q, want none", out)
	}
	assertInterruptedAt(t, err, rangeOf(code, "echo a | upper"))
}

// A Signal that becomes set after it has been read n times.
type setAfter struct {
	left atomic.Int64
	set  atomic.Bool
}

func newSetAfter(n int64) *setAfter {
	s := &setAfter{}
	s.left.Store(n)
	return s
}

func (s *setAfter) Set(v bool) {
	s.set.Store(v)
	if !v {
		s.left.Store(1 << 62)
	}
}

func (s *setAfter) Get() bool { return s.set.Load() || s.left.Add(-1) < 0 }

func TestEval_InterruptedMidStream(t *testing.T) {
	ev := NewEvaler()
	ev.Signals = signals.New(newSetAfter(1000))

	code := "repeat inf x | upper | count"
	_, err := evalCode(ev, code)
	if !errors.Is(err, signals.ErrInterrupted) {
		t.Fatalf("got error %v, want one wrapping signals.ErrInterrupted", err)
	}
	// The interrupt is reported at whichever command observed it first.
	var exc *Exception
	errors.As(err, &exc)
	forms := []diag.Ranging{
		rangeOf(code, "repeat inf x"), rangeOf(code, "upper"), rangeOf(code, "count")}
	if !containsRange(forms, exc.Range()) {
		t.Errorf("got range %v, want one of %v", exc.Range(), forms)
	}
}

func TestEval_InterruptStopsInfiniteProducer(t *testing.T) {
	sigs := signals.New(signals.NewFlag())
	ev := NewEvaler()
	ev.Signals = sigs

	errCh := make(chan error, 1)
	go func() {
		_, err := evalCode(ev, "repeat inf x | count")
		errCh <- err
	}()
	time.Sleep(testutil.Scaled(10 * time.Millisecond))
	sigs.Trigger()

	select {
	case err := <-errCh:
		if !errors.Is(err, signals.ErrInterrupted) {
			t.Errorf("got error %v, want one wrapping signals.ErrInterrupted", err)
		}
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("evaluation not interrupted")
	}
}

func TestEval_InterruptSleep(t *testing.T) {
	sigs := signals.New(signals.NewFlag())
	ev := NewEvaler()
	ev.Signals = sigs

	start := time.Now()
	go func() {
		time.Sleep(testutil.Scaled(10 * time.Millisecond))
		sigs.Trigger()
	}()
	code := "sleep 1h"
	_, err := evalCode(ev, code)
	assertInterruptedAt(t, err, rangeOf(code, "sleep 1h"))
	if d := time.Since(start); d > testutil.Scaled(time.Second) {
		t.Errorf("sleep took %v after interrupt", d)
	}
}

func TestEval_EmptySignalsNeverInterrupt(t *testing.T) {
	ev := NewEvaler()
	ev.Signals.Trigger()
	out, err := evalCode(ev, "range 3 | count")
	if err != nil || out != "3\n" {
		t.Errorf("got (%q, %v), want (%q, nil)", out, err, "3\n")
	}
}

func TestEval_ResetBetweenEvaluations(t *testing.T) {
	sigs := signals.New(signals.NewFlag())
	ev := NewEvaler()
	ev.Signals = sigs

	sigs.Trigger()
	if _, err := evalCode(ev, "echo a"); !errors.Is(err, signals.ErrInterrupted) {
		t.Errorf("got error %v, want one wrapping signals.ErrInterrupted", err)
	}
	// Evaler never resets the signals by itself.
	if _, err := evalCode(ev, "echo a"); !errors.Is(err, signals.ErrInterrupted) {
		t.Errorf("got error %v before reset, want one wrapping signals.ErrInterrupted", err)
	}
	sigs.Reset()
	if out, err := evalCode(ev, "echo a"); err != nil || out != "a\n" {
		t.Errorf("got (%q, %v) after reset, want (%q, nil)", out, err, "a\n")
	}
}

func TestEval_Glob(t *testing.T) {
	testutil.ApplyDir(testutil.InDir(t, t.TempDir()), testutil.Dir{
		"a.txt": "", "b.txt": "", "c.md": "",
		"sub": testutil.Dir{"d.txt": ""},
	})

	out, err := evalCode(NewEvaler(), "glob **/*.txt | count; glob *.txt")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("3\na.txt\nb.txt\n", out); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestEval_GlobInterrupted(t *testing.T) {
	testutil.ApplyDir(testutil.InDir(t, t.TempDir()), testutil.Dir{"a.txt": ""})
	ev := NewEvaler()
	// Lets the pipeline check pass, and then interrupts the glob walk.
	ev.Signals = signals.New(newSetAfter(1))

	code := "glob *"
	_, err := evalCode(ev, code)
	assertInterruptedAt(t, err, rangeOf(code, "glob *"))
}

func TestException_Show(t *testing.T) {
	_, err := evalCode(NewEvaler(), "echo a | fail oops")
	var exc *Exception
	if !errors.As(err, &exc) {
		t.Fatalf("got error %v, want *Exception", err)
	}
	want := "Exception: oops\n  [test]:1:10: echo a | \033[1;4mfail oops\033[m"
	if got := exc.Show(""); got != want {
		t.Errorf("Show returns %q, want %q", got, want)
	}
}

func assertInterruptedAt(t *testing.T, err error, r diag.Ranging) {
	t.Helper()
	if !errors.Is(err, signals.ErrInterrupted) {
		t.Fatalf("got error %v, want one wrapping signals.ErrInterrupted", err)
	}
	var exc *Exception
	if !errors.As(err, &exc) {
		t.Fatalf("got error %v, want *Exception", err)
	}
	if exc.Range() != r {
		t.Errorf("interrupted at %v, want %v", exc.Range(), r)
	}
}

func containsRange(rs []diag.Ranging, r diag.Ranging) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
