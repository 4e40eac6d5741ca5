// Package progtest contains utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.intr.sh/pkg/prog"
	"src.intr.sh/pkg/testutil"
)

// Case is a test case for Test, created with ThatIntr.
type Case struct {
	args  []string
	stdin string

	exit   int
	stdout outputMatcher
	stderr outputMatcher
}

type outputMatcher struct {
	s       string
	partial bool
}

func (m outputMatcher) match(s string) bool {
	if m.partial {
		return strings.Contains(s, m.s)
	}
	return s == m.s
}

func (m outputMatcher) String() string {
	if m.partial {
		return "containing " + m.s
	}
	return m.s
}

// ThatIntr returns a new Case with the specified command-line arguments,
// excluding the program name. By default the case expects no output and an
// exit status of 0.
func ThatIntr(args ...string) *Case {
	return &Case{args: args}
}

// WithStdin sets the content of the standard input.
func (c *Case) WithStdin(s string) *Case {
	c.stdin = s
	return c
}

// DoesNothing asserts that the program exits with 0 and writes nothing. It is
// the default and is only called for readability.
func (c *Case) DoesNothing() *Case {
	return c
}

// ExitsWith asserts that the program exits with the given status.
func (c *Case) ExitsWith(exit int) *Case {
	c.exit = exit
	return c
}

// WritesStdout asserts that the program writes exactly s to stdout.
func (c *Case) WritesStdout(s string) *Case {
	c.stdout = outputMatcher{s, false}
	return c
}

// WritesStdoutContaining asserts that the program writes to stdout something
// containing s.
func (c *Case) WritesStdoutContaining(s string) *Case {
	c.stdout = outputMatcher{s, true}
	return c
}

// WritesStderr asserts that the program writes exactly s to stderr.
func (c *Case) WritesStderr(s string) *Case {
	c.stderr = outputMatcher{s, false}
	return c
}

// WritesStderrContaining asserts that the program writes to stderr something
// containing s.
func (c *Case) WritesStderrContaining(s string) *Case {
	c.stderr = outputMatcher{s, true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, c.stdin, c.args...)
			if exit != c.exit {
				t.Errorf("got exit %v, want %v", exit, c.exit)
			}
			if !c.stdout.match(stdout) {
				t.Errorf("got stdout %q, want %s", stdout, c.stdout)
			}
			if !c.stderr.match(stderr) {
				t.Errorf("got stderr %q, want %s", stderr, c.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments, excluding the program name, and
// returns its exit status and output. The standard input is fed from stdin.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := testutil.MustPipe()
	r1, w1 := testutil.MustPipe()
	r2, w2 := testutil.MustPipe()

	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Outputs are read concurrently so that a program producing more output
	// than a pipe can buffer does not block.
	stdoutCh := readAllAsync(r1)
	stderrCh := readAllAsync(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, append([]string{"intr"}, args...), p)
	r0.Close()
	w1.Close()
	w2.Close()
	return exit, <-stdoutCh, <-stderrCh
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() { ch <- string(testutil.MustReadAllAndClose(r)) }()
	return ch
}
