package eval

import (
	"errors"

	"src.intr.sh/pkg/parse"
	"src.intr.sh/pkg/signals"
)

// ErrReaderGone is returned by (*Frame).Put when the next command in the
// pipeline has stopped reading. Builtins should return it as is; it is not
// reported as a failure of the pipeline.
var ErrReaderGone = errors.New("reader gone")

// Frame is the context in which a builtin command runs. Every builtin that may
// run for an unbounded number of steps must go through Check, Put or Inputs
// at each step, so that it stops promptly when interrupted.
type Frame struct {
	Signals signals.Signals

	src  parse.Source
	form *parse.Form

	in       <-chan string
	out      chan<- string
	sendStop <-chan struct{}
}

// Check is the checkpoint of the command. It returns an error attributed to
// the command's form if an interrupt has been triggered.
func (fm *Frame) Check() error {
	return fm.Signals.Check(fm.form)
}

// Put checks for interrupts and outputs a value. It returns ErrReaderGone if
// the reader of the output has stopped.
func (fm *Frame) Put(v string) error {
	if err := fm.Check(); err != nil {
		return err
	}
	select {
	case fm.out <- v:
		return nil
	case <-fm.sendStop:
		return ErrReaderGone
	}
}

// Inputs calls f with each input value until the input is exhausted or f
// returns an error. It checks for interrupts before each value.
func (fm *Frame) Inputs(f func(string) error) error {
	for v := range fm.in {
		if err := fm.Check(); err != nil {
			return err
		}
		if err := f(v); err != nil {
			return err
		}
	}
	return nil
}

// SourceText returns the source text of the command's form.
func (fm *Frame) SourceText() string {
	return parse.SourceText(fm.src, fm.form)
}

// A closed channel, used as the input of the first command of a pipeline.
var closedInput = make(chan string)

func init() { close(closedInput) }
