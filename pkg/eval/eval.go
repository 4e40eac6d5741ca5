// Package eval runs pipelines of builtin commands.
//
// Every construct that may run for an unbounded number of steps checks the
// Evaler's signals.Signals. Checks happen before each pipeline, at every value
// a command reads or writes, and after the whole chunk. An interrupt is
// reported at the innermost checkpoint that observes it: usually the form of
// the command that was running, and the pipeline or the chunk only when no
// command was running.
package eval

import (
	"fmt"
	"io"
	"sync"

	"src.intr.sh/pkg/logutil"
	"src.intr.sh/pkg/parse"
	"src.intr.sh/pkg/signals"
)

var logger = logutil.GetLogger("[eval] ")

const pipelineChanBufferSize = 32

// Builtin is the implementation of a builtin command.
type Builtin func(fm *Frame, args []string) error

// Evaler provides the environment for evaluating pipelines.
type Evaler struct {
	// Polled at all checkpoints. The zero value never interrupts.
	//
	// Evaler never resets Signals. When one Signals is shared by successive
	// evaluations, the caller must reset it in between.
	Signals signals.Signals

	builtins map[string]Builtin
}

// NewEvaler creates a new Evaler with the default builtins.
func NewEvaler() *Evaler {
	ev := &Evaler{builtins: make(map[string]Builtin, len(defaultBuiltins))}
	for name, fn := range defaultBuiltins {
		ev.builtins[name] = fn
	}
	return ev
}

// AddBuiltin adds or replaces a builtin command.
func (ev *Evaler) AddBuiltin(name string, fn Builtin) {
	ev.builtins[name] = fn
}

// Eval parses and evaluates src, writing the output of each pipeline to out,
// one value per line. It returns a parse error or an *Exception.
func (ev *Evaler) Eval(src parse.Source, out io.Writer) error {
	chunk, err := parse.Parse(src)
	if err != nil {
		return err
	}
	for _, pn := range chunk.Pipelines {
		if err := ev.execPipeline(src, pn, out); err != nil {
			return err
		}
	}
	// Pipelines are checked before they start, so only the end of the chunk
	// needs another check.
	return errorp(src, chunk, ev.Signals.Check(chunk))
}

func (ev *Evaler) execPipeline(src parse.Source, pn *parse.Pipeline, out io.Writer) error {
	if err := ev.Signals.Check(pn); err != nil {
		return errorp(src, pn, err)
	}

	fns := make([]Builtin, len(pn.Forms))
	for i, form := range pn.Forms {
		fn, ok := ev.builtins[form.Head.Value]
		if !ok {
			return errorpf(src, form.Head, "unknown command: %s", form.Head.Value)
		}
		fns[i] = fn
	}

	nforms := len(pn.Forms)
	var (
		wg       sync.WaitGroup
		errMutex sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		errMutex.Lock()
		defer errMutex.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	// sendStops[i] is closed when command i+1 exits, so that command i stops
	// writing.
	sendStops := make([]chan struct{}, nforms)
	for i := range sendStops {
		sendStops[i] = make(chan struct{})
	}

	in := (<-chan string)(closedInput)
	wg.Add(nforms)
	for i, form := range pn.Forms {
		ch := make(chan string, pipelineChanBufferSize)
		i, form, fn := i, form, fns[i]
		fm := &Frame{ev.Signals, src, form, in, ch, sendStops[i]}
		go func() {
			defer wg.Done()
			err := fn(fm, wordValues(form.Args))
			if err != nil && err != ErrReaderGone {
				logger.Printf("%s: %v", fm.SourceText(), err)
				setErr(errorp(src, form, err))
			}
			close(ch)
			if i > 0 {
				close(sendStops[i-1])
				// Drain the input, in case the previous command writes
				// without going through Put.
				for range fm.in {
				}
			}
		}()
		in = ch
	}

	// Print the output of the last command.
	for v := range in {
		fmt.Fprintln(out, v)
	}
	wg.Wait()
	return firstErr
}

func wordValues(words []*parse.Word) []string {
	values := make([]string, len(words))
	for i, w := range words {
		values[i] = w.Value
	}
	return values
}
