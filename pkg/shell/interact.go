package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"src.intr.sh/pkg/diag"
	"src.intr.sh/pkg/eval"
	"src.intr.sh/pkg/parse"
)

// Runs an interactive session, reading one line of code at a time until EOF.
func interact(ev *eval.Evaler, fds [3]*os.File) {
	in := bufio.NewReader(fds[0])
	for cmdNum := 1; ; cmdNum++ {
		fmt.Fprint(fds[2], "intr> ")
		line, err := in.ReadString('\n')
		if line != "" {
			code := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			src := parse.Source{Name: fmt.Sprintf("[tty %v]", cmdNum), Code: code}
			if err := evalTopLevel(ev, fds, src); err != nil {
				showError(fds[2], err)
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Read error:", err)
			break
		}
	}
}

// Evaluates a top-level piece of code. An interrupt triggered between two
// evaluations, like one from the user pressing ^C at the prompt, is not
// carried over.
func evalTopLevel(ev *eval.Evaler, fds [3]*os.File, src parse.Source) error {
	if ev.Signals.Interrupted() {
		logger.Println("resetting interrupt before evaluating", src.Name)
	}
	ev.Signals.Reset()
	return ev.Eval(src, fds[1])
}

// Shows an error, showing each parse error separately.
func showError(w io.Writer, err error) {
	if parseErrs := parse.UnpackErrors(err); len(parseErrs) > 1 {
		for _, parseErr := range parseErrs {
			diag.ShowError(w, parseErr)
		}
		return
	}
	diag.ShowError(w, err)
}
