// Intr runs pipelines of builtin commands that stop promptly when interrupted,
// either by an OS signal or through its control socket.
package main

import (
	"os"

	"src.intr.sh/pkg/buildinfo"
	"src.intr.sh/pkg/control"
	"src.intr.sh/pkg/prog"
	"src.intr.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &control.Program{}, &shell.Program{})))
}
