// Package shell is the entry point for the interactive and script modes of
// intr.
package shell

import (
	"fmt"
	"os"

	"src.intr.sh/pkg/config"
	"src.intr.sh/pkg/eval"
	"src.intr.sh/pkg/logutil"
	"src.intr.sh/pkg/prog"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/sys"
	"src.intr.sh/pkg/trap"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	codeInArg, compileOnly, trap bool

	paths  *prog.Paths
	json   *bool
	config *string
	log    *string

	// Used instead of trap.OSNotifier when not nil. Can be set in tests.
	notifier trap.Notifier
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false, "take first argument as code to execute")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "parse but do not execute")
	fs.BoolVar(&p.trap, "trap", false,
		"interrupt on OS signals even when stdin is not a terminal")
	p.paths = fs.Paths()
	p.json = fs.JSON()
	p.config = fs.Config()
	p.log = fs.Log()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	cfg, err := config.Load(*p.config)
	if err != nil {
		return err
	}
	cfg.Override(p.paths.Sock, p.paths.DB, *p.log)
	// -log has already been handled by prog.Run.
	if *p.log == "" && cfg.Log != "" {
		if err := logutil.SetOutputFile(cfg.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if p.codeInArg && len(args) == 0 {
		return prog.BadUsage("-c requires an argument")
	}
	if p.compileOnly {
		if len(args) == 0 {
			return prog.BadUsage("-compileonly requires a script")
		}
		return prog.Exit(script(nil, fds, args, &scriptCfg{
			Cmd: p.codeInArg, CompileOnly: true, JSON: *p.json}))
	}

	source := signals.NewFlag()
	ev := eval.NewEvaler()
	ev.Signals = signals.New(source)
	s := openSession(fds, cfg, source, &sessionCfg{
		Trap:     p.trap || sys.IsATTY(fds[0].Fd()),
		Notifier: p.notifier,
	})
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
		}
	}()

	if len(args) > 0 {
		return prog.Exit(script(ev, fds, args, &scriptCfg{Cmd: p.codeInArg}))
	}
	interact(ev, fds)
	return nil
}
