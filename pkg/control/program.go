package control

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"src.intr.sh/pkg/config"
	"src.intr.sh/pkg/prog"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store/storedefs"
)

// Maximum time to wait for the control server, including connecting.
var requestTimeout = 5 * time.Second

// Program is the client subprogram, run with -signal, -status or -history.
type Program struct {
	signal  string
	status  bool
	history bool

	paths  *prog.Paths
	json   *bool
	config *string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.StringVar(&p.signal, "signal", "",
		"send an action (interrupt or reset) to the control server and quit")
	fs.BoolVar(&p.status, "status", false,
		"show whether the shell behind the control server is interrupted and quit")
	fs.BoolVar(&p.history, "history", false,
		"show the action journal of the control server and quit")
	p.paths = fs.Paths()
	p.json = fs.JSON()
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if p.signal == "" && !p.status && !p.history {
		return prog.ErrNextProgram
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -signal, -status or -history")
	}
	var action signals.Action
	if p.signal != "" {
		var err error
		action, err = signals.ParseAction(p.signal)
		if err != nil {
			return prog.BadUsage(err.Error())
		}
	}
	cfg, err := config.Load(*p.config)
	if err != nil {
		return err
	}
	cfg.Override(p.paths.Sock, p.paths.DB, "")
	if cfg.Sock == "" {
		return prog.BadUsage("no control socket; use -sock or set sock in the config file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	client, err := Dial(ctx, cfg.Sock)
	if err != nil {
		return fmt.Errorf("cannot connect to control server: %w", err)
	}
	defer client.Close()

	if p.history {
		entries, err := client.History(ctx, 1, math.MaxInt)
		if err != nil {
			return err
		}
		p.showEntries(fds, entries)
		return nil
	}

	var st Status
	if p.signal != "" {
		st, err = client.Signal(ctx, action)
	} else {
		st, err = client.Status(ctx)
	}
	if err != nil {
		return err
	}
	if *p.json {
		fmt.Fprintln(fds[1], mustToJSON(st))
	} else {
		fmt.Fprintln(fds[1], "interrupted:", st.Interrupted)
	}
	return nil
}

func (p *Program) showEntries(fds [3]*os.File, entries []storedefs.Entry) {
	for _, e := range entries {
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(e))
		} else {
			fmt.Fprintf(fds[1], "%d\t%s\t%s\n", e.Seq, e.Time.Format(time.RFC3339), e.Action)
		}
	}
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
