//go:build unix

package control_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	. "src.intr.sh/pkg/control"
	"src.intr.sh/pkg/prog/progtest"
	"src.intr.sh/pkg/signals"
	"src.intr.sh/pkg/store"
	"src.intr.sh/pkg/testutil"
)

var (
	Test     = progtest.Test
	ThatIntr = progtest.ThatIntr
)

// Starts a control server with a journal, and returns the socket path.
func startServer(t *testing.T, sigs signals.Signals) string {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewStore(filepath.Join(dir, "db"))
	require.NoError(t, err)
	sockPath := filepath.Join(dir, "sock")
	l, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewServer(sigs, st).Serve(ctx, l)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		st.Close()
	})
	return sockPath
}

func TestProgram(t *testing.T) {
	sigs := signals.New(signals.NewFlag())
	sock := startServer(t, sigs)

	Test(t, &Program{},
		ThatIntr("-sock", sock, "-status").WritesStdout("interrupted: false\n"),
		ThatIntr("-sock", sock, "-signal", "interrupt").WritesStdout("interrupted: true\n"),
		ThatIntr("-sock", sock, "-status", "-json").WritesStdout(`{"interrupted":true}` + "\n"),
		ThatIntr("-sock", sock, "-signal", "reset", "-json").WritesStdout(`{"interrupted":false}` + "\n"),
		ThatIntr("-sock", sock, "-history").WritesStdoutContaining("2\t"),
	)
	if sigs.Interrupted() {
		t.Errorf("signals interrupted after reset")
	}
}

func TestProgram_SockFromConfig(t *testing.T) {
	sock := startServer(t, signals.New(signals.NewFlag()))
	dir := testutil.InDir(t, t.TempDir())
	testutil.ApplyDir(dir, testutil.Dir{"intr.yaml": "sock: " + sock + "\n"})

	Test(t, &Program{},
		ThatIntr("-config", "intr.yaml", "-status").WritesStdout("interrupted: false\n"),
	)
}

func TestProgram_Errors(t *testing.T) {
	Test(t, &Program{},
		ThatIntr().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
		ThatIntr("-status", "foo").ExitsWith(2).
			WritesStderrContaining("arguments are not allowed"),
		ThatIntr("-signal", "explode", "-sock", "/x").ExitsWith(2).
			WritesStderrContaining(`unknown signal action "explode"`),
		ThatIntr("-status").ExitsWith(2).
			WritesStderrContaining("no control socket"),
		ThatIntr("-status", "-sock", filepath.Join(t.TempDir(), "missing")).ExitsWith(2).
			WritesStderrContaining("cannot connect to control server"),
	)
}
