package shell

import (
	"testing"

	. "src.intr.sh/pkg/prog/progtest"
)

func TestInteract(t *testing.T) {
	Test(t, &Program{},
		ThatIntr().WithStdin("echo hello\n").
			WritesStdout("hello\n").
			WritesStderr("intr> intr> "),
		ThatIntr().WithStdin("echo a\n\necho b").
			WritesStdout("a\nb\n").
			WritesStderrContaining("intr> "),
		ThatIntr().WithStdin("fail mock\necho after\n").
			WritesStdout("after\n").
			WritesStderrContaining("fail mock"),
		ThatIntr().WithStdin("echo |\n").
			WritesStderrContaining("Parse error"),
		ThatIntr().WithStdin("").
			WritesStderr("intr> "),
	)
}
