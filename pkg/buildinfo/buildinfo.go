// Package buildinfo contains build information.
//
// Some of the exported fields may be set during compilation by passing
// -ldflags "-X src.intr.sh/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.intr.sh/pkg/prog"
)

// VersionBase is the version of intr. On development commits, it identifies
// the next release.
const VersionBase = "0.3.0"

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220401235958-123456789012") to identify a development build without
// relying on the VCS information recorded by the Go toolchain.
var VCSOverride string

// Type contains all the build information fields.
type Type struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains the build information.
var Value = Type{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

func devVersion(next, vcsOverride string, f func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := f()
	if !ok {
		return fallback
	}
	// If the main module's version is known, use it, but without the "v"
	// prefix.
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}
	var revision, timestamp string
	modified := false
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			timestamp = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) < 12 {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return fallback
	}
	version := fmt.Sprintf("%s-dev.0.%s-%s",
		next, t.UTC().Format("20060102150405"), revision[:12])
	if modified {
		return version + "-dirty"
	}
	return version
}

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

// RegisterFlags registers -version and -buildinfo, and the shared -json flag.
func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "show build info and quit")
	p.json = fs.JSON()
}

// Run runs the subprogram.
func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
