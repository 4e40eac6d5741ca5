// Package glob implements globbing of file names.
//
// A pattern is split into segments at "/". Each segment is matched against
// directory entries with the syntax of path.Match ("*", "?" and "[...]"),
// except for a segment consisting of "**", which matches any number of
// directories. Wildcards do not match names starting with "." unless the
// segment itself starts with ".".
package glob

import (
	"errors"
	"os"
	"path"
	"strings"
)

// Interruptible is polled by Glob to decide whether to stop early.
type Interruptible interface {
	Interrupted() bool
}

// ErrInterrupted is returned by Glob when it observes an interrupt.
var ErrInterrupted = errors.New("glob interrupted")

var errStopped = errors.New("stopped by callback")

// Glob calls cb with every path matching pattern, in lexical order within each
// directory. It stops without error when cb returns false.
//
// Glob checks intr before reading each directory and before examining each
// entry, and returns ErrInterrupted when intr reports an interrupt.
func Glob(pattern string, intr Interruptible, cb func(string) bool) error {
	dir := ""
	if strings.HasPrefix(pattern, "/") {
		dir = "/"
	}
	var segs []string
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return err
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return nil
	}
	g := globber{intr, cb}
	err := g.glob(dir, segs)
	if err == errStopped {
		return nil
	}
	return err
}

type globber struct {
	intr Interruptible
	cb   func(string) bool
}

func (g globber) emit(p string) error {
	if !g.cb(p) {
		return errStopped
	}
	return nil
}

// Globs segs in dir, which is either empty (the working directory) or ends
// with a slash.
func (g globber) glob(dir string, segs []string) error {
	if g.intr.Interrupted() {
		return ErrInterrupted
	}
	seg, rest := segs[0], segs[1:]

	if !hasWildcard(seg) {
		p := dir + seg
		info, err := os.Stat(p)
		if err != nil {
			return nil
		}
		if len(rest) == 0 {
			return g.emit(p)
		} else if info.IsDir() {
			return g.glob(p+"/", rest)
		}
		return nil
	}

	entries, err := os.ReadDir(dirOrDot(dir))
	if err != nil {
		// Unreadable directories contribute no matches.
		return nil
	}

	if seg == "**" && len(rest) > 0 {
		// "**" matching no directory at all.
		if err := g.glob(dir, rest); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if g.intr.Interrupted() {
			return ErrInterrupted
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(seg, ".") {
			continue
		}
		p := dir + name
		isDir := isDirEntry(p, entry)
		var err error
		switch {
		case seg == "**":
			if len(rest) == 0 {
				err = g.emit(p)
			}
			// Symlinks are not followed, so that cycles cannot make "**"
			// recurse forever.
			if err == nil && entry.IsDir() {
				err = g.glob(p+"/", segs)
			}
		case matchSegment(seg, name):
			if len(rest) == 0 {
				err = g.emit(p)
			} else if isDir {
				err = g.glob(p+"/", rest)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func hasWildcard(seg string) bool {
	return strings.ContainsAny(seg, "*?[")
}

func matchSegment(seg, name string) bool {
	// The pattern has already been validated in Glob.
	matched, _ := path.Match(seg, name)
	return matched
}

func isDirEntry(p string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(p)
		return err == nil && info.IsDir()
	}
	return entry.IsDir()
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
