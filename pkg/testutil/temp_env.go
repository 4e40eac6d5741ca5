package testutil

import (
	"os"
	"path/filepath"
)

// Setenv sets the value of an environment variable for the duration of a test.
// It returns value.
func Setenv(c Cleanuper, name, value string) string {
	SaveEnv(c, name)
	os.Setenv(name, value)
	return value
}

// SaveEnv saves the current value of an environment variable so that it will be
// restored after a test has finished.
func SaveEnv(c Cleanuper, name string) {
	oldValue, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, oldValue) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}

// ApplyDir creates the files and directories described by tree under dir.
// String values become file contents, nested Dir values become directories.
func ApplyDir(dir string, tree Dir) {
	for name, v := range tree {
		path := filepath.Join(dir, name)
		switch v := v.(type) {
		case string:
			if err := os.WriteFile(path, []byte(v), 0600); err != nil {
				panic(err)
			}
		case Dir:
			if err := os.MkdirAll(path, 0700); err != nil {
				panic(err)
			}
			ApplyDir(path, v)
		default:
			panic("file must be string or Dir")
		}
	}
}

// Dir describes the layout of a directory for ApplyDir.
type Dir map[string]any
