package testutil

import (
	"io"
	"os"
)

// Must panics if the error value is not nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// MustPipe calls os.Pipe and panics if it fails.
func MustPipe() (*os.File, *os.File) {
	r, w, err := os.Pipe()
	Must(err)
	return r, w
}

// MustReadAllAndClose reads all of r, closes it, and panics if reading fails.
func MustReadAllAndClose(r io.ReadCloser) []byte {
	bs, err := io.ReadAll(r)
	Must(err)
	r.Close()
	return bs
}

// InDir changes into dir for the duration of a test, and returns dir.
func InDir(c Cleanuper, dir string) string {
	wd, err := os.Getwd()
	Must(err)
	Must(os.Chdir(dir))
	c.Cleanup(func() { Must(os.Chdir(wd)) })
	return dir
}
