package sys

import "runtime"

const dumpStackBufSizeInit = 8192

// DumpStack returns the stack traces of all goroutines. It is useful for
// finding out which loop fails to check for interrupts.
func DumpStack() string {
	buf := make([]byte, dumpStackBufSizeInit)
	for {
		n := runtime.Stack(buf, true)
		if n < cap(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, cap(buf)*2)
	}
}
