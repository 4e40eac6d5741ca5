// Package logutil provides logging utilities.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     = io.Discard
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix. All loggers share the output set by
// SetOutput or SetOutputFile, which discards everything by default.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file, which is created or appended to. An empty name resets the
// output to discard.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	return nil
}
