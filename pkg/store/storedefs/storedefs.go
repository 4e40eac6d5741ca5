// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// do not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"

	"src.intr.sh/pkg/signals"
)

// ErrNoAction is returned when a query for a journal entry finds nothing.
var ErrNoAction = errors.New("no matching action")

// Store is an interface satisfied by the storage of the action journal.
type Store interface {
	NextActionSeq() (int, error)
	AddAction(a signals.Action) (int, error)
	Actions(from, upto int) ([]Entry, error)
	LastAction() (Entry, error)
}

// Entry is an entry in the action journal.
type Entry struct {
	Seq    int            `json:"seq"`
	Action signals.Action `json:"action"`
	Time   time.Time      `json:"time"`
}
