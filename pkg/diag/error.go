package diag

import (
	"fmt"
	"strings"
)

// Markers around the message in the output of (*Error).Show. Can be changed
// for testing.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	return fmt.Sprintf("%s: %s%s%s\n%s  %s", capitalize(e.Type),
		messageStart, e.Message, messageEnd, indent, e.Context.Show(indent+"  "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
