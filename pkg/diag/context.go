package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a range of text in a named source. It is used for errors that
// can be attributed to a part of the source, like parse errors and failed
// checkpoints.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Markers around the culprit. Can be changed for testing.
var (
	culpritStart = "\033[1;4m"
	culpritEnd   = "\033[m"
)

const culpritPlaceholder = "^"

// Position returns the 1-based line and column of the start of the range.
// Columns count codepoints.
func (c *Context) Position() (line, col int) {
	before := c.Source[:c.From]
	line = strings.Count(before, "\n") + 1
	col = utf8.RuneCountInString(before[strings.LastIndexByte(before, '\n')+1:]) + 1
	return line, col
}

// Describe returns the name of the source and the position of the range,
// like "foo.intr:2:5". It does not include the source excerpt.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	line, col := c.Position()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the position of the range followed by the lines of the source it
// spans, with the culprit highlighted. Lines after the first are prefixed by
// indent.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	before := c.Source[:c.From]
	head := before[strings.LastIndexByte(before, '\n')+1:]
	culprit := strings.TrimSuffix(c.Source[c.From:c.To], "\n")
	var tail string
	if !strings.HasSuffix(c.Source[c.From:c.To], "\n") {
		tail = c.Source[c.To:]
		if i := strings.IndexByte(tail, '\n'); i != -1 {
			tail = tail[:i]
		}
	}
	if culprit == "" {
		culprit = culpritPlaceholder
	}

	var sb strings.Builder
	sb.WriteString(c.Describe())
	sb.WriteString(": ")
	sb.WriteString(head)
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteString("\n")
			sb.WriteString(indent)
		}
		sb.WriteString(culpritStart)
		sb.WriteString(line)
		sb.WriteString(culpritEnd)
	}
	sb.WriteString(tail)
	return sb.String()
}

func (c *Context) checkPosition() error {
	switch {
	case c.From == -1:
		return fmt.Errorf("%s, unknown position", c.Name)
	case c.From < 0 || c.To > len(c.Source) || c.From > c.To:
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}
