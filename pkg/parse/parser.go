package parse

import (
	"errors"
	"strings"

	"src.intr.sh/pkg/diag"
	"src.intr.sh/pkg/errutil"
)

// Errors.
var (
	errShouldBeForm       = errors.New("should be form")
	errStringUnterminated = errors.New("string not terminated")
)

// parser maintains the mutable state of parsing.
type parser struct {
	srcName string
	src     string
	pos     int
	errors  []error
}

const eof = -1

func (ps *parser) peek() int {
	if ps.pos == len(ps.src) {
		return eof
	}
	return int(ps.src[ps.pos])
}

func (ps *parser) errorp(r diag.Ranger, e error) {
	ps.errors = append(ps.errors, &diag.Error{
		Type:    "parse error",
		Message: e.Error(),
		Context: *diag.NewContext(ps.srcName, ps.src, r),
	})
}

func (ps *parser) assembleError() error {
	return errutil.Multi(ps.errors...)
}

func isSpace(r int) bool { return r == ' ' || r == '\t' || r == '\r' }

// Terminates a pipeline.
func isPipelineSep(r int) bool { return r == '\n' || r == ';' }

// Terminates a bare part of a word.
func isBareTerminator(r int) bool {
	return r == eof || isSpace(r) || isPipelineSep(r) || r == '|' || r == '\''
}

func (ps *parser) skipSpaces() {
	for isSpace(ps.peek()) {
		ps.pos++
	}
}

// Skips spaces, newlines and comments.
func (ps *parser) skipSpacesAndNewlines() {
	for {
		switch r := ps.peek(); {
		case isSpace(r) || r == '\n':
			ps.pos++
		case r == '#':
			ps.skipComment()
		default:
			return
		}
	}
}

func (ps *parser) skipComment() {
	if i := strings.IndexByte(ps.src[ps.pos:], '\n'); i == -1 {
		ps.pos = len(ps.src)
	} else {
		ps.pos += i
	}
}

func (ps *parser) chunk() *Chunk {
	chunk := &Chunk{Ranging: diag.Ranging{From: 0, To: len(ps.src)}}
	for {
		for ps.skipSpacesAndNewlines(); ps.peek() == ';'; ps.skipSpacesAndNewlines() {
			ps.pos++
		}
		if ps.peek() == eof {
			return chunk
		}
		if pn := ps.pipeline(); pn != nil {
			chunk.Pipelines = append(chunk.Pipelines, pn)
		}
	}
}

// Returns nil if the pipeline has errors. The parser is always positioned
// after the pipeline when it returns.
func (ps *parser) pipeline() *Pipeline {
	pn := &Pipeline{}
	ok := true
	for {
		fn := ps.form()
		if fn == nil {
			ok = false
		} else {
			pn.Forms = append(pn.Forms, fn)
		}
		if ps.peek() != '|' {
			break
		}
		ps.pos++
		// Allow a pipeline to continue on the next line after "|".
		ps.skipSpacesAndNewlines()
	}
	if !ok {
		return nil
	}
	pn.Ranging = diag.MixedRanging(pn.Forms[0], pn.Forms[len(pn.Forms)-1])
	return pn
}

// Returns nil if the form has no words.
func (ps *parser) form() *Form {
	var words []*Word
	for {
		ps.skipSpaces()
		switch r := ps.peek(); {
		case r == '#':
			ps.skipComment()
		case r == eof || r == '|' || isPipelineSep(r):
			if len(words) == 0 {
				ps.errorp(diag.PointRanging(ps.pos), errShouldBeForm)
				return nil
			}
			return &Form{
				Ranging: diag.MixedRanging(words[0], words[len(words)-1]),
				Head:    words[0], Args: words[1:]}
		default:
			words = append(words, ps.word())
		}
	}
}

func (ps *parser) word() *Word {
	begin := ps.pos
	var sb strings.Builder
	for {
		switch r := ps.peek(); {
		case r == '\'':
			ps.singleQuoted(&sb)
		case isBareTerminator(r):
			return &Word{Ranging: diag.Ranging{From: begin, To: ps.pos}, Value: sb.String()}
		default:
			sb.WriteByte(byte(r))
			ps.pos++
		}
	}
}

// Parses a single-quoted string, starting at the opening quote.
func (ps *parser) singleQuoted(sb *strings.Builder) {
	begin := ps.pos
	ps.pos++
	for {
		i := strings.IndexByte(ps.src[ps.pos:], '\'')
		if i == -1 {
			sb.WriteString(ps.src[ps.pos:])
			ps.pos = len(ps.src)
			ps.errorp(diag.Ranging{From: begin, To: ps.pos}, errStringUnterminated)
			return
		}
		sb.WriteString(ps.src[ps.pos : ps.pos+i])
		ps.pos += i + 1
		if ps.peek() != '\'' {
			return
		}
		// Two consecutive single quotes stand for one literal single quote.
		sb.WriteByte('\'')
		ps.pos++
	}
}
