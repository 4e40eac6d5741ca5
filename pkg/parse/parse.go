// Package parse implements the parser of pipeline sources.
//
// A source is a chunk of pipelines separated by newlines or semicolons. A
// pipeline is a list of forms separated by "|", and a form is a list of
// words, the first of which is the command name. Words are separated by
// spaces or tabs; a part of a word may be quoted with single quotes, in which
// '' stands for a literal single quote. A "#" at the start of a word starts a
// comment that extends to the end of the line.
//
// Every node records the range of source it was parsed from, which is used to
// attribute errors to the part of the source that caused them.
package parse

import "src.intr.sh/pkg/diag"

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Chunk is the root node, a sequence of pipelines.
type Chunk struct {
	diag.Ranging
	Pipelines []*Pipeline
}

// Pipeline is a sequence of forms connected by "|".
type Pipeline struct {
	diag.Ranging
	Forms []*Form
}

// Form is a command invocation.
type Form struct {
	diag.Ranging
	Head *Word
	Args []*Word
}

// Word is a single word, with quoting already removed from Value.
type Word struct {
	diag.Ranging
	Value string
}

// Parse parses src. If the returned error is not nil, it wraps one or more
// *diag.Error values, and the returned Chunk contains the pipelines that were
// parsed successfully.
func Parse(src Source) (*Chunk, error) {
	ps := &parser{srcName: src.Name, src: src.Code}
	chunk := ps.chunk()
	return chunk, ps.assembleError()
}

// SourceText returns the part of src covered by r.
func SourceText(src Source, r diag.Ranger) string {
	rg := r.Range()
	return src.Code[rg.From:rg.To]
}

// UnpackErrors returns the constituent parse errors if err contains any, or
// nil otherwise.
func UnpackErrors(err error) []*diag.Error {
	switch err := err.(type) {
	case *diag.Error:
		return []*diag.Error{err}
	case interface{ Unwrap() []error }:
		var errs []*diag.Error
		for _, e := range err.Unwrap() {
			if e, ok := e.(*diag.Error); ok {
				errs = append(errs, e)
			}
		}
		return errs
	}
	return nil
}
