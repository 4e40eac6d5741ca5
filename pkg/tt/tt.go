// Package tt supports table-driven tests with little boilerplate.
//
// See the test case for this package for example usage.
package tt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table represents a test table.
type Table []*Case

// Case represents a test case. It is created by the Args function, and offers
// setters that augment and return itself; those calls can be chained like
// Args(...).Rets(...).
type Case struct {
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets modifies the test case so that it requires the return values to match
// the given values. It returns the receiver. The arguments may implement the
// Matcher interface, in which case its Match method is called with the actual
// return value. Otherwise, cmp.Equal is used to determine matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnToTest describes a function to test.
type FnToTest struct {
	name    string
	body    any
	argsFmt string
}

// Fn makes a new FnToTest with the given function name and body.
func Fn(name string, body any) *FnToTest {
	return &FnToTest{name: name, body: body}
}

// ArgsFmt sets the string for formatting arguments in test error messages, and
// return fn itself.
func (fn *FnToTest) ArgsFmt(s string) *FnToTest {
	fn.argsFmt = s
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if match(retsMatcher, rets) {
				continue
			}
			var args string
			if fn.argsFmt == "" {
				args = sprintCommaDelimited(test.args...)
			} else {
				args = fmt.Sprintf(fn.argsFmt, test.args...)
			}
			if hasMatcher(retsMatcher) {
				t.Errorf("%s(%s) -> %s, want %s", fn.name, args,
					sprintCommaDelimited(rets...), sprintCommaDelimited(retsMatcher...))
			} else {
				t.Errorf("%s(%s) returns (-want +got):\n%s",
					fn.name, args, cmp.Diff(retsMatcher, rets))
			}
		}
	}
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// ErrorIs returns a Matcher that matches any error wrapping target, and
// matches a nil error only when target is nil.
func ErrorIs(target error) Matcher { return errorIsMatcher{target} }

type errorIsMatcher struct{ target error }

func (m errorIsMatcher) Match(v RetValue) bool {
	err, _ := v.(error)
	if m.target == nil {
		return err == nil
	}
	return err != nil && errors.Is(err, m.target)
}

func (m errorIsMatcher) String() string {
	if m.target == nil {
		return "<nil>"
	}
	return "error wrapping " + m.target.Error()
}

func (anyMatcher) String() string { return "any value" }

func hasMatcher(matchers []any) bool {
	for _, m := range matchers {
		if _, ok := m.(Matcher); ok {
			return true
		}
	}
	return false
}

func match(matchers, actual []any) bool {
	for i, matcher := range matchers {
		if !matchOne(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func matchOne(m, a any) bool {
	if m, ok := m.(Matcher); ok {
		return m.Match(a)
	}
	return cmp.Equal(m, a)
}

func sprintCommaDelimited(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	fnType := reflect.TypeOf(fn)
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) is the zero Value; use a typed nil of the
			// parameter type instead.
			argsReflect[i] = reflect.Zero(fnType.In(i))
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}
