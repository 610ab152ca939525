// value.go: the runtime value domain shared by combinator and expression
// evaluation.
//
// Values are Int, Bool, Nil, *Cons and *Closure. Booleans are first-class
// selectors: applying true to x then y yields x, applying false yields y.
// Applying nil to anything yields true; applying a cons cell to f yields
// f head tail. These are the only application rules, so a program written
// entirely with the primitive vocabulary and one written with the structured
// constructs can be compared value for value.
package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a runtime value.
type Value interface {
	value()
}

type (
	Int  int64
	Bool bool
	Nil  struct{}

	Cons struct {
		Head Value
		Tail Value
	}

	// Closure is a one-argument function. Name is for diagnostics only.
	Closure struct {
		Name string
		Fn   func(Value) (Value, error)
	}

	// marker is an opaque probe used to observe function-encoded booleans.
	marker int
)

func (Int) value()      {}
func (Bool) value()     {}
func (Nil) value()      {}
func (*Cons) value()    {}
func (*Closure) value() {}
func (marker) value()   {}

// RuntimeError reports an evaluation failure: a type mismatch, an unbound
// name, division by zero or an exhausted step budget.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return "RUNTIME ERROR: " + e.Msg }

func rtErr(format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// Env is a lexical frame. Lookups climb to the parent when a name is not
// bound locally.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: map[string]Value{}} }

// Define binds name in this frame, shadowing outer bindings.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get returns the nearest binding of name.
func (e *Env) Get(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, nil
		}
	}
	return nil, rtErr("unbound name %s", name)
}

func typeName(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Nil:
		return "nil"
	case *Cons:
		return "cons"
	case *Closure:
		return "function"
	}
	return "probe"
}

func formatInt(n Int) string { return strconv.FormatInt(int64(n), 10) }

func joinValues(xs []string) string { return strings.Join(xs, ", ") }
