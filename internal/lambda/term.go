// Package lambda holds the lambda tree: the raw tree with the closed
// combinators S, I, B and C replaced by explicit function values.
//
// Every node type is a comparable value, so two terms are structurally equal
// exactly when they compare equal with ==.
package lambda

import (
	"strconv"

	"github.com/daios-ai/decompiler/internal/syntax"
)

// Term is a lambda tree node: Func, Apply, Symbol, Int or Prim.
type Term interface {
	term()
	String() string
}

// Func is a one-parameter function value.
type Func struct {
	Param string
	Body  Term
}

// Apply is the application of Fun to Arg.
type Apply struct {
	Fun Term
	Arg Term
}

// Symbol is a reference. It is bound when an enclosing Func has it as its
// parameter and free (a reference to another definition) otherwise.
type Symbol string

// Int is an integer literal.
type Int int64

// Prim is a non-combinator primitive: add car cdr cons div eq isnil lt mul neg
// nil t.
type Prim syntax.Op

func (Func) term()   {}
func (Apply) term()  {}
func (Symbol) term() {}
func (Int) term()    {}
func (Prim) term()   {}

func (f Func) String() string   { return `{\` + f.Param + "." + f.Body.String() + "}" }
func (a Apply) String() string  { return "(" + a.Fun.String() + " " + a.Arg.String() + ")" }
func (s Symbol) String() string { return string(s) }
func (n Int) String() string    { return strconv.FormatInt(int64(n), 10) }

func (p Prim) String() string {
	switch syntax.Op(p) {
	case syntax.OpEq:
		return "=="
	case syntax.OpLt:
		return "<"
	case syntax.OpNeg:
		return "~-"
	}
	return syntax.Op(p).String()
}
