// Package simplified holds the simplified tree: the evaluated lambda tree with
// boolean false and list literals recovered.
//
// Lists make the tree non-comparable with ==; use Equal.
package simplified

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/daios-ai/decompiler/internal/lambda"
	"github.com/daios-ai/decompiler/internal/syntax"
)

// Term is a simplified tree node: Func, Apply, List, Symbol, Int, Prim or False.
// The true constant stays Prim(syntax.OpT).
type Term interface {
	term()
	String() string
}

type (
	Func struct {
		Param string
		Body  Term
	}
	Apply struct {
		Fun Term
		Arg Term
	}
	// List is a literal list. Once built it is never re-expanded into cons
	// applications.
	List   []Term
	Symbol string
	Int    int64
	// Prim is a primitive other than nil, which becomes the empty List.
	Prim  syntax.Op
	False struct{}
)

func (Func) term()   {}
func (Apply) term()  {}
func (List) term()   {}
func (Symbol) term() {}
func (Int) term()    {}
func (Prim) term()   {}
func (False) term()  {}

func (f Func) String() string   { return `{\` + f.Param + "." + f.Body.String() + "}" }
func (a Apply) String() string  { return "(" + a.Fun.String() + " " + a.Arg.String() + ")" }
func (s Symbol) String() string { return string(s) }
func (n Int) String() string    { return strconv.FormatInt(int64(n), 10) }
func (False) String() string    { return "f" }

func (l List) String() string {
	items := lo.Map(l, func(t Term, _ int) string { return t.String() })
	return "[" + strings.Join(items, ", ") + "]"
}

func (p Prim) String() string { return lambda.Prim(p).String() }

// Equal reports whether a and b are structurally identical.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case Func:
		b, ok := b.(Func)
		return ok && a.Param == b.Param && Equal(a.Body, b.Body)
	case Apply:
		b, ok := b.(Apply)
		return ok && Equal(a.Fun, b.Fun) && Equal(a.Arg, b.Arg)
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}
