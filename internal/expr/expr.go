// Package expr is the structured expression tree: the decompiler's output
// language, with named constructs for conditionals, boolean connectives, list
// matching and let-binding.
//
// The stages over it are:
//
//	Construct  simplified tree → Expr (idiom recognition)
//	Simplify   Expr → Expr (algebraic rewrites, idempotent)
//	Rename     Expr → Expr (deterministic binder names)
//	Format     Expr → string
//
// Trees are immutable. Slices held by a node are never appended to in place
// by a later stage.
package expr

import (
	"strconv"

	"github.com/daios-ai/decompiler/internal/syntax"
)

// Expr is a structured expression node.
type Expr interface {
	expr()
	String() string
}

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpLt
	OpAnd
	OpOr
)

var opSpelling = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpEq:  "==",
	OpLt:  "<",
	OpAnd: "&&",
	OpOr:  "||",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opSpelling) {
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
	return opSpelling[o]
}

type (
	Int    int64
	Symbol string
	List   []Expr
	Bool   bool

	// Prim is a primitive left unapplied or partially applied: add car cdr
	// cons div eq isnil lt mul neg.
	Prim syntax.Op

	Neg   struct{ X Expr }
	Not   struct{ X Expr }
	IsNil struct{ X Expr }

	Binary struct {
		Op   Op
		L, R Expr
	}

	If struct {
		Cond, Then, Else Expr
	}

	// MatchCons is match Value { [] => Empty, Head::Tail => Body }.
	MatchCons struct {
		Value      Expr
		Empty      Expr
		Head, Tail string
		Body       Expr
	}

	// LetCons is let Head::Tail = Value in Body.
	LetCons struct {
		Head, Tail string
		Value      Expr
		Body       Expr
	}

	Let struct {
		Var   string
		Value Expr
		Body  Expr
	}

	// Call has at least one argument.
	Call struct {
		Fun  Expr
		Args []Expr
	}

	// Func has at least one parameter.
	Func struct {
		Params []string
		Body   Expr
	}
)

func (Int) expr()       {}
func (Symbol) expr()    {}
func (List) expr()      {}
func (Bool) expr()      {}
func (Prim) expr()      {}
func (Neg) expr()       {}
func (Not) expr()       {}
func (IsNil) expr()     {}
func (Binary) expr()    {}
func (If) expr()        {}
func (MatchCons) expr() {}
func (LetCons) expr()   {}
func (Let) expr()       {}
func (Call) expr()      {}
func (Func) expr()      {}

func (e Int) String() string       { return Format(e) }
func (e Symbol) String() string    { return Format(e) }
func (e List) String() string      { return Format(e) }
func (e Bool) String() string      { return Format(e) }
func (e Prim) String() string      { return Format(e) }
func (e Neg) String() string       { return Format(e) }
func (e Not) String() string       { return Format(e) }
func (e IsNil) String() string     { return Format(e) }
func (e Binary) String() string    { return Format(e) }
func (e If) String() string        { return Format(e) }
func (e MatchCons) String() string { return Format(e) }
func (e LetCons) String() string   { return Format(e) }
func (e Let) String() string       { return Format(e) }
func (e Call) String() string      { return Format(e) }
func (e Func) String() string      { return Format(e) }

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case List:
		b, ok := b.(List)
		return ok && equalAll(a, b)
	case Neg:
		b, ok := b.(Neg)
		return ok && Equal(a.X, b.X)
	case Not:
		b, ok := b.(Not)
		return ok && Equal(a.X, b.X)
	case IsNil:
		b, ok := b.(IsNil)
		return ok && Equal(a.X, b.X)
	case Binary:
		b, ok := b.(Binary)
		return ok && a.Op == b.Op && Equal(a.L, b.L) && Equal(a.R, b.R)
	case If:
		b, ok := b.(If)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then) && Equal(a.Else, b.Else)
	case MatchCons:
		b, ok := b.(MatchCons)
		return ok && a.Head == b.Head && a.Tail == b.Tail &&
			Equal(a.Value, b.Value) && Equal(a.Empty, b.Empty) && Equal(a.Body, b.Body)
	case LetCons:
		b, ok := b.(LetCons)
		return ok && a.Head == b.Head && a.Tail == b.Tail && Equal(a.Value, b.Value) && Equal(a.Body, b.Body)
	case Let:
		b, ok := b.(Let)
		return ok && a.Var == b.Var && Equal(a.Value, b.Value) && Equal(a.Body, b.Body)
	case Call:
		b, ok := b.(Call)
		return ok && Equal(a.Fun, b.Fun) && equalAll(a.Args, b.Args)
	case Func:
		b, ok := b.(Func)
		if !ok || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i] != b.Params[i] {
				return false
			}
		}
		return Equal(a.Body, b.Body)
	case Int, Symbol, Bool, Prim:
		return a == b
	}
	return false
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Mentions reports whether name occurs as a Symbol anywhere in e. Binder
// positions do not count.
func Mentions(e Expr, name string) bool {
	found := false
	Walk(e, func(n Expr) bool {
		if s, ok := n.(Symbol); ok && string(s) == name {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits e and its subexpressions in print order,
// stopping descent below a node when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, fn)
	}
}

func children(e Expr) []Expr {
	switch e := e.(type) {
	case List:
		return e
	case Neg:
		return []Expr{e.X}
	case Not:
		return []Expr{e.X}
	case IsNil:
		return []Expr{e.X}
	case Binary:
		return []Expr{e.L, e.R}
	case If:
		return []Expr{e.Cond, e.Then, e.Else}
	case MatchCons:
		return []Expr{e.Value, e.Empty, e.Body}
	case LetCons:
		return []Expr{e.Value, e.Body}
	case Let:
		return []Expr{e.Value, e.Body}
	case Call:
		return append([]Expr{e.Fun}, e.Args...)
	case Func:
		return []Expr{e.Body}
	}
	return nil
}
