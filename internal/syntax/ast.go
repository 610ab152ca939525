// ast.go: raw application trees produced by the parser.
//
// The raw tree is the first of four tree shapes in the pipeline. It has exactly
// four node kinds:
//
//	Apply{Fun, Arg}   binary application; n-ary calls are left-nested chains
//	Int               integer literal
//	Symbol            free reference to another definition (":1029", "galaxy", ...)
//	Op                one of the fixed primitive keywords (s, t, i, b, c, car, ...)
//
// Nodes are plain values. Nothing in the pipeline mutates a tree after it has
// been built; every stage produces a fresh one.
package syntax

import (
	"strconv"
	"strings"
)

// Op is a primitive of the combinator vocabulary. The set is closed.
type Op int

const (
	OpAdd Op = iota
	OpB
	OpC
	OpCar
	OpCdr
	OpCons
	OpDiv
	OpEq
	OpI
	OpIsNil
	OpLt
	OpMul
	OpNeg
	OpNil
	OpS
	OpT
)

var opNames = [...]string{
	OpAdd:   "add",
	OpB:     "b",
	OpC:     "c",
	OpCar:   "car",
	OpCdr:   "cdr",
	OpCons:  "cons",
	OpDiv:   "div",
	OpEq:    "eq",
	OpI:     "i",
	OpIsNil: "isnil",
	OpLt:    "lt",
	OpMul:   "mul",
	OpNeg:   "neg",
	OpNil:   "nil",
	OpS:     "s",
	OpT:     "t",
}

// String returns the keyword spelling of the primitive.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
	return opNames[o]
}

// IsCombinator reports whether o is one of the closed combinators removed by
// combinator elimination (S, I, B, C).
func (o Op) IsCombinator() bool {
	switch o {
	case OpS, OpI, OpB, OpC:
		return true
	}
	return false
}

// Node is a raw tree node: Apply, Int, Symbol or Op.
type Node interface {
	node()
	String() string
}

// Apply is the application of Fun to Arg.
type Apply struct {
	Fun Node
	Arg Node
}

// Int is an integer literal.
type Int int64

// Symbol is a free reference to another definition.
type Symbol string

func (Apply) node()  {}
func (Int) node()    {}
func (Symbol) node() {}
func (Op) node()     {}

// String renders the node back in the input syntax ("ap ap cons 1 nil").
func (a Apply) String() string {
	var b strings.Builder
	writeNode(&b, a)
	return b.String()
}

func (n Int) String() string    { return strconv.FormatInt(int64(n), 10) }
func (s Symbol) String() string { return string(s) }

func writeNode(b *strings.Builder, n Node) {
	// Left spines are walked iteratively; they are the deep direction in
	// compiler-generated input.
	var args []Node
	for {
		a, ok := n.(Apply)
		if !ok {
			break
		}
		b.WriteString("ap ")
		args = append(args, a.Arg)
		n = a.Fun
	}
	b.WriteString(n.String())
	for i := len(args) - 1; i >= 0; i-- {
		b.WriteByte(' ')
		writeNode(b, args[i])
	}
}

// Definition is one parsed input line: `<name> = <value>`.
type Definition struct {
	Name  string
	Value Node
}

func (d Definition) String() string {
	return d.Name + " = " + d.Value.String()
}

// Symbols returns the distinct free symbols of n in first-occurrence order.
func Symbols(n Node) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case Apply:
			walk(n.Fun)
			walk(n.Arg)
		case Symbol:
			if !seen[string(n)] {
				seen[string(n)] = true
				out = append(out, string(n))
			}
		}
	}
	walk(n)
	return out
}
