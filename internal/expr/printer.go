package expr

import (
	"strconv"
	"strings"

	"github.com/daios-ai/decompiler/internal/syntax"
)

/* ---------- expression -> text ---------- */

// Format renders e on one line. Operands are parenthesized only when their
// binding priority is looser than the surrounding position allows.
func Format(e Expr) string {
	var b strings.Builder
	p := pp{b: &b}
	p.printExpr(e)
	return b.String()
}

var primSpelling = map[syntax.Op]string{
	syntax.OpAdd:   "add",
	syntax.OpCar:   "car",
	syntax.OpCdr:   "cdr",
	syntax.OpCons:  "cons",
	syntax.OpDiv:   "div",
	syntax.OpEq:    "==",
	syntax.OpIsNil: "isnil",
	syntax.OpLt:    "<",
	syntax.OpMul:   "mul",
	syntax.OpNeg:   "neg",
}

type pp struct {
	b *strings.Builder
}

func (p *pp) write(s string) { p.b.WriteString(s) }

// Lower binds tighter. Atoms are 0; let-like forms are 9.
func priority(e Expr) int {
	switch e := e.(type) {
	case Neg, Not, IsNil, Call:
		return 1
	case Func:
		return 2
	case Binary:
		return binopPriority(e.Op)
	case If:
		return 8
	case MatchCons, LetCons, Let:
		return 9
	}
	return 0
}

func binopPriority(op Op) int {
	switch op {
	case OpMul, OpDiv, OpMod:
		return 3
	case OpAdd, OpSub:
		return 4
	case OpEq, OpLt:
		return 5
	case OpAnd:
		return 6
	case OpOr:
		return 7
	}
	return 4
}

// printWithin prints e, parenthesized when its priority exceeds limit.
func (p *pp) printWithin(e Expr, limit int) {
	if priority(e) > limit {
		p.write("(")
		p.printExpr(e)
		p.write(")")
		return
	}
	p.printExpr(e)
}

func (p *pp) printExpr(e Expr) {
	switch e := e.(type) {
	case Int:
		p.write(strconv.FormatInt(int64(e), 10))
	case Symbol:
		p.write(string(e))
	case Bool:
		if e {
			p.write("true")
		} else {
			p.write("false")
		}
	case Prim:
		if s, ok := primSpelling[syntax.Op(e)]; ok {
			p.write(s)
		} else {
			p.write(syntax.Op(e).String())
		}
	case List:
		p.write("[")
		p.printList(e)
		p.write("]")
	case Neg:
		p.write("-")
		p.printWithin(e.X, 1)
	case Not:
		p.write("!")
		p.printWithin(e.X, 1)
	case IsNil:
		p.write("isnil(")
		p.printExpr(e.X)
		p.write(")")
	case Binary:
		my := binopPriority(e.Op)
		p.printWithin(e.L, my)
		p.write(" " + e.Op.String() + " ")
		p.printWithin(e.R, my-1)
	case If:
		p.write("if ")
		p.printExpr(e.Cond)
		p.write(" { ")
		p.printExpr(e.Then)
		p.write(" } else { ")
		p.printExpr(e.Else)
		p.write(" }")
	case MatchCons:
		p.write("match ")
		p.printExpr(e.Value)
		p.write(" { [] => ")
		p.printExpr(e.Empty)
		p.write(", " + e.Head + "::" + e.Tail + " => ")
		p.printExpr(e.Body)
		p.write(" }")
	case LetCons:
		p.write("let " + e.Head + "::" + e.Tail + " = ")
		p.printExpr(e.Value)
		p.write(" in ")
		p.printExpr(e.Body)
	case Let:
		p.write("let " + e.Var + " = ")
		p.printExpr(e.Value)
		p.write(" in ")
		p.printExpr(e.Body)
	case Call:
		p.printWithin(e.Fun, 1)
		p.write("(")
		p.printList(e.Args)
		p.write(")")
	case Func:
		p.write("fun(" + strings.Join(e.Params, ", ") + ") -> ")
		p.printExpr(e.Body)
	default:
		p.write("<?>")
	}
}

func (p *pp) printList(xs []Expr) {
	for i, x := range xs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(x)
	}
}
