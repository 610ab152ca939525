package expr

import (
	"github.com/samber/lo"
)

// Simplify applies the local algebraic rewrites bottom-up:
//
//	-(literal)                         → negative literal
//	a + -b                             → a - b
//	a + -(b * (a / b))                 → a % b
//	a + (negative literal)             → a - literal
//	-a + b, (negative literal) + b     → b - a, b - literal
//	if isnil(x) { e1 } else { let hd::tl = x in e2 }
//	                                   → match x { [] => e1, hd::tl => e2 }
//
// Every other node is rebuilt from its simplified children, so
// Simplify(Simplify(e)) equals Simplify(e).
func Simplify(e Expr) Expr {
	switch e := e.(type) {
	case List:
		return List(simplifyAll(e))
	case Neg:
		x := Simplify(e.X)
		if i, ok := x.(Int); ok {
			return -i
		}
		return Neg{X: x}
	case Not:
		return Not{X: Simplify(e.X)}
	case IsNil:
		return IsNil{X: Simplify(e.X)}
	case Binary:
		l, r := Simplify(e.L), Simplify(e.R)
		if e.Op == OpAdd {
			return simplifyAdd(l, r)
		}
		return Binary{Op: e.Op, L: l, R: r}
	case If:
		cond, then, els := Simplify(e.Cond), Simplify(e.Then), Simplify(e.Else)
		if test, ok := cond.(IsNil); ok {
			if lc, ok := els.(LetCons); ok && Equal(test.X, lc.Value) {
				return MatchCons{Value: test.X, Empty: then, Head: lc.Head, Tail: lc.Tail, Body: lc.Body}
			}
		}
		return If{Cond: cond, Then: then, Else: els}
	case MatchCons:
		return MatchCons{Value: Simplify(e.Value), Empty: Simplify(e.Empty), Head: e.Head, Tail: e.Tail, Body: Simplify(e.Body)}
	case LetCons:
		return LetCons{Head: e.Head, Tail: e.Tail, Value: Simplify(e.Value), Body: Simplify(e.Body)}
	case Let:
		return Let{Var: e.Var, Value: Simplify(e.Value), Body: Simplify(e.Body)}
	case Call:
		return Call{Fun: Simplify(e.Fun), Args: simplifyAll(e.Args)}
	case Func:
		return Func{Params: e.Params, Body: Simplify(e.Body)}
	}
	return e
}

func simplifyAll(xs []Expr) []Expr {
	return lo.Map(xs, func(x Expr, _ int) Expr { return Simplify(x) })
}

func simplifyAdd(lhs, rhs Expr) Expr {
	if n, ok := rhs.(Neg); ok {
		if m, ok := n.X.(Binary); ok && m.Op == OpMul {
			if d, ok := m.R.(Binary); ok && d.Op == OpDiv && Equal(d.L, lhs) && Equal(d.R, m.L) {
				return Binary{Op: OpMod, L: lhs, R: m.L}
			}
		}
		return Binary{Op: OpSub, L: lhs, R: n.X}
	}
	if i, ok := rhs.(Int); ok && i < 0 {
		return Binary{Op: OpSub, L: lhs, R: -i}
	}
	if n, ok := lhs.(Neg); ok {
		return Binary{Op: OpSub, L: rhs, R: n.X}
	}
	if i, ok := lhs.(Int); ok && i < 0 {
		return Binary{Op: OpSub, L: rhs, R: -i}
	}
	return Binary{Op: OpAdd, L: lhs, R: rhs}
}
