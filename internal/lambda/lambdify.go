package lambda

import (
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/daios-ai/decompiler/internal/syntax"
)

// Lambdify replaces the combinators S, I, B and C of a raw tree with function
// values over freshly generated parameter names:
//
//	I ↦ λx. x
//	B ↦ λx0. λx1. λx2. x0 (x1 x2)
//	C ↦ λx0. λx1. λx2. (x0 x2) x1
//	S ↦ λx0. λx1. λx2. (x0 x2) (x1 x2)
//
// Names are unique within the returned term and never coincide with a free
// symbol of n. The numbering restarts on every call.
func Lambdify(n syntax.Node) Term {
	l := &lambdifier{free: syntax.Symbols(n)}
	return l.lambdify(n)
}

type lambdifier struct {
	next int
	free []string
}

func (l *lambdifier) lambdify(n syntax.Node) Term {
	switch n := n.(type) {
	case syntax.Apply:
		fun := l.lambdify(n.Fun)
		arg := l.lambdify(n.Arg)
		return Apply{Fun: fun, Arg: arg}
	case syntax.Symbol:
		return Symbol(n)
	case syntax.Int:
		return Int(n)
	case syntax.Op:
		switch n {
		case syntax.OpI:
			return l.newI()
		case syntax.OpB:
			return l.newB()
		case syntax.OpC:
			return l.newC()
		case syntax.OpS:
			return l.newS()
		}
		return Prim(n)
	}
	panic("lambda: unknown raw node " + n.String())
}

func (l *lambdifier) fresh() string {
	for {
		name := "x" + strconv.Itoa(l.next)
		l.next++
		if !slices.Contains(l.free, name) {
			return name
		}
	}
}

func (l *lambdifier) params3() (string, string, string) {
	x0 := l.fresh()
	x1 := l.fresh()
	x2 := l.fresh()
	return x0, x1, x2
}

func fn3(x0, x1, x2 string, body Term) Term {
	return Func{Param: x0, Body: Func{Param: x1, Body: Func{Param: x2, Body: body}}}
}

// (I x) = x
func (l *lambdifier) newI() Term {
	x := l.fresh()
	return Func{Param: x, Body: Symbol(x)}
}

// (B x0 x1 x2) = (x0 (x1 x2))
func (l *lambdifier) newB() Term {
	x0, x1, x2 := l.params3()
	return fn3(x0, x1, x2, Apply{
		Fun: Symbol(x0),
		Arg: Apply{Fun: Symbol(x1), Arg: Symbol(x2)},
	})
}

// (C x0 x1 x2) = (x0 x2 x1)
func (l *lambdifier) newC() Term {
	x0, x1, x2 := l.params3()
	return fn3(x0, x1, x2, Apply{
		Fun: Apply{Fun: Symbol(x0), Arg: Symbol(x2)},
		Arg: Symbol(x1),
	})
}

// (S x0 x1 x2) = ((x0 x2) (x1 x2))
func (l *lambdifier) newS() Term {
	x0, x1, x2 := l.params3()
	return fn3(x0, x1, x2, Apply{
		Fun: Apply{Fun: Symbol(x0), Arg: Symbol(x2)},
		Arg: Apply{Fun: Symbol(x1), Arg: Symbol(x2)},
	})
}
