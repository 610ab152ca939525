package simplified

import (
	"github.com/daios-ai/decompiler/internal/lambda"
	"github.com/daios-ai/decompiler/internal/syntax"
)

var primT = lambda.Prim(syntax.OpT)

// Simplify recognises the two shapes the evaluator leaves for boolean false,
// turns nil into the empty list and folds fully applied cons chains into list
// literals. Everything else is copied structurally.
func Simplify(t lambda.Term) Term {
	if isFalse(t) {
		return False{}
	}
	switch t := t.(type) {
	case lambda.Func:
		return Func{Param: t.Param, Body: Simplify(t.Body)}
	case lambda.Apply:
		fun := Simplify(t.Fun)
		arg := Simplify(t.Arg)
		if head, ok := consHead(fun); ok {
			if tail, ok := arg.(List); ok {
				list := make(List, 0, len(tail)+1)
				return append(append(list, head), tail...)
			}
		}
		return Apply{Fun: fun, Arg: arg}
	case lambda.Symbol:
		return Symbol(t)
	case lambda.Int:
		return Int(t)
	case lambda.Prim:
		if syntax.Op(t) == syntax.OpNil {
			return List{}
		}
		return Prim(t)
	}
	panic("simplified: unknown lambda term " + t.String())
}

// consHead matches (cons x) and returns x.
func consHead(t Term) (Term, bool) {
	a, ok := t.(Apply)
	if !ok || a.Fun != Term(Prim(syntax.OpCons)) {
		return nil, false
	}
	return a.Arg, true
}

func isFalse(t lambda.Term) bool {
	return isFalseSelect(t) || isFalseConst(t)
}

// λx.λy.(t y)(x y)
func isFalseSelect(t lambda.Term) bool {
	outer, ok := t.(lambda.Func)
	if !ok {
		return false
	}
	inner, ok := outer.Body.(lambda.Func)
	if !ok {
		return false
	}
	x, y := lambda.Symbol(outer.Param), lambda.Symbol(inner.Param)
	want := lambda.Apply{
		Fun: lambda.Apply{Fun: primT, Arg: y},
		Arg: lambda.Apply{Fun: x, Arg: y},
	}
	return inner.Body == lambda.Term(want)
}

// t (λx.x)
func isFalseConst(t lambda.Term) bool {
	a, ok := t.(lambda.Apply)
	if !ok || a.Fun != lambda.Term(primT) {
		return false
	}
	id, ok := a.Arg.(lambda.Func)
	return ok && id.Body == lambda.Term(lambda.Symbol(id.Param))
}
