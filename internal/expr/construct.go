package expr

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/daios-ai/decompiler/internal/names"
	"github.com/daios-ai/decompiler/internal/simplified"
	"github.com/daios-ai/decompiler/internal/syntax"
)

// Construct rebuilds the named constructs of one definition from its
// simplified tree. dict supplies declared types for free references and may
// be nil.
//
// Recognition is purely structural. A shape that matches no idiom becomes a
// generic Call or Func, so the result always denotes the same value as t.
func Construct(t simplified.Term, dict *names.Dictionary) Expr {
	c := &constructor{dict: dict, local: map[string]names.Kind{}}
	return c.construct(t)
}

// constructor carries the per-definition type environment. It only ever
// learns that a symbol is a list (from isnil tests).
type constructor struct {
	dict  *names.Dictionary
	local map[string]names.Kind
}

func (c *constructor) construct(t simplified.Term) Expr {
	switch t := t.(type) {
	case simplified.Symbol:
		return Symbol(t)
	case simplified.Int:
		return Int(t)
	case simplified.False:
		return Bool(false)
	case simplified.Prim:
		if syntax.Op(t) == syntax.OpT {
			return Bool(true)
		}
		return Prim(t)
	case simplified.List:
		return List(lo.Map(t, func(v simplified.Term, _ int) Expr { return c.construct(v) }))
	case simplified.Func:
		return c.function(t)
	case simplified.Apply:
		return c.apply(t)
	}
	panic("expr: unknown simplified term " + t.String())
}

func (c *constructor) function(t simplified.Func) Expr {
	body := c.construct(t.Body)
	inner, ok := body.(Func)
	if !ok {
		return Func{Params: []string{t.Param}, Body: body}
	}
	params := append([]string{t.Param}, inner.Params...)
	if cond, ok := notCondition(params, inner.Body); ok {
		return Not{X: cond}
	}
	return Func{Params: params, Body: inner.Body}
}

func (c *constructor) apply(t simplified.Apply) Expr {
	fun := c.construct(t.Fun)
	switch f := fun.(type) {
	case Prim:
		switch syntax.Op(f) {
		case syntax.OpNeg:
			return Neg{X: c.construct(t.Arg)}
		case syntax.OpIsNil:
			x := c.construct(t.Arg)
			if s, ok := x.(Symbol); ok {
				c.local[string(s)] = names.KindList
			}
			return IsNil{X: x}
		}
	case Symbol:
		if c.kindOf(string(f)) == names.KindList {
			arg := c.construct(t.Arg)
			if fn, ok := arg.(Func); ok && len(fn.Params) >= 2 {
				return letCons(f, fn)
			}
			return Call{Fun: f, Args: []Expr{arg}}
		}
	case Let:
		if isOr(f.Var, f.Body) {
			return Binary{Op: OpOr, L: f.Value, R: c.construct(t.Arg)}
		}
		if isAnd(f.Var, f.Body) {
			return Binary{Op: OpAnd, L: f.Value, R: c.construct(t.Arg)}
		}
	case Call:
		return c.extendCall(f, c.construct(t.Arg))
	}
	if isFunc(fun) {
		return c.bindFirstParam(fun, c.construct(t.Arg))
	}
	return Call{Fun: fun, Args: []Expr{c.construct(t.Arg)}}
}

// letCons turns xs applied to λhd.λtl.rest into let hd::tl = xs in rest.
func letCons(xs Symbol, fn Func) Expr {
	var body Expr = fn.Body
	if rest := fn.Params[2:]; len(rest) > 0 {
		body = Func{Params: slices.Clone(rest), Body: fn.Body}
	}
	return LetCons{Head: fn.Params[0], Tail: fn.Params[1], Value: xs, Body: body}
}

// extendCall applies one more argument to an accumulated call.
func (c *constructor) extendCall(call Call, arg Expr) Expr {
	n := len(call.Args)
	if n == 1 {
		lhs := call.Args[0]
		if c.isBool(call.Fun) {
			return If{Cond: call.Fun, Then: lhs, Else: arg}
		}
		if p, ok := call.Fun.(Prim); ok {
			switch syntax.Op(p) {
			case syntax.OpAdd:
				return Binary{Op: OpAdd, L: lhs, R: arg}
			case syntax.OpMul:
				return Binary{Op: OpMul, L: lhs, R: arg}
			case syntax.OpDiv:
				return Binary{Op: OpDiv, L: lhs, R: arg}
			case syntax.OpEq:
				return Binary{Op: OpEq, L: lhs, R: arg}
			case syntax.OpLt:
				return Binary{Op: OpLt, L: lhs, R: arg}
			}
		}
		return Call{Fun: call.Fun, Args: []Expr{lhs, arg}}
	}
	// A saturated boolean function applied to two more values selects one.
	if s, ok := call.Fun.(Symbol); ok {
		if typ, ok := c.typeOf(string(s)); ok && typ.Kind == names.KindFunc &&
			typ.Arity == n-1 && typ.Returns == names.KindBool {
			cond := Call{Fun: s, Args: slices.Clone(call.Args[:n-1])}
			return If{Cond: cond, Then: call.Args[n-1], Else: arg}
		}
	}
	return Call{Fun: call.Fun, Args: append(slices.Clone(call.Args), arg)}
}

type binding struct {
	name  string
	value Expr
}

// bindFirstParam applies a let chain ending in a function to arg: the first
// parameter becomes the outermost let.
func (c *constructor) bindFirstParam(fun, arg Expr) Expr {
	lets, params, body := decomposeLet(fun)
	lets = append(lets, binding{name: params[0], value: arg})
	return composeLet(lets, params[1:], body)
}

// decomposeLet splits let v1 = e1 in ... let vn = en in fun(ps) -> body into
// its bindings (innermost first), ps and body.
func decomposeLet(e Expr) ([]binding, []string, Expr) {
	switch e := e.(type) {
	case Let:
		lets, params, body := decomposeLet(e.Body)
		return append(lets, binding{name: e.Var, value: e.Value}), params, body
	case Func:
		return nil, e.Params, e.Body
	}
	panic("expr: decomposeLet on " + Format(e))
}

// composeLet is the inverse of decomposeLet; the last binding is outermost.
func composeLet(lets []binding, params []string, body Expr) Expr {
	if len(lets) == 0 {
		if len(params) == 0 {
			return body
		}
		return Func{Params: slices.Clone(params), Body: body}
	}
	last := lets[len(lets)-1]
	return Let{Var: last.name, Value: last.value, Body: composeLet(lets[:len(lets)-1], params, body)}
}

func isFunc(e Expr) bool {
	for {
		switch x := e.(type) {
		case Let:
			e = x.Body
		case Func:
			return true
		default:
			return false
		}
	}
}

func (c *constructor) isBool(e Expr) bool {
	switch e := e.(type) {
	case Bool, Not, IsNil:
		return true
	case Binary:
		switch e.Op {
		case OpEq, OpLt, OpAnd, OpOr:
			return true
		}
	case Symbol:
		return c.kindOf(string(e)) == names.KindBool
	}
	return false
}

// typeOf consults the local environment before the dictionary.
func (c *constructor) typeOf(name string) (names.Type, bool) {
	if k, ok := c.local[name]; ok {
		return names.Type{Kind: k}, true
	}
	return c.dict.Type(name)
}

func (c *constructor) kindOf(name string) names.Kind {
	t, _ := c.typeOf(name)
	return t.Kind
}

// let v = e in v(v) applied to x is e || x.
func isOr(v string, body Expr) bool {
	call, ok := body.(Call)
	return ok && len(call.Args) == 1 && call.Fun == Expr(Symbol(v)) && call.Args[0] == Expr(Symbol(v))
}

// let v = e in fun(p) -> v(p, v) applied to x is e && x; so is the mirrored
// layout p(v, p).
func isAnd(v string, body Expr) bool {
	fn, ok := body.(Func)
	if !ok || len(fn.Params) != 1 {
		return false
	}
	call, ok := fn.Body.(Call)
	if !ok || len(call.Args) != 2 {
		return false
	}
	p := fn.Params[0]
	layout := lo.Map(append([]Expr{call.Fun}, call.Args...), func(e Expr, _ int) string {
		s, _ := e.(Symbol)
		return string(s)
	})
	return slices.Equal(layout, []string{v, p, v}) || slices.Equal(layout, []string{p, v, p})
}

// fun(p1, p2) -> if cond { p2 } else { p1 } is !cond when cond mentions
// neither parameter.
func notCondition(params []string, body Expr) (Expr, bool) {
	if len(params) != 2 {
		return nil, false
	}
	e, ok := body.(If)
	if !ok {
		return nil, false
	}
	p1, p2 := params[0], params[1]
	if e.Then != Expr(Symbol(p2)) || e.Else != Expr(Symbol(p1)) {
		return nil, false
	}
	if Mentions(e.Cond, p1) || Mentions(e.Cond, p2) {
		return nil, false
	}
	return e.Cond, true
}
