package interp

import (
	"github.com/daios-ai/decompiler/internal/expr"
	"github.com/daios-ai/decompiler/internal/syntax"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// DefaultMaxSteps bounds the applications performed by one evaluation.
const DefaultMaxSteps = 1_000_000

// Machine evaluates raw combinator trees and structured expressions over the
// same value domain.
//
// Global holds the values of free references (other definitions, or inputs
// supplied by a test or the REPL). Arguments are passed as suspended
// computations and forced on first use, so an unselected branch of a
// combinator-encoded boolean is never evaluated.
type Machine struct {
	Global   *Env
	MaxSteps int

	steps int
}

// New returns a machine with an empty global frame.
func New() *Machine {
	return &Machine{Global: NewEnv(nil), MaxSteps: DefaultMaxSteps}
}

// EvalRaw evaluates a raw tree. The step budget is reset first.
func (m *Machine) EvalRaw(n syntax.Node) (Value, error) {
	m.steps = 0
	v, err := m.raw(n)
	if err != nil {
		return nil, err
	}
	return force(v)
}

// EvalExpr evaluates a structured expression. The step budget is reset first.
func (m *Machine) EvalExpr(e expr.Expr) (Value, error) {
	m.steps = 0
	return m.eval(e, m.Global)
}

// Apply applies f to x.
func (m *Machine) Apply(f, x Value) (Value, error) {
	m.steps++
	if m.MaxSteps > 0 && m.steps > m.MaxSteps {
		return nil, rtErr("step limit of %d exceeded", m.MaxSteps)
	}
	f, err := force(f)
	if err != nil {
		return nil, err
	}
	switch f := f.(type) {
	case *Closure:
		return f.Fn(x)
	case Bool:
		if f {
			return closure("t1", func(Value) (Value, error) { return x, nil }), nil
		}
		return closure("f1", func(y Value) (Value, error) { return y, nil }), nil
	case Nil:
		return Bool(true), nil
	case marker:
		// Probes absorb their arguments.
		return f, nil
	case *Cons:
		g, err := m.Apply(x, f.Head)
		if err != nil {
			return nil, err
		}
		return m.Apply(g, f.Tail)
	}
	return nil, rtErr("cannot apply %s", typeName(f))
}

// ApplyAll applies f to each argument in turn.
func (m *Machine) ApplyAll(f Value, args ...Value) (Value, error) {
	var err error
	for _, a := range args {
		if f, err = m.Apply(f, a); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Truth interprets v as a boolean, probing functions with two markers.
func (m *Machine) Truth(v Value) (bool, error) {
	v, err := force(v)
	if err != nil {
		return false, err
	}
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	if _, ok := v.(*Closure); !ok {
		return false, rtErr("expected a boolean, got %s", typeName(v))
	}
	r, err := m.ApplyAll(v, marker(1), marker(2))
	if err == nil {
		r, err = force(r)
	}
	if err != nil {
		return false, err
	}
	switch r {
	case marker(1):
		return true, nil
	case marker(2):
		return false, nil
	}
	return false, rtErr("function is not a boolean")
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                            PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

func closure(name string, fn func(Value) (Value, error)) *Closure {
	return &Closure{Name: name, Fn: fn}
}

func closure2(name string, fn func(a, b Value) (Value, error)) *Closure {
	return closure(name, func(a Value) (Value, error) {
		return closure(name, func(b Value) (Value, error) { return fn(a, b) }), nil
	})
}

func closure3(name string, fn func(a, b, c Value) (Value, error)) *Closure {
	return closure(name, func(a Value) (Value, error) {
		return closure2(name, func(b, c Value) (Value, error) { return fn(a, b, c) }), nil
	})
}

func intArgs(op string, a, b Value) (Int, Int, error) {
	a, err := force(a)
	if err != nil {
		return 0, 0, err
	}
	if b, err = force(b); err != nil {
		return 0, 0, err
	}
	x, ok1 := a.(Int)
	y, ok2 := b.(Int)
	if !ok1 || !ok2 {
		return 0, 0, rtErr("%s expects integers, got %s and %s", op, typeName(a), typeName(b))
	}
	return x, y, nil
}

func (m *Machine) arith(op expr.Op, a, b Value) (Value, error) {
	x, y, err := intArgs(op.String(), a, b)
	if err != nil {
		return nil, err
	}
	switch op {
	case expr.OpAdd:
		return x + y, nil
	case expr.OpSub:
		return x - y, nil
	case expr.OpMul:
		return x * y, nil
	case expr.OpDiv, expr.OpMod:
		if y == 0 {
			return nil, rtErr("division by zero")
		}
		if op == expr.OpDiv {
			return x / y, nil
		}
		return x % y, nil
	case expr.OpEq:
		return Bool(x == y), nil
	case expr.OpLt:
		return Bool(x < y), nil
	}
	return nil, rtErr("unknown operator %s", op)
}

func (m *Machine) isNil(v Value) (Value, error) {
	v, err := force(v)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case Nil:
		return Bool(true), nil
	case *Cons:
		return Bool(false), nil
	}
	return nil, rtErr("isnil expects a list, got %s", typeName(v))
}

// select2 is car/cdr: a cons cell yields its field, anything else is applied
// to the selector boolean.
func (m *Machine) select2(v Value, head bool) (Value, error) {
	v, err := force(v)
	if err != nil {
		return nil, err
	}
	if c, ok := v.(*Cons); ok {
		if head {
			return c.Head, nil
		}
		return c.Tail, nil
	}
	return m.Apply(v, Bool(head))
}

// prim returns the value of a primitive keyword.
func (m *Machine) prim(op syntax.Op) Value {
	binop := func(o expr.Op) *Closure {
		return closure2(op.String(), func(a, b Value) (Value, error) { return m.arith(o, a, b) })
	}
	switch op {
	case syntax.OpI:
		return closure("i", func(x Value) (Value, error) { return x, nil })
	case syntax.OpB:
		return closure3("b", func(f, g, x Value) (Value, error) {
			return m.Apply(f, m.delayApply(g, x))
		})
	case syntax.OpC:
		return closure3("c", func(f, g, x Value) (Value, error) { return m.ApplyAll(f, x, g) })
	case syntax.OpS:
		return closure3("s", func(f, g, x Value) (Value, error) {
			return m.ApplyAll(f, x, m.delayApply(g, x))
		})
	case syntax.OpT:
		return Bool(true)
	case syntax.OpNil:
		return Nil{}
	case syntax.OpCons:
		return closure2("cons", func(h, t Value) (Value, error) { return &Cons{Head: h, Tail: t}, nil })
	case syntax.OpCar:
		return closure("car", func(v Value) (Value, error) { return m.select2(v, true) })
	case syntax.OpCdr:
		return closure("cdr", func(v Value) (Value, error) { return m.select2(v, false) })
	case syntax.OpIsNil:
		return closure("isnil", m.isNil)
	case syntax.OpNeg:
		return closure("neg", func(v Value) (Value, error) {
			v, err := force(v)
			if err != nil {
				return nil, err
			}
			n, ok := v.(Int)
			if !ok {
				return nil, rtErr("neg expects an integer, got %s", typeName(v))
			}
			return -n, nil
		})
	case syntax.OpAdd:
		return binop(expr.OpAdd)
	case syntax.OpMul:
		return binop(expr.OpMul)
	case syntax.OpDiv:
		return binop(expr.OpDiv)
	case syntax.OpEq:
		return binop(expr.OpEq)
	case syntax.OpLt:
		return binop(expr.OpLt)
	}
	return closure("?", func(Value) (Value, error) { return nil, rtErr("unknown primitive %s", op) })
}

// thunk is a suspended computation, evaluated at most once.
type thunk struct {
	fn   func() (Value, error)
	v    Value
	err  error
	done bool
}

func (*thunk) value() {}

func delay(fn func() (Value, error)) Value { return &thunk{fn: fn} }

func (m *Machine) delayApply(f, x Value) Value {
	return delay(func() (Value, error) { return m.Apply(f, x) })
}

// force evaluates v until it is no longer a thunk.
func force(v Value) (Value, error) {
	for {
		t, ok := v.(*thunk)
		if !ok {
			return v, nil
		}
		if !t.done {
			t.v, t.err = t.fn()
			t.done, t.fn = true, nil
		}
		if t.err != nil {
			return nil, t.err
		}
		v = t.v
	}
}

/* ---------- raw trees ---------- */

func (m *Machine) raw(n syntax.Node) (Value, error) {
	switch n := n.(type) {
	case syntax.Int:
		return Int(n), nil
	case syntax.Symbol:
		return m.Global.Get(string(n))
	case syntax.Op:
		return m.prim(n), nil
	case syntax.Apply:
		f, err := m.raw(n.Fun)
		if err != nil {
			return nil, err
		}
		arg := n.Arg
		return m.Apply(f, delay(func() (Value, error) { return m.raw(arg) }))
	}
	return nil, rtErr("unknown raw node %v", n)
}

/* ---------- structured expressions ---------- */

// eval never returns a thunk.
func (m *Machine) eval(e expr.Expr, env *Env) (Value, error) {
	v, err := m.evalNode(e, env)
	if err != nil {
		return nil, err
	}
	return force(v)
}

func (m *Machine) evalNode(e expr.Expr, env *Env) (Value, error) {
	switch e := e.(type) {
	case expr.Int:
		return Int(e), nil
	case expr.Bool:
		return Bool(e), nil
	case expr.Symbol:
		return env.Get(string(e))
	case expr.Prim:
		return m.prim(syntax.Op(e)), nil
	case expr.List:
		// Elements are suspended like the fields of a raw cons cell.
		var out Value = Nil{}
		for i := len(e) - 1; i >= 0; i-- {
			x := e[i]
			out = &Cons{Head: delay(func() (Value, error) { return m.eval(x, env) }), Tail: out}
		}
		return out, nil
	case expr.Neg:
		v, err := m.eval(e.X, env)
		if err != nil {
			return nil, err
		}
		return m.Apply(m.prim(syntax.OpNeg), v)
	case expr.Not:
		b, err := m.truthOf(e.X, env)
		if err != nil {
			return nil, err
		}
		return Bool(!b), nil
	case expr.IsNil:
		v, err := m.eval(e.X, env)
		if err != nil {
			return nil, err
		}
		return m.isNil(v)
	case expr.Binary:
		return m.binary(e, env)
	case expr.If:
		b, err := m.truthOf(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if b {
			return m.eval(e.Then, env)
		}
		return m.eval(e.Else, env)
	case expr.MatchCons:
		v, err := m.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(Nil); ok {
			return m.eval(e.Empty, env)
		}
		return m.destructure(v, e.Head, e.Tail, e.Body, env)
	case expr.LetCons:
		v, err := m.eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		return m.destructure(v, e.Head, e.Tail, e.Body, env)
	case expr.Let:
		value := e.Value
		frame := NewEnv(env)
		frame.Define(e.Var, delay(func() (Value, error) { return m.eval(value, env) }))
		return m.eval(e.Body, frame)
	case expr.Call:
		f, err := m.eval(e.Fun, env)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			a := a
			args[i] = delay(func() (Value, error) { return m.eval(a, env) })
		}
		return m.ApplyAll(f, args...)
	case expr.Func:
		return m.function(e.Params, e.Body, env), nil
	}
	return nil, rtErr("unknown expression %v", e)
}

func (m *Machine) truthOf(e expr.Expr, env *Env) (bool, error) {
	v, err := m.eval(e, env)
	if err != nil {
		return false, err
	}
	return m.Truth(v)
}

func (m *Machine) binary(e expr.Binary, env *Env) (Value, error) {
	switch e.Op {
	case expr.OpAnd, expr.OpOr:
		l, err := m.truthOf(e.L, env)
		if err != nil {
			return nil, err
		}
		if l == (e.Op == expr.OpOr) {
			return Bool(l), nil
		}
		r, err := m.truthOf(e.R, env)
		if err != nil {
			return nil, err
		}
		return Bool(r), nil
	}
	l, err := m.eval(e.L, env)
	if err != nil {
		return nil, err
	}
	r, err := m.eval(e.R, env)
	if err != nil {
		return nil, err
	}
	return m.arith(e.Op, l, r)
}

// destructure applies v to fun(head, tail) -> body, which for a cons cell
// binds its fields.
func (m *Machine) destructure(v Value, head, tail string, body expr.Expr, env *Env) (Value, error) {
	return m.Apply(v, m.function([]string{head, tail}, body, env))
}

func (m *Machine) function(params []string, body expr.Expr, env *Env) Value {
	name := "fun(" + joinValues(params) + ")"
	var curry func(frame *Env, rest []string) *Closure
	curry = func(frame *Env, rest []string) *Closure {
		return closure(name, func(x Value) (Value, error) {
			next := NewEnv(frame)
			next.Define(rest[0], x)
			if len(rest) == 1 {
				return m.eval(body, next)
			}
			return curry(next, rest[1:]), nil
		})
	}
	return curry(env, params)
}
