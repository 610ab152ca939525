package interp

import (
	"errors"
	"strings"
	"testing"

	"github.com/daios-ai/decompiler/internal/expr"
	"github.com/daios-ai/decompiler/internal/syntax"
)

// --- helpers ---------------------------------------------------------------

func evalRaw(t *testing.T, m *Machine, src string) (Value, error) {
	t.Helper()
	n, err := syntax.ParseValue(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return m.EvalRaw(n)
}

func wantObserved(t *testing.T, m *Machine, label string, v Value, err error, want string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", label, err)
	}
	if got := m.Observe(v); got != want {
		t.Fatalf("%s: want %s, got %s", label, want, got)
	}
}

func wantRuntimeError(t *testing.T, label string, err error, substr string) {
	t.Helper()
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("%s: expected *RuntimeError, got %v", label, err)
	}
	if !strings.Contains(re.Msg, substr) {
		t.Fatalf("%s: expected message containing %q, got %q", label, substr, re.Msg)
	}
}

// --- raw trees -------------------------------------------------------------

func Test_Interp_Raw_Primitives(t *testing.T) {
	cases := []struct{ src, want string }{
		{"ap ap add 1 2", "3"},
		{"ap ap mul -3 4", "-12"},
		{"ap ap div -7 2", "-3"},
		{"ap ap eq 2 2", "true"},
		{"ap ap lt 3 2", "false"},
		{"ap neg 5", "-5"},
		{"ap ap ap s add i 5", "10"},
		{"ap ap ap c add 1 2", "3"},
		{"ap ap ap b neg neg 3", "3"},
		{"ap i 9", "9"},
		{"ap ap t 1 2", "1"},
		{"ap ap ap s t 1 2", "2"},
		{"ap s t", "false"},
		{"t", "true"},
		{"ap ap cons 1 ap ap cons 2 nil", "[1, 2]"},
		{"( 1 , ( ) , 3 )", "[1, [], 3]"},
		{"ap ap cons 1 2", "[1 | 2]"},
		{"ap car ap ap cons 1 2", "1"},
		{"ap cdr ( 1 , 2 )", "[2]"},
		{"ap isnil nil", "true"},
		{"ap isnil ( 1 )", "false"},
		{"ap nil 5", "true"},
		{"ap ap ap cons 1 2 add", "3"},
		{"cons", "<cons>"},
	}
	for _, tc := range cases {
		m := New()
		v, err := evalRaw(t, m, tc.src)
		wantObserved(t, m, tc.src, v, err, tc.want)
	}
}

func Test_Interp_Raw_Globals_And_Errors(t *testing.T) {
	m := New()
	_, err := evalRaw(t, m, "ap neg x")
	wantRuntimeError(t, "unbound", err, "unbound name x")

	m.Global.Define("x", Int(4))
	v, err := evalRaw(t, m, "ap neg x")
	wantObserved(t, m, "bound", v, err, "-4")

	_, err = evalRaw(t, m, "ap ap div 1 0")
	wantRuntimeError(t, "div zero", err, "division by zero")

	_, err = evalRaw(t, m, "ap 1 2")
	wantRuntimeError(t, "apply int", err, "cannot apply int")

	_, err = evalRaw(t, m, "ap ap add 1 nil")
	wantRuntimeError(t, "add nil", err, "expects integers")
}

func Test_Interp_Raw_Unselected_Branch_Is_Not_Forced(t *testing.T) {
	m := New()
	v, err := evalRaw(t, m, "ap ap t 1 ap ap div 1 0")
	wantObserved(t, m, "lazy", v, err, "1")
}

func Test_Interp_List_Elements_Are_Lazy_On_Both_Sides(t *testing.T) {
	m := New()
	m.Global.Define("xv", Int(5))
	v, err := evalRaw(t, m, "ap isnil ( ap ap ap xv cdr ap t i t )")
	wantObserved(t, m, "raw", v, err, "false")

	bad := expr.Call{Fun: expr.Symbol("xv"), Args: []expr.Expr{expr.Prim(syntax.OpCdr), expr.Bool(false), expr.Bool(true)}}
	v, err = m.EvalExpr(expr.IsNil{X: expr.List{bad}})
	wantObserved(t, m, "expr", v, err, "false")
}

func Test_Interp_Step_Limit(t *testing.T) {
	m := New()
	m.MaxSteps = 1000
	_, err := evalRaw(t, m, "ap ap ap s i i ap ap s i i")
	wantRuntimeError(t, "omega", err, "step limit")
}

// --- structured expressions ------------------------------------------------

func Test_Interp_Expr_Evaluation(t *testing.T) {
	a, b := expr.Symbol("a"), expr.Symbol("b")
	divZero := expr.Binary{Op: expr.OpDiv, L: expr.Int(1), R: expr.Int(0)}
	cases := []struct {
		label string
		in    expr.Expr
		want  string
	}{
		{"call", expr.Call{Fun: expr.Func{Params: []string{"a", "b"}, Body: expr.Binary{Op: expr.OpSub, L: a, R: b}},
			Args: []expr.Expr{expr.Int(10), expr.Int(3)}}, "7"},
		{"mod", expr.Binary{Op: expr.OpMod, L: expr.Int(-7), R: expr.Int(2)}, "-1"},
		{"not", expr.Not{X: expr.Bool(false)}, "true"},
		{"lazy if", expr.If{Cond: expr.Bool(true), Then: expr.Int(1), Else: divZero}, "1"},
		{"lazy or", expr.Binary{Op: expr.OpOr, L: expr.Bool(true), R: divZero}, "true"},
		{"lazy and", expr.Binary{Op: expr.OpAnd, L: expr.Bool(false), R: divZero}, "false"},
		{"lazy let", expr.Let{Var: "x", Value: divZero, Body: expr.Int(5)}, "5"},
		{"match cons", expr.MatchCons{Value: expr.List{expr.Int(1), expr.Int(2)}, Empty: expr.Int(0),
			Head: "h", Tail: "t", Body: expr.Symbol("t")}, "[2]"},
		{"match empty", expr.MatchCons{Value: expr.List{}, Empty: expr.Int(0),
			Head: "h", Tail: "t", Body: expr.Symbol("h")}, "0"},
		{"let cons", expr.LetCons{Head: "h", Tail: "t", Value: expr.List{expr.Int(8)}, Body: expr.Symbol("h")}, "8"},
		{"isnil", expr.IsNil{X: expr.List{}}, "true"},
		{"lazy list", expr.IsNil{X: expr.List{divZero}}, "false"},
		{"forced list", expr.List{expr.Int(1), expr.Neg{X: expr.Int(2)}}, "[1, -2]"},
		{"prim", expr.Call{Fun: expr.Prim(syntax.OpCons), Args: []expr.Expr{expr.Int(1), expr.List{}}}, "[1]"},
		{"neg", expr.Neg{X: expr.Int(3)}, "-3"},
	}
	for _, tc := range cases {
		m := New()
		v, err := m.EvalExpr(tc.in)
		wantObserved(t, m, tc.label, v, err, tc.want)
	}
}

func Test_Interp_Expr_Errors(t *testing.T) {
	m := New()
	_, err := m.EvalExpr(expr.If{Cond: expr.Int(1), Then: expr.Int(1), Else: expr.Int(2)})
	wantRuntimeError(t, "if int", err, "expected a boolean")

	_, err = m.EvalExpr(expr.Symbol("nowhere"))
	wantRuntimeError(t, "unbound", err, "unbound name nowhere")

	_, err = m.EvalExpr(expr.IsNil{X: expr.Int(1)})
	wantRuntimeError(t, "isnil int", err, "isnil expects a list")
}
