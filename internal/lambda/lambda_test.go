package lambda

import (
	"testing"

	"github.com/daios-ai/decompiler/internal/syntax"
)

func mustLambdify(t *testing.T, src string) Term {
	t.Helper()
	n, err := syntax.ParseValue(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return Lambdify(n)
}

func wantTerm(t *testing.T, label string, got, want Term) {
	t.Helper()
	if got != want {
		t.Fatalf("%s:\nwant %v\ngot  %v", label, want, got)
	}
}

func ap(f, x Term) Term { return Apply{Fun: f, Arg: x} }

func Test_Lambdify_Combinator_Shapes(t *testing.T) {
	cases := []struct{ src, want string }{
		{"i", `{\x0.x0}`},
		{"b", `{\x0.{\x1.{\x2.(x0 (x1 x2))}}}`},
		{"c", `{\x0.{\x1.{\x2.((x0 x2) x1)}}}`},
		{"s", `{\x0.{\x1.{\x2.((x0 x2) (x1 x2))}}}`},
		{"ap ap b neg i", `(({\x0.{\x1.{\x2.(x0 (x1 x2))}}} ~-) {\x3.x3})`},
		{"ap ap cons 1 nil", `((cons 1) nil)`},
		{"ap ap eq ap car x ap ap lt 1 t", `((== (car x)) ((< 1) t))`},
	}
	for _, tc := range cases {
		got := mustLambdify(t, tc.src).String()
		if got != tc.want {
			t.Fatalf("source %q:\nwant %s\ngot  %s", tc.src, tc.want, got)
		}
	}
}

func Test_Lambdify_Fresh_Names_Avoid_Free_Symbols(t *testing.T) {
	got := mustLambdify(t, "ap i x0")
	wantTerm(t, "ap i x0", got, ap(Func{Param: "x1", Body: Symbol("x1")}, Symbol("x0")))
}

func Test_Lambdify_Numbering_Restarts_Per_Call(t *testing.T) {
	a := mustLambdify(t, "ap i i")
	b := mustLambdify(t, "ap i i")
	wantTerm(t, "second run", b, a)
}

func Test_Eval_Combinator_Laws(t *testing.T) {
	f, g, x := Symbol("f"), Symbol("g"), Symbol("x")
	cases := []struct {
		src  string
		want Term
	}{
		{"ap i x", x},
		{"ap ap ap b f g x", ap(f, ap(g, x))},
		{"ap ap ap c f g x", ap(ap(f, x), g)},
		{"ap ap ap s f g x", ap(ap(f, x), ap(g, x))},
	}
	for _, tc := range cases {
		got := Eval(mustLambdify(t, tc.src))
		wantTerm(t, tc.src, got, tc.want)
	}
}

func Test_Eval_Negate_And_IsZero(t *testing.T) {
	neg := Eval(mustLambdify(t, "ap ap b neg i"))
	wantTerm(t, "negate", neg, Func{Param: "x2", Body: ap(Prim(syntax.OpNeg), Symbol("x2"))})

	isZero := Eval(mustLambdify(t, "ap ap c eq 0"))
	wantTerm(t, "isZero", isZero, Func{Param: "x2", Body: ap(ap(Prim(syntax.OpEq), Symbol("x2")), Int(0))})
}

func Test_Eval_Does_Not_Duplicate_Work(t *testing.T) {
	selfApply := Func{Param: "x2", Body: ap(Symbol("x2"), Symbol("x2"))}
	wantTerm(t, "s i i", Eval(mustLambdify(t, "ap ap s i i")), selfApply)

	// x2 occurs twice: a computed argument stays an explicit redex.
	got := Eval(mustLambdify(t, "ap ap ap s i i ap neg 1"))
	wantTerm(t, "s i i (neg 1)", got, ap(selfApply, ap(Prim(syntax.OpNeg), Int(1))))

	// An atomic argument is substituted by the second pass.
	got = Eval(mustLambdify(t, "ap ap ap s i i 5"))
	wantTerm(t, "s i i 5", got, ap(Int(5), Int(5)))
}

func Test_Eval_Relabels_Under_Functions(t *testing.T) {
	// λq. ((λp. p p) q) q applied to z: nothing is linear, everything is atomic.
	inner := Func{Param: "p", Body: ap(Symbol("p"), Symbol("p"))}
	term := ap(Func{Param: "q", Body: ap(ap(inner, Symbol("q")), Symbol("q"))}, Symbol("z"))
	want := ap(ap(Symbol("z"), Symbol("z")), Symbol("z"))
	wantTerm(t, "relabel", Eval(term), want)

	// Under an unapplied function the body is still relabelled.
	open := Func{Param: "q", Body: ap(inner, Symbol("q"))}
	wantTerm(t, "open", Eval(open), Func{Param: "q", Body: ap(Symbol("q"), Symbol("q"))})
}

func Test_Eval_Leaves_Irreducible_Terms_Unchanged(t *testing.T) {
	for _, src := range []string{"ap ap add 1 2", ":1029", "ap ap cons 1 nil", "t"} {
		term := mustLambdify(t, src)
		wantTerm(t, src, Eval(term), term)
	}
}

func Test_Eval_Is_Idempotent(t *testing.T) {
	srcs := []string{
		"ap ap b neg i",
		"ap ap c eq 0",
		"ap s t",
		"ap ap s i i",
		"ap ap ap s i i ap neg 1",
		"ap ap s ap ap c eq 0 ap ap b ap add 1 neg",
		"ap ap s ap ap s c ap neg i ap ap s ap ap s c i i",
	}
	for _, src := range srcs {
		once := Eval(mustLambdify(t, src))
		wantTerm(t, src, Eval(once), once)
	}
}

func Test_Eval_Repeats_Until_Stable(t *testing.T) {
	// The first round inlines a function into head position; a second round
	// is needed to reduce it.
	src := "ap ap s ap ap s c ap neg i ap ap s ap ap s c i i"
	got := Eval(mustLambdify(t, src)).String()
	want := `{\x2.((x2 ((x2 x2) x2)) ((~- {\x9.x9}) x2))}`
	if got != want {
		t.Fatalf("source %q:\nwant %s\ngot  %s", src, want, got)
	}
}
