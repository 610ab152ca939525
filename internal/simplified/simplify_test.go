package simplified

import (
	"testing"

	"github.com/daios-ai/decompiler/internal/lambda"
	"github.com/daios-ai/decompiler/internal/syntax"
)

func mustSimplify(t *testing.T, src string) Term {
	t.Helper()
	n, err := syntax.ParseValue(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return Simplify(lambda.Eval(lambda.Lambdify(n)))
}

func wantTerm(t *testing.T, label string, got, want Term) {
	t.Helper()
	if !Equal(got, want) {
		t.Fatalf("%s:\nwant %v\ngot  %v", label, want, got)
	}
}

func Test_Simplify_False_Shapes(t *testing.T) {
	wantTerm(t, "ap s t", mustSimplify(t, "ap s t"), False{})
	wantTerm(t, "ap t i", mustSimplify(t, "ap t i"), False{})
	wantTerm(t, "t", mustSimplify(t, "t"), Prim(syntax.OpT))

	// Same outer shape, wrong variable layout.
	notFalse := lambda.Func{Param: "x", Body: lambda.Func{Param: "y", Body: lambda.Apply{
		Fun: lambda.Apply{Fun: lambda.Prim(syntax.OpT), Arg: lambda.Symbol("x")},
		Arg: lambda.Apply{Fun: lambda.Symbol("x"), Arg: lambda.Symbol("y")},
	}}}
	if _, ok := Simplify(notFalse).(False); ok {
		t.Fatalf("λx.λy.(t x)(x y) is not false")
	}
}

func Test_Simplify_Lists(t *testing.T) {
	wantTerm(t, "nil", mustSimplify(t, "nil"), List{})
	wantTerm(t, "onetwo", mustSimplify(t, "ap ap cons 1 ap ap cons 2 nil"), List{Int(1), Int(2)})
	wantTerm(t, "literal syntax", mustSimplify(t, "( x , ( ) , ap neg 3 )"),
		List{Symbol("x"), List{}, Apply{Fun: Prim(syntax.OpNeg), Arg: Int(3)}})

	// An improper tail stays an application.
	got := mustSimplify(t, "ap ap cons 1 y")
	want := Apply{Fun: Apply{Fun: Prim(syntax.OpCons), Arg: Int(1)}, Arg: Symbol("y")}
	wantTerm(t, "cons onto symbol", got, want)
}

func Test_Simplify_Recurses_Under_Functions(t *testing.T) {
	got := mustSimplify(t, "ap ap b ap cons 0 ap cons 1")
	// λx2. cons 0 (cons 1 x2): the tail is a parameter, so nothing folds.
	want := Func{Param: "x2", Body: Apply{
		Fun: Apply{Fun: Prim(syntax.OpCons), Arg: Int(0)},
		Arg: Apply{Fun: Apply{Fun: Prim(syntax.OpCons), Arg: Int(1)}, Arg: Symbol("x2")},
	}}
	wantTerm(t, "b cons", got, want)
}

func Test_Simplify_String(t *testing.T) {
	got := mustSimplify(t, "ap ap cons ap s t ap ap cons t nil").String()
	if got != "[f, t]" {
		t.Fatalf("want [f, t], got %s", got)
	}
}
