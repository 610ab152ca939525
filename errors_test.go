package decompiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/daios-ai/decompiler/internal/interp"
	"github.com/daios-ai/decompiler/internal/names"
	"github.com/daios-ai/decompiler/internal/syntax"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func mustNotContain(t *testing.T, s, sub string) {
	t.Helper()
	if strings.Contains(s, sub) {
		t.Fatalf("expected output not to contain %q\n--- output ---\n%s", sub, s)
	}
}

func Test_ErrorWrap_Parse_ShowsCaretAndContext(t *testing.T) {
	src := ":1030 = ap ap cons 1 nil\n:1031 = ap = 1\n:1032 = ap neg 2\n"

	err := New(names.Default()).Run(strings.NewReader(src), &strings.Builder{})
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := err.Error()

	// Header
	mustContain(t, msg, "PARSE ERROR at 2:12: unexpected token '='")
	// Context lines
	mustContain(t, msg, "   1 | :1030 = ap ap cons 1 nil")
	mustContain(t, msg, "   2 | :1031 = ap = 1")
	mustContain(t, msg, "   3 | :1032 = ap neg 2")
	// Caret under the '='
	mustContain(t, msg, "\n     | "+strings.Repeat(" ", 11)+"^\n")
}

func Test_ErrorWrap_Parse_FirstLineHasNoPrevious(t *testing.T) {
	src := "x = ap neg"
	_, perr := syntax.ParseLine(src)
	if perr == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := WrapErrorWithSource(perr, src).Error()
	mustContain(t, msg, "PARSE ERROR at 1:11: unexpected end of input")
	mustContain(t, msg, "   1 | x = ap neg")
	mustNotContain(t, msg, "   0 |")
	mustContain(t, msg, "     | "+strings.Repeat(" ", 10)+"^")
}

func Test_ErrorWrap_Incomplete_Header(t *testing.T) {
	src := "x = ap neg"
	_, perr := syntax.ParseLineInteractive(src)
	if !syntax.IsIncomplete(perr) {
		t.Fatalf("expected incomplete input, got %v", perr)
	}
	msg := WrapErrorWithSource(perr, src).Error()
	mustContain(t, msg, "INCOMPLETE INPUT at 1:11:")
}

func Test_ErrorWrap_Named_Source(t *testing.T) {
	src := ":1 = )"
	_, perr := syntax.ParseLine(src)
	if perr == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := WrapErrorWithName(perr, "galaxy.txt", src).Error()
	mustContain(t, msg, "PARSE ERROR in galaxy.txt at 1:6:")
}

func Test_ErrorWrap_Column_Is_Clamped(t *testing.T) {
	msg := WrapErrorWithSource(&syntax.ParseError{Line: 9, Col: 99, Msg: "boom"}, "abc").Error()
	mustContain(t, msg, "PARSE ERROR at 1:4: boom")
	mustContain(t, msg, "     |    ^")
}

func Test_ErrorWrap_Runtime_And_Foreign_Errors(t *testing.T) {
	rt := &interp.RuntimeError{Msg: "division by zero"}
	if got := WrapErrorWithName(rt, "probe", "").Error(); got != "RUNTIME ERROR in probe: division by zero" {
		t.Fatalf("named runtime error: got %q", got)
	}
	if got := WrapErrorWithSource(rt, ""); got != error(rt) {
		t.Fatalf("unnamed runtime error should pass through, got %v", got)
	}
	plain := errors.New("disk on fire")
	if got := WrapErrorWithSource(plain, "x = 1"); got != plain {
		t.Fatalf("foreign error should pass through, got %v", got)
	}
}
