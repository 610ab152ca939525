package main

import (
	"strings"
	"testing"

	"github.com/daios-ai/decompiler/internal/names"
)

func mustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", sub, s)
	}
}

func Test_Repl_Line_Definition_And_Bare_Value(t *testing.T) {
	s := newSession(names.Default(), false)

	out, err := s.line("f  =  ap ap   b neg i")
	if err != nil {
		t.Fatalf("line: %v", err)
	}
	if out != "f = fun(_x0) -> -_x0" {
		t.Fatalf("definition: got %q", out)
	}

	out, err = s.line("ap ap cons 1\nnil")
	if err != nil {
		t.Fatalf("line: %v", err)
	}
	if out != "it = [1]" {
		t.Fatalf("bare value: got %q", out)
	}
}

func Test_Repl_Line_Caret_Points_Into_Parsed_Text(t *testing.T) {
	s := newSession(names.Default(), false)
	_, err := s.line("x   =   ap    neg")
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
	msg := err.Error()
	mustContain(t, msg, "PARSE ERROR at 1:11: unexpected end of input")
	mustContain(t, msg, "   1 | x = ap neg\n")
	mustContain(t, msg, "     | "+strings.Repeat(" ", 10)+"^")
}

func Test_Repl_IsDefinition(t *testing.T) {
	if !isDefinition(":1 = 2") || isDefinition("ap neg 1") {
		t.Fatalf("isDefinition misclassified input")
	}
}
