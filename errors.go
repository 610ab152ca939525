// errors.go: user-facing error wrapping and caret-snippet rendering
//
// What this file does
// -------------------
// This module turns parser diagnostics into readable snippets with a caret
// pointing at the offending column. The primary entry point is
// `WrapErrorWithSource`, which recognizes `*syntax.ParseError` and
// `*syntax.IncompleteError`, formats them, and returns a new `error` that
// contains a multi-line snippet:
//
//	PARSE ERROR at 3:12: unexpected token ')'
//
//	   2 | :1030 = ap ap cons 1 nil
//	   3 | :1031 = ap ) 1
//	     |            ^
//	   4 | :1032 = ap neg 2
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column.
//
// Dependencies (other packages)
// -----------------------------
//   - internal/syntax: defines `*ParseError { Line, Col, Msg }` and
//     `*IncompleteError`. Line is 1-based and Col is a 0-based byte column.
//   - internal/interp: defines `*RuntimeError { Msg }`. Runtime errors carry
//     no position and get a header only.
//
// Behavior guarantees
// -------------------
//   - Recognized errors are found with errors.As, so wrapped errors work.
//   - If `err` is anything else, it is returned unchanged.
//   - Line/column are clamped to the source so the caret can always be
//     rendered. Empty/short source strings are handled.
package decompiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daios-ai/decompiler/internal/interp"
	"github.com/daios-ai/decompiler/internal/syntax"
)

/* ===========================
   PUBLIC API
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated snippet
// of the provided source. It recognizes parse errors and leaves other errors
// untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (usually a file
// path) shown in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	var pe *syntax.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, pe.Line, pe.Col+1, pe.Msg))
	}
	var ie *syntax.IncompleteError
	if errors.As(err, &ie) {
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "INCOMPLETE INPUT", srcName, ie.Line, ie.Col+1, ie.Msg))
	}
	var re *interp.RuntimeError
	if errors.As(err, &re) && srcName != "" {
		return fmt.Errorf("RUNTIME ERROR in %s: %s", srcName, re.Msg)
	}
	return err
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: rendering
   =========================== */

// prettyErrorStringLabeled builds a snippet with a header and a caret.
// It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := strings.TrimRight(lines[line-1], "\r")
	if col > len(lineTxt)+1 {
		col = len(lineTxt) + 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, strings.TrimRight(lines[line-2], "\r"))
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) && lines[line] != "" {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, strings.TrimRight(lines[line], "\r"))
	}
	return b.String()
}
