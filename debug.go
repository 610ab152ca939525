// debug.go: debugging-only pipeline verification
//
// WHAT THIS MODULE DOES
// =====================
//   • A single public toggle, `DebuggingMode`, picked up at process start from
//     the `DECOMPILE_DEBUG` environment variable. Hosts and tests may also set
//     it programmatically.
//
//   • A public verifier, `VerifyResult`, that re-runs the idempotent stages on
//     a finished Result and checks they are fixed points:
//       - the evaluator on its own output,
//       - the algebraic simplifier on its own output,
//       - the renamer, twice, on the same input.
//     `(*Decompiler).Line` calls it on every definition when DebuggingMode is
//     set and reports violations through the trace logger.
//
// Concurrency: the verifier is read-only over its input and keeps no state.
package decompiler

import (
	"fmt"
	"io"

	"github.com/xyproto/env/v2"

	"github.com/daios-ai/decompiler/internal/expr"
	"github.com/daios-ai/decompiler/internal/lambda"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// DebuggingMode enables per-definition invariant checks. It is initialized
// from `DECOMPILE_DEBUG` at process start.
var DebuggingMode = env.Bool("DECOMPILE_DEBUG")

// VerifyResult returns an error naming every stage of r that is not a fixed
// point of itself. If w is non-nil a one-line report per check is written.
func (d *Decompiler) VerifyResult(r *Result, w io.Writer) error {
	if w == nil {
		w = io.Discard
	}
	var failed []string
	check := func(stage string, ok bool) {
		status := "ok"
		if !ok {
			status = "FAILED"
			failed = append(failed, stage)
		}
		fmt.Fprintf(w, "[verify] %s %s: %s\n", r.Definition.Name, stage, status)
	}

	check("evaluator idempotent", lambda.Eval(r.Evaluated) == r.Evaluated)
	check("simplifier idempotent", expr.Equal(expr.Simplify(r.Algebraic), r.Algebraic))
	once := expr.Rename(r.Algebraic, d.dict).String()
	check("renamer deterministic", once == expr.Rename(r.Algebraic, d.dict).String() && once == r.Renamed.String())

	if len(failed) > 0 {
		return fmt.Errorf("%s: invariant violated: %v", r.Definition.Name, failed)
	}
	return nil
}

//// END_OF_PUBLIC
