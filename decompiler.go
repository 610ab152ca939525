// Package decompiler turns galaxy combinator definitions back into readable
// functional pseudo-code.
//
// One definition flows through a fixed pipeline:
//
//	parse → lambdify → evaluate → structural simplify →
//	construct idioms → algebraic simplify → rename → print
//
// Only the parser can fail. Every later stage is total, so a definition that
// parses always produces output.
//
// Typical use:
//
//	d := decompiler.New(names.Default())
//	res, err := d.Line(":1029 = ap ap cons 7 ap ap cons 123229502148636 nil")
//	fmt.Println(res) // Bitmap.Galaxy = [7, 123229502148636]
//
// A Decompiler only reads its dictionary, so one value may be shared across
// goroutines as long as no trace logger is attached.
package decompiler

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/daios-ai/decompiler/internal/expr"
	"github.com/daios-ai/decompiler/internal/lambda"
	"github.com/daios-ai/decompiler/internal/names"
	"github.com/daios-ai/decompiler/internal/simplified"
	"github.com/daios-ai/decompiler/internal/syntax"
)

// Version is the release of the decompiler.
const Version = "0.3.0"

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Decompiler runs the pipeline against one name/type dictionary.
type Decompiler struct {
	dict    *names.Dictionary
	trace   *log.Logger
	srcName string
}

// Option configures a Decompiler.
type Option func(*Decompiler)

// WithTrace dumps every intermediate tree of every definition to l.
func WithTrace(l *log.Logger) Option {
	return func(d *Decompiler) { d.trace = l }
}

// WithSourceName names the input (usually a file path) in error snippets.
func WithSourceName(name string) Option {
	return func(d *Decompiler) { d.srcName = name }
}

// New returns a Decompiler over dict. A nil dict behaves as an empty one.
func New(dict *names.Dictionary, opts ...Option) *Decompiler {
	d := &Decompiler{dict: dict}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dictionary returns the dictionary the Decompiler resolves names with.
func (d *Decompiler) Dictionary() *names.Dictionary { return d.dict }

// Result holds every stage of one decompiled definition.
type Result struct {
	Definition  syntax.Definition // parsed line
	Name        string            // definition name resolved through the dictionary
	Lambdified  lambda.Term
	Evaluated   lambda.Term
	Simplified  simplified.Term
	Constructed expr.Expr // idioms recovered
	Algebraic   expr.Expr // after algebraic simplification
	Renamed     expr.Expr // final form
}

// String renders the output line `<name> = <expr>`.
func (r *Result) String() string {
	return r.Name + " = " + r.Renamed.String()
}

// Line decompiles one `<name> = <expression>` line. The only errors are
// *syntax.ParseError values.
func (d *Decompiler) Line(src string) (*Result, error) {
	def, err := syntax.ParseLine(src)
	if err != nil {
		return nil, err
	}
	return d.Definition(def), nil
}

// Definition decompiles an already parsed definition.
func (d *Decompiler) Definition(def syntax.Definition) *Result {
	r := &Result{Definition: def, Name: def.Name}
	if n, ok := d.dict.Name(def.Name); ok {
		r.Name = n
	}
	d.tracef("Parsed: %s", def)
	r.Lambdified = lambda.Lambdify(def.Value)
	d.tracef("Lambdified: %s", r.Lambdified)
	r.Evaluated = lambda.Eval(r.Lambdified)
	d.tracef("Evaluated: %s", r.Evaluated)
	r.Simplified = simplified.Simplify(r.Evaluated)
	d.tracef("Simplified: %s", r.Simplified)
	r.Constructed = expr.Construct(r.Simplified, d.dict)
	d.tracef("Expr1 = %s", r.Constructed)
	r.Algebraic = expr.Simplify(r.Constructed)
	d.tracef("Expr2 = %s", r.Algebraic)
	r.Renamed = expr.Rename(r.Algebraic, d.dict)

	if DebuggingMode {
		var report strings.Builder
		if err := d.VerifyResult(r, &report); err != nil {
			d.logf("%s%v", report.String(), err)
		}
	}
	return r
}

// Run decompiles every non-blank line of r and writes one output line per
// definition to w. It stops at the first line that fails to parse and returns
// the error with a caret snippet of the whole input.
func (d *Decompiler) Run(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	src := string(data)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, err := d.Line(line)
		if err != nil {
			if pe, ok := err.(*syntax.ParseError); ok {
				pe.Line = i + 1
			}
			return WrapErrorWithName(err, d.srcName, src)
		}
		if _, err := fmt.Fprintln(out, res); err != nil {
			return err
		}
	}
	return nil
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

func (d *Decompiler) tracef(format string, args ...any) {
	if d.trace != nil {
		d.trace.Printf(format, args...)
	}
}

// logf reports through the trace logger, or the standard logger if none is set.
func (d *Decompiler) logf(format string, args ...any) {
	if d.trace != nil {
		d.trace.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
