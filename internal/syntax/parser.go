// parser.go: recursive-descent parser for definition lines.
//
// Grammar (one token of lookahead, no backtracking):
//
//	definition := SYMBOL "=" value EOF
//	value      := "ap" value value
//	            | "(" [ value { "," value } ] ")"
//	            | SYMBOL | INTEGER | primitive
//
// `( e1 , e2 , ... )` is desugared right-to-left into `cons e1 (cons e2 ... nil)`.
// Runs of consecutive `ap` tokens are folded iteratively so that deeply
// left-nested call chains do not consume one stack frame per argument.
//
// Errors are fail-fast. In interactive mode, running out of input in the middle
// of a value yields *IncompleteError so a REPL can ask for another line.
package syntax

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// ParseError is a fatal parse diagnostic. Line is 1-based, Col is the 0-based
// byte column within the line.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IncompleteError reports that input ended in the middle of a value. It is only
// produced by the interactive entry points.
type IncompleteError struct {
	Line int
	Col  int
	Msg  string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("INCOMPLETE INPUT at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err (or anything it wraps) is an *IncompleteError.
func IsIncomplete(err error) bool {
	var ie *IncompleteError
	return errors.As(err, &ie)
}

// ParseLine parses one `<name> = <value>` definition.
func ParseLine(src string) (Definition, error) {
	p := &parser{toks: Lex(src)}
	return p.definition()
}

// ParseLineInteractive parses like ParseLine but reports *IncompleteError when
// the input ends mid-value.
func ParseLineInteractive(src string) (Definition, error) {
	p := &parser{toks: Lex(src), interactive: true}
	return p.definition()
}

// ParseValue parses a bare value with no `<name> =` prefix.
func ParseValue(src string) (Node, error) {
	p := &parser{toks: Lex(src)}
	return p.complete()
}

// ParseValueInteractive is the interactive variant of ParseValue.
func ParseValueInteractive(src string) (Node, error) {
	p := &parser{toks: Lex(src), interactive: true}
	return p.complete()
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) errAt(t Token, msg string) error {
	if t.Type == EOF && p.interactive {
		return &IncompleteError{Line: 1, Col: t.Col, Msg: msg}
	}
	return &ParseError{Line: 1, Col: t.Col, Msg: msg}
}

func (p *parser) definition() (Definition, error) {
	name := p.next()
	if name.Type != SYMBOL {
		return Definition{}, &ParseError{Line: 1, Col: name.Col, Msg: fmt.Sprintf("expected definition name, got '%s'", name.Type)}
	}
	if t := p.next(); t.Type != EQUAL {
		return Definition{}, p.errAt(t, "expected '=' after definition name")
	}
	v, err := p.complete()
	if err != nil {
		return Definition{}, err
	}
	return Definition{Name: name.Lexeme, Value: v}, nil
}

// complete parses one value and requires the input to end right after it.
func (p *parser) complete() (Node, error) {
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != EOF {
		return nil, &ParseError{Line: 1, Col: t.Col, Msg: fmt.Sprintf("unexpected trailing token '%s'", t.Lexeme)}
	}
	return v, nil
}

func (p *parser) value() (Node, error) {
	t := p.next()
	switch t.Type {
	case AP:
		n := 1
		for p.peek().Type == AP {
			p.i++
			n++
		}
		fun, err := p.value()
		if err != nil {
			return nil, err
		}
		for ; n > 0; n-- {
			arg, err := p.value()
			if err != nil {
				return nil, err
			}
			fun = Apply{Fun: fun, Arg: arg}
		}
		return fun, nil
	case LPAREN:
		return p.list()
	case SYMBOL:
		return Symbol(t.Lexeme), nil
	case INTEGER:
		return Int(t.Literal), nil
	case EOF:
		return nil, p.errAt(t, "unexpected end of input")
	}
	if op, ok := primitives[t.Type]; ok {
		return op, nil
	}
	return nil, p.errAt(t, fmt.Sprintf("unexpected token '%s'", t.Lexeme))
}

// list parses the elements after '(' and desugars them into cons cells.
func (p *parser) list() (Node, error) {
	if p.peek().Type == RPAREN {
		p.i++
		return OpNil, nil
	}
	var elems []Node
	for {
		e, err := p.value()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		t := p.next()
		switch t.Type {
		case COMMA:
			continue
		case RPAREN:
			return lo.ReduceRight(elems, func(tail Node, head Node, _ int) Node {
				return Apply{Fun: Apply{Fun: OpCons, Arg: head}, Arg: tail}
			}, Node(OpNil)), nil
		case EOF:
			return nil, p.errAt(t, "list was not terminated with ')'")
		default:
			return nil, p.errAt(t, fmt.Sprintf("expected ',' or ')' in list, got '%s'", t.Lexeme))
		}
	}
}
