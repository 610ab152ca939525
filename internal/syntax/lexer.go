// lexer.go: whitespace-delimited tokenizer for definition lines.
//
// Every whitespace-separated chunk is matched verbatim against the keyword
// table; failing that, a chunk that parses as a signed decimal integer becomes
// an INTEGER token, and anything else becomes an opaque SYMBOL. Lexing never
// fails: malformed text is carried as a SYMBOL and rejected (if at all) by the
// parser.
package syntax

import (
	"strconv"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & references
	SYMBOL
	INTEGER

	// Application and definition
	AP
	EQUAL // "="

	// List punctuation
	LPAREN // "("
	COMMA  // ","
	RPAREN // ")"

	// Primitive keywords
	ADD
	B
	C
	CAR
	CDR
	CONS
	DIV
	EQ
	I
	ISNIL
	LT
	MUL
	NEG
	NIL
	S
	T
)

var tokenNames = map[TokenType]string{
	EOF: "EOF", SYMBOL: "SYMBOL", INTEGER: "INTEGER", AP: "ap", EQUAL: "=",
	LPAREN: "(", COMMA: ",", RPAREN: ")",
	ADD: "add", B: "b", C: "c", CAR: "car", CDR: "cdr", CONS: "cons", DIV: "div",
	EQ: "eq", I: "i", ISNIL: "isnil", LT: "lt", MUL: "mul", NEG: "neg", NIL: "nil",
	S: "s", T: "t",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text of the chunk
	Literal int64  // value of INTEGER tokens
	Col     int    // 0-based byte column of the first character
}

// keywords map
var keywords = map[string]TokenType{
	"add":   ADD,
	"ap":    AP,
	"b":     B,
	"c":     C,
	"car":   CAR,
	"cdr":   CDR,
	"cons":  CONS,
	"div":   DIV,
	"eq":    EQ,
	"i":     I,
	"isnil": ISNIL,
	"lt":    LT,
	"mul":   MUL,
	"neg":   NEG,
	"nil":   NIL,
	"s":     S,
	"t":     T,
	"=":     EQUAL,
	"(":     LPAREN,
	",":     COMMA,
	")":     RPAREN,
}

// primitive keyword → raw tree leaf
var primitives = map[TokenType]Op{
	ADD: OpAdd, B: OpB, C: OpC, CAR: OpCar, CDR: OpCdr, CONS: OpCons, DIV: OpDiv,
	EQ: OpEq, I: OpI, ISNIL: OpIsNil, LT: OpLt, MUL: OpMul, NEG: OpNeg, NIL: OpNil,
	S: OpS, T: OpT,
}

// Keywords returns every keyword spelling, for completion in interactive hosts.
func Keywords() []string {
	out := lo.Keys(keywords)
	slices.Sort(out)
	return out
}

// Lex splits src into tokens. The returned slice always ends with an EOF token
// whose column is len(src).
func Lex(src string) []Token {
	var toks []Token
	start := -1
	for i, r := range src {
		if unicode.IsSpace(r) {
			if start >= 0 {
				toks = append(toks, classify(src[start:i], start))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, classify(src[start:], start))
	}
	return append(toks, Token{Type: EOF, Col: len(src)})
}

func classify(chunk string, col int) Token {
	if tt, ok := keywords[chunk]; ok {
		return Token{Type: tt, Lexeme: chunk, Col: col}
	}
	if v, err := strconv.ParseInt(chunk, 10, 64); err == nil {
		return Token{Type: INTEGER, Lexeme: chunk, Literal: v, Col: col}
	}
	return Token{Type: SYMBOL, Lexeme: chunk, Col: col}
}
