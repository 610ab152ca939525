package expr

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/daios-ai/decompiler/internal/names"
)

// Rename gives every name bound inside e (function parameters and the
// binders of let, let-cons and match) a fresh _x<N> in first-use order, and
// replaces dictionary references by their human names. Free references that
// the dictionary does not know are kept.
//
// The counter starts at zero on every call, and fresh names skip anything
// already taken by a free reference, so the mapping is injective and the
// output depends only on e and dict.
func Rename(e Expr, dict *names.Dictionary) Expr {
	r := &renamer{
		dict:    dict,
		bound:   map[string]bool{},
		fresh:   map[string]string{},
		reserve: map[string]bool{},
	}
	collectBinders(e, r.bound)
	Walk(e, func(n Expr) bool {
		if s, ok := n.(Symbol); ok && !r.bound[string(s)] {
			r.reserve[r.external(string(s))] = true
		}
		return true
	})
	return r.expr(e)
}

type renamer struct {
	dict    *names.Dictionary
	bound   map[string]bool
	fresh   map[string]string
	reserve map[string]bool
	next    int
}

func (r *renamer) name(orig string) string {
	if !r.bound[orig] {
		return r.external(orig)
	}
	if n, ok := r.fresh[orig]; ok {
		return n
	}
	for {
		n := "_x" + strconv.Itoa(r.next)
		r.next++
		if !r.reserve[n] {
			r.fresh[orig] = n
			return n
		}
	}
}

func (r *renamer) external(orig string) string {
	if n, ok := r.dict.Name(orig); ok {
		return n
	}
	return orig
}

func (r *renamer) all(xs []Expr) []Expr {
	return lo.Map(xs, func(x Expr, _ int) Expr { return r.expr(x) })
}

// Go evaluates composite literal fields in order, which fixes the traversal
// order below.
func (r *renamer) expr(e Expr) Expr {
	switch e := e.(type) {
	case Symbol:
		return Symbol(r.name(string(e)))
	case List:
		return List(r.all(e))
	case Neg:
		return Neg{X: r.expr(e.X)}
	case Not:
		return Not{X: r.expr(e.X)}
	case IsNil:
		return IsNil{X: r.expr(e.X)}
	case Binary:
		return Binary{Op: e.Op, L: r.expr(e.L), R: r.expr(e.R)}
	case If:
		return If{Cond: r.expr(e.Cond), Then: r.expr(e.Then), Else: r.expr(e.Else)}
	case MatchCons:
		return MatchCons{
			Value: r.expr(e.Value),
			Empty: r.expr(e.Empty),
			Head:  r.name(e.Head),
			Tail:  r.name(e.Tail),
			Body:  r.expr(e.Body),
		}
	case LetCons:
		return LetCons{
			Head:  r.name(e.Head),
			Tail:  r.name(e.Tail),
			Value: r.expr(e.Value),
			Body:  r.expr(e.Body),
		}
	case Let:
		return Let{Var: r.name(e.Var), Value: r.expr(e.Value), Body: r.expr(e.Body)}
	case Call:
		return Call{Fun: r.expr(e.Fun), Args: r.all(e.Args)}
	case Func:
		params := lo.Map(e.Params, func(p string, _ int) string { return r.name(p) })
		return Func{Params: params, Body: r.expr(e.Body)}
	}
	return e
}

func collectBinders(e Expr, into map[string]bool) {
	Walk(e, func(n Expr) bool {
		switch n := n.(type) {
		case Func:
			for _, p := range n.Params {
				into[p] = true
			}
		case Let:
			into[n.Var] = true
		case LetCons:
			into[n.Head], into[n.Tail] = true, true
		case MatchCons:
			into[n.Head], into[n.Tail] = true, true
		}
		return true
	})
}
