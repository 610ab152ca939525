package lambda

// Eval shrinks a lambdified term without normalizing it. Two passes run in
// sequence:
//
//  1. Linear inlining. Occurrences of every name are counted over the whole
//     term. A redex (λp.body) arg is reduced only when p occurs exactly once;
//     the reduced argument is then placed at that single use site.
//  2. Atom relabelling. Under every function body, a redex whose argument is a
//     bare Symbol or Int is reduced regardless of occurrence count, and
//     reference-to-reference aliases are followed to their end.
//
// One round of both passes can expose new redexes (an inlined function landing
// in head position), so rounds repeat until the term stops changing. A round
// that changes the term removes at least one redex and never grows it.
//
// Neither pass duplicates a non-atomic subterm. A term with no reducible shape
// comes back unchanged.
func Eval(t Term) Term {
	for {
		next := round(t)
		if next == t {
			return t
		}
		t = next
	}
}

func round(t Term) Term {
	counts := map[string]int{}
	countSymbols(t, counts)
	inl := &inliner{env: map[string]Term{}, counts: counts}
	substituted := inl.substitute(t)
	rel := &relabeler{env: map[string]Term{}}
	return rel.relabel(substituted)
}

func countSymbols(t Term, counts map[string]int) {
	switch t := t.(type) {
	case Func:
		countSymbols(t.Body, counts)
	case Apply:
		countSymbols(t.Fun, counts)
		countSymbols(t.Arg, counts)
	case Symbol:
		counts[string(t)]++
	}
}

// ---- pass 1 ----

type inliner struct {
	env    map[string]Term
	counts map[string]int
}

func (in *inliner) substitute(t Term) Term {
	switch t := t.(type) {
	case Func:
		return Func{Param: t.Param, Body: in.substitute(t.Body)}
	case Apply:
		fun := in.substitute(t.Fun)
		arg := in.substitute(t.Arg)
		if f, ok := fun.(Func); ok && in.counts[f.Param] == 1 {
			in.env[f.Param] = arg
			reduced := in.substitute(f.Body)
			delete(in.env, f.Param)
			return reduced
		}
		return Apply{Fun: fun, Arg: arg}
	case Symbol:
		// Bindings are consumed: the name is used exactly once.
		if v, ok := in.env[string(t)]; ok {
			delete(in.env, string(t))
			return v
		}
		return t
	}
	return t
}

// ---- pass 2 ----

type relabeler struct {
	env map[string]Term // values are always Symbol or Int
}

func (r *relabeler) relabel(t Term) Term {
	switch t := t.(type) {
	case Func:
		return Func{Param: t.Param, Body: r.relabel(t.Body)}
	case Apply:
		fun := r.relabel(t.Fun)
		arg := r.relabel(t.Arg)
		if f, ok := fun.(Func); ok && isAtom(arg) {
			prev, shadowed := r.env[f.Param]
			r.env[f.Param] = arg
			reduced := r.relabel(f.Body)
			if shadowed {
				r.env[f.Param] = prev
			} else {
				delete(r.env, f.Param)
			}
			return reduced
		}
		return Apply{Fun: fun, Arg: arg}
	case Symbol:
		return r.resolve(t)
	}
	return t
}

// resolve follows alias chains until a non-reference or an unbound name.
func (r *relabeler) resolve(s Symbol) Term {
	var cur Term = s
	for {
		sym, ok := cur.(Symbol)
		if !ok {
			return cur
		}
		v, ok := r.env[string(sym)]
		if !ok || v == cur {
			return cur
		}
		cur = v
	}
}

func isAtom(t Term) bool {
	switch t.(type) {
	case Symbol, Int:
		return true
	}
	return false
}
