package interp

import (
	"github.com/samber/lo"
)

// Observe renders v for comparison and display, forcing what it needs.
// Functions that behave as booleans print as true or false; other functions
// print as <name>. Proper lists print as [a, b]; an improper tail follows a
// bar, as in [a | t]. A failure while forcing prints as <error: ...>.
func (m *Machine) Observe(v Value) string {
	v, err := force(v)
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	switch v := v.(type) {
	case Int:
		return formatInt(v)
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Nil:
		return "[]"
	case *Cons:
		var items []Value
		var rest Value = v
		for {
			if rest, err = force(rest); err != nil {
				return "<error: " + err.Error() + ">"
			}
			c, ok := rest.(*Cons)
			if !ok {
				break
			}
			items = append(items, c.Head)
			rest = c.Tail
		}
		body := joinValues(lo.Map(items, func(x Value, _ int) string { return m.Observe(x) }))
		if _, ok := rest.(Nil); ok {
			return "[" + body + "]"
		}
		return "[" + body + " | " + m.Observe(rest) + "]"
	case *Closure:
		saved := m.steps
		b, err := m.Truth(v)
		m.steps = saved
		if err == nil {
			return m.Observe(Bool(b))
		}
		return "<" + v.Name + ">"
	}
	return "<probe>"
}
