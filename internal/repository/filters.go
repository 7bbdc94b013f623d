package repository

import (
	"strconv"
	"strings"
)

// UnitFilter narrows inventory queries. Zero values mean "no filter".
type UnitFilter struct {
	Status           string
	Property         string
	NeedsPricingOnly bool
}

// conditions builds the predicate set for the filter. Every inventory query
// is restricted to rows with complete data; partially loaded snapshot rows
// are never reported.
func (f UnitFilter) conditions() *condSet {
	cs := &condSet{}
	cs.add("has_complete_data = TRUE")
	if f.Status != "" {
		cs.add("status = ?", f.Status)
	}
	if f.Property != "" {
		cs.add("property = ?", f.Property)
	}
	if f.NeedsPricingOnly {
		cs.add("needs_pricing = TRUE")
	}
	return cs
}

// condSet accumulates WHERE predicates and their arguments. Predicates use
// ? placeholders which are renumbered to positional $n parameters when the
// clause is rendered, so fragments compose without tracking absolute
// positions.
type condSet struct {
	conds []string
	args  []any
}

func (cs *condSet) add(expr string, args ...any) {
	cs.conds = append(cs.conds, expr)
	cs.args = append(cs.args, args...)
}

// where renders the accumulated predicates as a WHERE clause, or returns an
// empty string when there are none.
func (cs *condSet) where() string {
	if len(cs.conds) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("WHERE ")
	n := 0
	for i, cond := range cs.conds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		for _, r := range cond {
			if r == '?' {
				n++
				b.WriteString("$" + strconv.Itoa(n))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// next returns the positional parameter index following the accumulated
// arguments, for callers appending LIMIT or OFFSET parameters.
func (cs *condSet) next() int {
	return len(cs.args) + 1
}
