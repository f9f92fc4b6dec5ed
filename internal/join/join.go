// Package join implements the generic-join evaluator of spec.md §4.6: a
// worst-case-optimal conjunctive-query evaluator that binds one variable at
// a time, intersecting every atom's projection onto that variable.
package join

import (
	"sort"

	"eggo/internal/egraph"
	"eggo/internal/errors"
	"eggo/internal/query"
	"eggo/internal/value"
)

// Callback receives one matching substitution per call, indexed by variable
// index (spec.md §4.6: "The callback receives values indexed by variable
// index"). Results are unordered; duplicates are not removed.
type Callback func(values []value.Value)

// Run evaluates q against e, invoking cb once per matching tuple.
func Run(e *egraph.EGraph, q *query.Query, cb Callback) error {
	tables := make([]*egraph.FunctionTable, len(q.Atoms))
	for i, atom := range q.Atoms {
		fn, ok := e.Function(atom.Fn)
		if !ok {
			return errors.NotFoundf(nil, "query references undeclared function %q", atom.Fn)
		}
		tables[i] = fn
	}

	// Atoms with no variables at all never participate in variable-by-variable
	// binding; verify them once, up front.
	for i, atom := range q.Atoms {
		if !atomHasVar(atom) {
			if !constantAtomHolds(tables[i], atom) {
				return nil
			}
		}
	}

	varAtoms := make(map[int][]int) // var index -> atom indices mentioning it
	occurrences := make(map[int]int)
	for ai, atom := range q.Atoms {
		seen := make(map[int]bool)
		for _, t := range atom.Terms {
			if t.IsVar && !seen[t.VarIndex] {
				seen[t.VarIndex] = true
				varAtoms[t.VarIndex] = append(varAtoms[t.VarIndex], ai)
				occurrences[t.VarIndex]++
			}
		}
	}

	order := make([]int, 0, q.NumVars)
	for v := 0; v < q.NumVars; v++ {
		if occurrences[v] > 0 {
			order = append(order, v)
		}
	}
	sort.Slice(order, func(i, j int) bool { return occurrences[order[i]] < occurrences[order[j]] })

	bound := make(map[int]value.Value, q.NumVars)
	joinVar(q, tables, varAtoms, order, 0, bound, cb)
	return nil
}

func atomHasVar(atom query.Atom) bool {
	for _, t := range atom.Terms {
		if t.IsVar {
			return true
		}
	}
	return false
}

func constantAtomHolds(fn *egraph.FunctionTable, atom query.Atom) bool {
	n := len(atom.Terms)
	args := make([]value.Value, n-1)
	for i := 0; i < n-1; i++ {
		args[i] = atom.Terms[i].Val
	}
	out, ok := fn.Lookup(args)
	if !ok {
		return false
	}
	return out.Equal(atom.Terms[n-1].Val)
}

func joinVar(q *query.Query, tables []*egraph.FunctionTable, varAtoms map[int][]int, order []int, depth int, bound map[int]value.Value, cb Callback) {
	if depth == len(order) {
		values := make([]value.Value, q.NumVars)
		for v, val := range bound {
			values[v] = val
		}
		cb(values)
		return
	}

	v := order[depth]
	candidates := candidatesForVar(tables, q.Atoms, varAtoms[v], v, bound)
	for _, c := range candidates {
		bound[v] = c
		joinVar(q, tables, varAtoms, order, depth+1, bound, cb)
	}
	delete(bound, v)
}

// candidatesForVar intersects every atom-projection onto v, consistent with
// the bindings already made (spec.md §4.6).
func candidatesForVar(tables []*egraph.FunctionTable, atoms []query.Atom, atomIdxs []int, v int, bound map[int]value.Value) []value.Value {
	var sets [][]value.Value
	for _, ai := range atomIdxs {
		sets = append(sets, projectAtom(tables[ai], atoms[ai], v, bound))
	}
	return intersectAll(sets)
}

func projectAtom(fn *egraph.FunctionTable, atom query.Atom, v int, bound map[int]value.Value) []value.Value {
	var out []value.Value
	fn.Each(func(args []value.Value, res value.Value) {
		row := make([]value.Value, 0, len(args)+1)
		row = append(row, args...)
		row = append(row, res)
		if val, ok := matchRow(atom, row, v, bound); ok {
			out = append(out, val)
		}
	})
	return out
}

// matchRow checks row against atom's constant terms and already-bound
// variables, returning the value row assigns to v if consistent.
func matchRow(atom query.Atom, row []value.Value, v int, bound map[int]value.Value) (value.Value, bool) {
	var vVal value.Value
	vSet := false
	for i, term := range atom.Terms {
		rowVal := row[i]
		switch {
		case term.IsVar && term.VarIndex == v:
			if vSet && !vVal.Equal(rowVal) {
				return value.Value{}, false
			}
			vVal, vSet = rowVal, true
		case term.IsVar:
			if b, ok := bound[term.VarIndex]; ok && !b.Equal(rowVal) {
				return value.Value{}, false
			}
		default:
			if !term.Val.Equal(rowVal) {
				return value.Value{}, false
			}
		}
	}
	if !vSet {
		return value.Value{}, false
	}
	return vVal, true
}

func intersectAll(sets [][]value.Value) []value.Value {
	if len(sets) == 0 {
		return nil
	}
	counts := make(map[string]int)
	reps := make(map[string]value.Value)
	for _, set := range sets {
		seen := make(map[string]bool)
		for _, v := range set {
			k := value.EncodeValue(v)
			if seen[k] {
				continue
			}
			seen[k] = true
			counts[k]++
			reps[k] = v
		}
	}
	var out []value.Value
	for k, n := range counts {
		if n == len(sets) {
			out = append(out, reps[k])
		}
	}
	return out
}
