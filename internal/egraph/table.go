// Package egraph implements the core congruence-closure structure of
// spec.md §3-§4.4: function tables keyed by equivalence-class tuples, the
// expression and action evaluators that read and write them, and the
// congruence rebuilder that restores C1/C2 after merges.
package egraph

import (
	"eggo/internal/ast"
	"eggo/internal/errors"
	"eggo/internal/unionfind"
	"eggo/internal/value"
)

// node is one row of a FunctionTable: an argument tuple and its value.
type node struct {
	args []value.Value
	out  value.Value
}

// FunctionTable is per-function state (spec.md §3, §4.1): a map from
// argument tuple to output value, plus an update counter since the last
// rebuild.
type FunctionTable struct {
	decl    ast.FunctionDecl
	nodes   map[string]node
	updates uint64
}

func newFunctionTable(decl ast.FunctionDecl) *FunctionTable {
	return &FunctionTable{decl: decl, nodes: make(map[string]node)}
}

// Decl returns the schema this table was declared with.
func (f *FunctionTable) Decl() ast.FunctionDecl { return f.decl }

// Insert overwrites any prior entry for args and returns it, if present. The
// caller (the Action Evaluator) is responsible for invoking the declared
// merge policy when a prior entry exists (spec.md §4.1).
func (f *FunctionTable) Insert(args []value.Value, val value.Value) (value.Value, bool) {
	key := value.EncodeTuple(args)
	prev, had := f.nodes[key]
	f.nodes[key] = node{args: args, out: val}
	f.updates++
	if had {
		return prev.out, true
	}
	return value.Value{}, false
}

// Lookup returns the stored value for args, if any.
func (f *FunctionTable) Lookup(args []value.Value) (value.Value, bool) {
	n, ok := f.nodes[value.EncodeTuple(args)]
	if !ok {
		return value.Value{}, false
	}
	return n.out, true
}

// Len returns the number of stored rows.
func (f *FunctionTable) Len() int { return len(f.nodes) }

// Each calls cb once per stored (args, value) row. Mutating the table from
// within cb is not supported.
func (f *FunctionTable) Each(cb func(args []value.Value, out value.Value)) {
	for _, n := range f.nodes {
		cb(n.args, n.out)
	}
}

// Rebuild canonicalises the table against uf and returns an update count,
// following the procedure of spec.md §4.1.
func (f *FunctionTable) Rebuild(uf *unionfind.UnionFind) (uint64, error) {
	nBefore := uf.NUnions()
	old := f.nodes
	f.nodes = make(map[string]node, len(old))

	for _, n := range old {
		args := append([]value.Value(nil), n.args...)
		for i, ty := range f.decl.Schema.Inputs {
			if ty.IsSortLike() {
				args[i] = value.IdValue(uf.Find(args[i].Id))
			}
		}
		out := n.out
		outputIsSort := f.decl.Schema.Output.IsSortLike()
		if outputIsSort {
			out = value.IdValue(uf.Find(out.Id))
		}

		key := value.EncodeTuple(args)
		existing, collided := f.nodes[key]
		switch {
		case !collided:
			f.nodes[key] = node{args: args, out: out}
		case outputIsSort:
			merged, err := uf.UnionValues(existing.out, out)
			if err != nil {
				return 0, err
			}
			f.nodes[key] = node{args: args, out: merged}
		case f.decl.Schema.Output.Tag == value.TagUnit:
			// Both are Unit: collision tolerated, nothing to reconcile.
		default:
			return 0, errors.FatalConfigf(nil, "congruence violation on numeric output of %s: declare a merge expression", f.decl.Name)
		}
	}

	delta := uf.NUnions() - nBefore + f.updates
	f.updates = 0
	return delta, nil
}
