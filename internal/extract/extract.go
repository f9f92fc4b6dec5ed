// Package extract implements the cost-based term extractor of spec.md §4.8:
// a fixed-point Dijkstra-over-classes search for the minimum-cost node in
// each equivalence class, every node costing 1 plus its sort-like
// arguments' costs.
package extract

import (
	"fmt"

	"eggo/internal/egraph"
	"eggo/internal/errors"
	"eggo/internal/value"
)

// Term is a reconstructed minimum-cost term: a function applied to its
// argument terms, one per input position — a recursively extracted
// sub-term for sort-like inputs, a literal leaf for everything else.
type Term struct {
	Fn    value.Symbol
	Args  []Term
	IsLit bool
	Lit   value.Value
}

func (t Term) String() string {
	if t.IsLit {
		return t.Lit.String()
	}
	if len(t.Args) == 0 {
		return fmt.Sprintf("(%s)", t.Fn)
	}
	s := fmt.Sprintf("(%s", t.Fn)
	for _, a := range t.Args {
		s += " " + a.String()
	}
	return s + ")"
}

type entry struct {
	cost int
	fn   value.Symbol
	// args holds one value per input position: a canonical class-id value
	// for sort-like inputs, the literal value itself otherwise.
	args []value.Value
}

// Extractor computes the best-known node per class afresh on every Extract
// call (the e-graph may have mutated in between); nothing is cached across
// calls.
type Extractor struct {
	egraph *egraph.EGraph
}

func New(e *egraph.EGraph) *Extractor {
	return &Extractor{egraph: e}
}

// Extract returns the minimum cost and reconstructed term for the
// equivalence class of id (spec.md §4.8).
func (x *Extractor) Extract(id value.ClassId) (int, Term, error) {
	best := x.saturateCosts()

	root := x.egraph.Find(id)
	e, ok := best[root]
	if !ok {
		return 0, Term{}, errors.Unextractablef(nil, "no extractable term for class %d", root)
	}
	term, err := x.reconstruct(best, e)
	if err != nil {
		return 0, Term{}, err
	}
	return e.cost, term, nil
}

// saturateCosts runs the fixed-point loop of spec.md §4.8 step 2-3.
func (x *Extractor) saturateCosts() map[value.ClassId]entry {
	best := make(map[value.ClassId]entry)
	for {
		changed := false
		for name, fn := range x.egraph.Functions() {
			if !fn.Decl().Schema.Output.IsSortLike() {
				continue
			}
			fn.Each(func(args []value.Value, out value.Value) {
				cost := 1
				argVals := make([]value.Value, len(args))
				ok := true
				for i, ty := range fn.Decl().Schema.Inputs {
					if !ty.IsSortLike() {
						argVals[i] = args[i]
						continue
					}
					argId := x.egraph.Find(args[i].Id)
					e, have := best[argId]
					if !have {
						ok = false
						return
					}
					cost += e.cost
					argVals[i] = value.IdValue(argId)
				}
				if !ok {
					return
				}
				cid := x.egraph.Find(out.Id)
				if cur, have := best[cid]; !have || cost < cur.cost {
					best[cid] = entry{cost: cost, fn: name, args: argVals}
					changed = true
				}
			})
		}
		if !changed {
			return best
		}
	}
}

func (x *Extractor) reconstruct(best map[value.ClassId]entry, e entry) (Term, error) {
	fn, _ := x.egraph.Function(e.fn)
	args := make([]Term, len(e.args))
	for i, ty := range fn.Decl().Schema.Inputs {
		if !ty.IsSortLike() {
			args[i] = Term{IsLit: true, Lit: e.args[i]}
			continue
		}
		cid := e.args[i].Id
		sub, ok := best[cid]
		if !ok {
			return Term{}, errors.Unextractablef(nil, "no extractable term for class %d", cid)
		}
		t, err := x.reconstruct(best, sub)
		if err != nil {
			return Term{}, err
		}
		args[i] = t
	}
	return Term{Fn: e.fn, Args: args}, nil
}
