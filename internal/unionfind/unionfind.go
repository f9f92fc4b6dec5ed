// Package unionfind implements the disjoint-set structure over ClassId
// described in spec.md §3. The algorithm (union by rank with path
// compression) follows the same shape as the generic disjoint-set in the
// pack's purpleidea/mgmt util/disjoint package, adapted from a pointer-based
// Elem[T] to the dense, array-indexed ClassId the spec requires.
package unionfind

import (
	"fmt"

	"eggo/internal/value"
)

// UnionFind is state: a parent array indexed by ClassId, a parallel rank
// array for union-by-rank, and a monotone "unions" counter (spec.md §3).
type UnionFind struct {
	parent []value.ClassId
	rank   []int
	unions uint64
}

// New returns an empty UnionFind.
func New() *UnionFind {
	return &UnionFind{}
}

// MakeSet allocates a fresh ClassId that is its own representative.
// Invariant U1: this id remains findable for the lifetime of the UnionFind.
func (u *UnionFind) MakeSet() value.ClassId {
	id := value.ClassId(len(u.parent))
	u.parent = append(u.parent, id)
	u.rank = append(u.rank, 0)
	return id
}

// Find returns the representative of id's set, compressing the path it
// walks so subsequent lookups are cheaper. An id this UnionFind never
// allocated is returned unchanged.
func (u *UnionFind) Find(id value.ClassId) value.ClassId {
	if id < 0 || int(id) >= len(u.parent) {
		return id
	}
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]] // path halving
		id = u.parent[id]
	}
	return id
}

// Union merges the sets containing a and b and returns the representative.
// If a and b are already in the same set, that set's representative is
// returned and the unions counter is not incremented.
func (u *UnionFind) Union(a, b value.ClassId) value.ClassId {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return ra
	}
	u.unions++
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
		return rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
		return ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
		return ra
	}
}

// UnionValues merges two Id-tagged values and returns the representative as
// a Value. It is a partial operation: non-Id operands are a programmer
// error, per the "Value-typed union-find" design note in spec.md §9 — the
// source's silent behaviour on non-Id inputs is deliberately not replicated.
func (u *UnionFind) UnionValues(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KId || b.Kind != value.KId {
		return value.Value{}, fmt.Errorf("union_values: operands must both be Id values, got %s and %s", a, b)
	}
	rep := u.Union(a.Id, b.Id)
	return value.IdValue(rep), nil
}

// NUnions returns the number of successful merges performed so far.
func (u *UnionFind) NUnions() uint64 { return u.unions }

// NumClasses returns the number of distinct representatives currently live,
// used by tests exercising P3 (monotonicity of class count).
func (u *UnionFind) NumClasses() int {
	seen := make(map[value.ClassId]struct{}, len(u.parent))
	for i := range u.parent {
		seen[u.Find(value.ClassId(i))] = struct{}{}
	}
	return len(seen)
}
