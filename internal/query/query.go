// Package query compiles rule and Query-command bodies into the
// variable-indexed conjunctive form consumed by internal/join, following
// spec.md §4.5. The compilation algorithm is grounded on the original
// source's Query::from_facts: a disjoint-set over "variable or value" nodes
// that unifies every occurrence of the same variable or sub-expression.
package query

import (
	"fmt"

	"eggo/internal/ast"
	"eggo/internal/errors"
	"eggo/internal/value"
)

// AtomTerm is either a bound variable, referenced by its index in the
// compiled query's substitution vector, or a literal constant.
type AtomTerm struct {
	IsVar    bool
	VarIndex int
	Val      value.Value
}

func VarTerm(i int) AtomTerm        { return AtomTerm{IsVar: true, VarIndex: i} }
func ValueTerm(v value.Value) AtomTerm { return AtomTerm{Val: v} }

func (t AtomTerm) String() string {
	if t.IsVar {
		return fmt.Sprintf("?%d", t.VarIndex)
	}
	return t.Val.String()
}

// Atom is one relational atom: a function name applied to arity+1 terms,
// the last slot holding the function's output.
type Atom struct {
	Fn    value.Symbol
	Terms []AtomTerm
}

// Query is a compiled conjunctive query (spec.md §4.5).
type Query struct {
	Bindings map[value.Symbol]AtomTerm
	Atoms    []Atom
	NumVars  int
}

// disjointSet is a small string-keyed union-find used only during
// compilation; elements are either "v:<symbol>" (a variable) or
// "c:<encoded value>" (a literal constant).
type disjointSet struct {
	parent map[string]string
}

func newDisjointSet() *disjointSet {
	return &disjointSet{parent: make(map[string]string)}
}

func (d *disjointSet) add(k string) {
	if _, ok := d.parent[k]; !ok {
		d.parent[k] = k
	}
}

func (d *disjointSet) find(k string) string {
	root := k
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[k] != root {
		d.parent[k], k = root, d.parent[k]
	}
	return root
}

func (d *disjointSet) union(a, b string) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[ra] = rb
	}
}

func (d *disjointSet) sets() map[string][]string {
	out := make(map[string][]string)
	for k := range d.parent {
		r := d.find(k)
		out[r] = append(out[r], k)
	}
	return out
}

// compiler holds the mutable state threaded through Compile.
type compiler struct {
	ds         *disjointSet
	symbolOf   map[string]value.Symbol // "v:" key -> its symbol
	valueOf    map[string]value.Value  // "c:" key -> its value
	preAtoms   []preAtom
	auxCounter int
}

type preAtom struct {
	fn   value.Symbol
	args []string // disjoint-set keys, last is the call's own aux result
}

func varKey(sym value.Symbol) string { return "v:" + sym.String() }

// Compile implements spec.md §4.5's compilation procedure.
func Compile(facts []ast.Fact) (*Query, error) {
	c := &compiler{
		ds:       newDisjointSet(),
		symbolOf: make(map[string]value.Symbol),
		valueOf:  make(map[string]value.Value),
	}

	for i, fact := range facts {
		groupSym := value.Intern(fmt.Sprintf("__group_%d", i))
		groupKey := varKey(groupSym)
		c.ds.add(groupKey)
		c.symbolOf[groupKey] = groupSym

		exprs := fact.Exprs
		for _, expr := range exprs {
			vvKey := c.fold(expr)
			c.ds.union(groupKey, vvKey)
		}
	}

	nextVarIndex := 0
	keyToTerm := make(map[string]AtomTerm)

	for _, members := range c.ds.sets() {
		var constants []value.Value
		for _, k := range members {
			if v, ok := c.valueOf[k]; ok {
				constants = append(constants, v)
			}
		}
		if len(constants) > 1 {
			return nil, errors.Typef(nil, "query equivalence class has %d distinct literal values, at most 1 allowed", len(constants))
		}

		var term AtomTerm
		if len(constants) == 1 {
			term = ValueTerm(constants[0])
		} else {
			term = VarTerm(nextVarIndex)
			nextVarIndex++
		}
		for _, k := range members {
			keyToTerm[k] = term
		}
	}

	bindings := make(map[value.Symbol]AtomTerm)
	for k, sym := range c.symbolOf {
		bindings[sym] = keyToTerm[k]
	}

	atoms := make([]Atom, len(c.preAtoms))
	for i, pa := range c.preAtoms {
		terms := make([]AtomTerm, len(pa.args))
		for j, k := range pa.args {
			terms[j] = keyToTerm[k]
		}
		atoms[i] = Atom{Fn: pa.fn, Terms: terms}
	}

	return &Query{Bindings: bindings, Atoms: atoms, NumVars: nextVarIndex}, nil
}

// fold walks expr bottom-up, registering leaves and call results as
// disjoint-set elements and returning the key identifying expr's own node
// (spec.md §4.5 step 2).
func (c *compiler) fold(expr ast.Expr) string {
	switch {
	case expr.IsVar:
		k := varKey(expr.Var)
		c.ds.add(k)
		c.symbolOf[k] = expr.Var
		return k

	case expr.IsLit:
		val := expr.Lit.ToValue()
		k := "c:" + value.EncodeValue(val)
		c.ds.add(k)
		c.valueOf[k] = val
		return k

	default:
		argKeys := make([]string, len(expr.Args)+1)
		for i, a := range expr.Args {
			argKeys[i] = c.fold(a)
		}
		aux := value.Intern(fmt.Sprintf("_aux_%d", c.auxCounter))
		c.auxCounter++
		auxKey := varKey(aux)
		c.ds.add(auxKey)
		c.symbolOf[auxKey] = aux
		argKeys[len(expr.Args)] = auxKey

		c.preAtoms = append(c.preAtoms, preAtom{fn: expr.Op, args: argKeys})
		return auxKey
	}
}
