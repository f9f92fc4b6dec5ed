package egraph

import (
	"eggo/internal/ast"
	"eggo/internal/errors"
	"eggo/internal/primitives"
	"eggo/internal/unionfind"
	"eggo/internal/value"
)

// EGraph owns all of its state: the union-find, the sort table, the
// function tables, the primitive registry, and the globals (spec.md §5,
// "Shared resources").
type EGraph struct {
	uf        *unionfind.UnionFind
	sorts     map[value.Symbol][]value.Symbol // sort -> its constructor names
	functions map[value.Symbol]*FunctionTable
	globals   map[value.Symbol]value.Value
	prims     *primitives.Registry
}

// New returns an empty EGraph with the fixed primitive set pre-registered.
func New() *EGraph {
	return &EGraph{
		uf:        unionfind.New(),
		sorts:     make(map[value.Symbol][]value.Symbol),
		functions: make(map[value.Symbol]*FunctionTable),
		globals:   make(map[value.Symbol]value.Value),
		prims:     primitives.NewRegistry(),
	}
}

// Find returns the canonical representative of id.
func (e *EGraph) Find(id value.ClassId) value.ClassId { return e.uf.Find(id) }

// MakeSet allocates a fresh class id.
func (e *EGraph) MakeSet() value.ClassId { return e.uf.MakeSet() }

// Union merges two classes directly.
func (e *EGraph) Union(a, b value.ClassId) value.ClassId { return e.uf.Union(a, b) }

// UnionValues merges two Id-tagged values.
func (e *EGraph) UnionValues(a, b value.Value) (value.Value, error) {
	return e.uf.UnionValues(a, b)
}

// NUnions exposes the union-find's monotone merge counter.
func (e *EGraph) NUnions() uint64 { return e.uf.NUnions() }

// NumClasses exposes the live equivalence-class count.
func (e *EGraph) NumClasses() int { return e.uf.NumClasses() }

// IsSort reports whether name has been declared as a sort.
func (e *EGraph) IsSort(name value.Symbol) bool {
	_, ok := e.sorts[name]
	return ok
}

// Function looks up a function's table by name.
func (e *EGraph) Function(name value.Symbol) (*FunctionTable, bool) {
	f, ok := e.functions[name]
	return f, ok
}

// Functions returns every declared function, for the extractor and rebuilder.
func (e *EGraph) Functions() map[value.Symbol]*FunctionTable { return e.functions }

// HasPrimitive reports whether name is a registered primitive operator.
func (e *EGraph) HasPrimitive(name value.Symbol) bool { return e.prims.Has(name) }

// Global looks up a previously-defined global.
func (e *EGraph) Global(name value.Symbol) (value.Value, bool) {
	v, ok := e.globals[name]
	return v, ok
}

// DeclareSort registers a new sort name. Redeclaration is an error
// (spec.md §3, "Lifecycles").
func (e *EGraph) DeclareSort(name value.Symbol) error {
	if _, ok := e.sorts[name]; ok {
		return errors.SortAlreadyBoundf(nil, "sort %q is already declared", name)
	}
	e.sorts[name] = nil
	return nil
}

// checkSchemaSorts validates that every Sort(_) type referenced by a schema
// names a declared sort (spec.md §4.9).
func (e *EGraph) checkSchemaSorts(schema ast.Schema) error {
	for _, t := range schema.Inputs {
		if t.Tag == value.TagSort && !e.IsSort(t.Sort) {
			return errors.Typef(nil, "undefined sort %q in function input", t.Sort)
		}
	}
	if schema.Output.Tag == value.TagSort && !e.IsSort(schema.Output.Sort) {
		return errors.Typef(nil, "undefined sort %q in function output", schema.Output.Sort)
	}
	return nil
}

// DeclareFunction registers a user or constructor function. Redeclaration
// of the same name is an error.
func (e *EGraph) DeclareFunction(decl ast.FunctionDecl) error {
	if err := e.checkSchemaSorts(decl.Schema); err != nil {
		return err
	}
	if _, ok := e.functions[decl.Name]; ok {
		return errors.FunctionAlreadyBoundf(nil, "function %q is already declared", decl.Name)
	}
	e.functions[decl.Name] = newFunctionTable(decl)
	return nil
}

// DeclareConstructor registers name as a constructor-like function producing
// values of sort, and records it as one of sort's variants.
func (e *EGraph) DeclareConstructor(name value.Symbol, inputs []value.Type, sort value.Symbol) error {
	decl := ast.FunctionDecl{
		Name:   name,
		Schema: ast.Schema{Inputs: inputs, Output: value.SortType(sort)},
	}
	if err := e.DeclareFunction(decl); err != nil {
		return err
	}
	e.sorts[sort] = append(e.sorts[sort], name)
	return nil
}

// DefineGlobal binds name in the global namespace. Redefinition is an error
// (spec.md §6, "Define"; this deliberately differs from the original
// source's silent overwrite — see DESIGN.md).
func (e *EGraph) DefineGlobal(name value.Symbol, val value.Value) error {
	if _, ok := e.globals[name]; ok {
		return errors.GlobalAlreadyBoundf(nil, "global %q is already defined", name)
	}
	e.globals[name] = val
	return nil
}

// EGraph holds no rules and has no ClearRules; the rule set lives in
// internal/rule, see rule.Engine.ClearRules.

// Rebuild restores canonicalisation (C1) and congruence (C2) by looping
// FunctionTable.Rebuild to a fixed point (spec.md §4.2). It returns the
// total number of updates applied across the whole loop.
func (e *EGraph) Rebuild() (uint64, error) {
	var total uint64
	for {
		var round uint64
		for _, f := range e.functions {
			delta, err := f.Rebuild(e.uf)
			if err != nil {
				return total, err
			}
			round += delta
		}
		total += round
		if round == 0 {
			break
		}
	}
	return total, nil
}
