// Package typecheck implements spec.md §4.9: declaration-time sort
// existence checks (already enforced directly by internal/egraph) and
// rule-compile-time expression type consistency, with aggregated errors so
// a command producing any type error is rejected before its side effects.
package typecheck

import (
	"eggo/internal/ast"
	"eggo/internal/egraph"
	"eggo/internal/errors"
	"eggo/internal/value"
)

// Checker types expressions against an EGraph's declared functions.
// Primitive calls are not checked deeply: their dispatch is by runtime
// argument type (spec.md §6), so only their arguments are checked and their
// result type is left unknown; their arity is not checked here.
type Checker struct {
	egraph *egraph.EGraph
}

func New(e *egraph.EGraph) *Checker {
	return &Checker{egraph: e}
}

// varTypes tracks the type inferred so far for each rule-bound variable;
// nil means not yet constrained.
type varTypes map[value.Symbol]*value.Type

// CheckRule type-checks every fact in a rule's body and every action in its
// head, aggregating all errors found (spec.md §4.9).
func (c *Checker) CheckRule(r ast.Rule) []error {
	var errs []error
	vt := make(varTypes)

	for _, f := range r.Body {
		errs = append(errs, c.checkFact(vt, f)...)
	}
	for _, a := range r.Head {
		errs = append(errs, c.checkAction(vt, a)...)
	}
	return errs
}

// CheckExpr types a single closed expression (spec.md §6, used by Extract
// and Define at the top level, where no rule-bound variables exist).
func (c *Checker) CheckExpr(e ast.Expr) []error {
	vt := make(varTypes)
	_, errs := c.infer(vt, e)
	return errs
}

func (c *Checker) checkFact(vt varTypes, f ast.Fact) []error {
	var errs []error
	var types []value.Type
	for _, e := range f.Exprs {
		t, es := c.infer(vt, e)
		errs = append(errs, es...)
		if t != nil {
			types = append(types, *t)
		}
	}
	if f.IsEq {
		for i := 1; i < len(types); i++ {
			if !types[0].Equal(types[i]) {
				errs = append(errs, errors.Typef(&f.Exprs[i].Pos, "type mismatch in Eq fact: %s vs %s", types[0], types[i]))
			}
		}
	}
	return errs
}

func (c *Checker) checkAction(vt varTypes, a ast.Action) []error {
	var errs []error
	switch a.Kind {
	case ast.ActionExpr:
		_, es := c.infer(vt, a.Expr)
		errs = append(errs, es...)
	case ast.ActionDefine:
		t, es := c.infer(vt, a.Expr)
		errs = append(errs, es...)
		bind(vt, a.Name, t)
	case ast.ActionSet:
		fn, ok := c.egraph.Function(a.Fn)
		if !ok {
			errs = append(errs, errors.NotFoundf(&a.Pos, "no function named %q", a.Fn))
			break
		}
		decl := fn.Decl()
		if len(a.Args) != len(decl.Schema.Inputs) {
			errs = append(errs, errors.Typef(&a.Pos, "function %q expects %d args, got %d", a.Fn, len(decl.Schema.Inputs), len(a.Args)))
			break
		}
		for i, arg := range a.Args {
			errs = append(errs, c.expect(vt, arg, decl.Schema.Inputs[i])...)
		}
		errs = append(errs, c.expect(vt, a.Expr2, decl.Schema.Output)...)
	case ast.ActionUnion:
		t1, es1 := c.infer(vt, a.Expr)
		t2, es2 := c.infer(vt, a.Expr2)
		errs = append(errs, es1...)
		errs = append(errs, es2...)
		if t1 != nil && !t1.IsSortLike() {
			errs = append(errs, errors.Typef(&a.Expr.Pos, "union operand %s is not sort-like", a.Expr))
		}
		if t2 != nil && !t2.IsSortLike() {
			errs = append(errs, errors.Typef(&a.Expr2.Pos, "union operand %s is not sort-like", a.Expr2))
		}
	case ast.ActionPanic:
		// no expression to type.
	}
	return errs
}

// expect infers expr's type and, if known, checks it matches want.
func (c *Checker) expect(vt varTypes, expr ast.Expr, want value.Type) []error {
	t, errs := c.infer(vt, expr)
	if expr.IsVar {
		bind(vt, expr.Var, &want)
		return errs
	}
	if t != nil && !t.Equal(want) {
		errs = append(errs, errors.Typef(&expr.Pos, "expected %s, found %s", want, *t))
	}
	return errs
}

func bind(vt varTypes, sym value.Symbol, t *value.Type) {
	if t == nil {
		return
	}
	if existing, ok := vt[sym]; ok && existing != nil {
		return
	}
	cp := *t
	vt[sym] = &cp
}

// infer returns expr's type if it can be determined from declarations and
// prior bindings, plus any errors found along the way. A nil type is not
// itself an error — e.g. a variable's first occurrence, or a primitive
// call, whose type depends on runtime dispatch.
func (c *Checker) infer(vt varTypes, expr ast.Expr) (*value.Type, []error) {
	switch {
	case expr.IsVar:
		return vt[expr.Var], nil

	case expr.IsLit:
		t := expr.Lit.ToValue()
		switch {
		case t.Kind == value.KUnit:
			ty := value.Unit()
			return &ty, nil
		case t.Kind == value.KRational:
			ty := value.RationalType()
			return &ty, nil
		default:
			ty := value.IntType()
			return &ty, nil
		}

	default:
		return c.inferCall(vt, expr)
	}
}

func (c *Checker) inferCall(vt varTypes, expr ast.Expr) (*value.Type, []error) {
	var errs []error

	if fn, ok := c.egraph.Function(expr.Op); ok {
		decl := fn.Decl()
		if len(expr.Args) != len(decl.Schema.Inputs) {
			errs = append(errs, errors.Typef(&expr.Pos, "function %q expects %d args, got %d", expr.Op, len(decl.Schema.Inputs), len(expr.Args)))
			return nil, errs
		}
		for i, arg := range expr.Args {
			errs = append(errs, c.expect(vt, arg, decl.Schema.Inputs[i])...)
		}
		out := decl.Schema.Output
		return &out, errs
	}

	if c.egraph.HasPrimitive(expr.Op) {
		for _, arg := range expr.Args {
			_, es := c.infer(vt, arg)
			errs = append(errs, es...)
		}
		return nil, errs
	}

	return nil, []error{errors.NotFoundf(&expr.Pos, "no function or primitive named %q", expr.Op)}
}
