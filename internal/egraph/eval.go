package egraph

import (
	"eggo/internal/ast"
	"eggo/internal/errors"
	"eggo/internal/value"
)

// Subst is the substitution context threaded through expression evaluation:
// rule-bound variables first, falling back to globals (spec.md §4.3).
type Subst map[value.Symbol]value.Value

// EvalExpr evaluates expr under ctx, following spec.md §4.3. ctx may be nil,
// in which case only globals are consulted.
func (e *EGraph) EvalExpr(ctx Subst, expr ast.Expr) (value.Value, error) {
	switch {
	case expr.IsVar:
		if ctx != nil {
			if v, ok := ctx[expr.Var]; ok {
				return v, nil
			}
		}
		if v, ok := e.globals[expr.Var]; ok {
			return v, nil
		}
		return value.Value{}, errors.NotFoundf(&expr.Pos, "variable %q is not bound", expr.Var)

	case expr.IsLit:
		return expr.Lit.ToValue(), nil

	default:
		return e.evalCall(ctx, expr)
	}
}

func (e *EGraph) evalCall(ctx Subst, expr ast.Expr) (value.Value, error) {
	vals := make([]value.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.EvalExpr(ctx, a)
		if err != nil {
			return value.Value{}, err
		}
		vals[i] = v
	}

	if fn, ok := e.functions[expr.Op]; ok {
		if out, ok := fn.Lookup(vals); ok {
			return out, nil
		}
		return e.evalCallMiss(ctx, expr, fn, vals)
	}

	if e.prims.Has(expr.Op) {
		prim, _, err := e.prims.Lookup(expr.Op, vals)
		if err != nil {
			return value.Value{}, err
		}
		return prim.Apply(vals), nil
	}

	return value.Value{}, errors.NotFoundf(&expr.Pos, "no function or primitive named %q", expr.Op)
}

// evalCallMiss handles a function call whose argument tuple has no row yet:
// hash-consing for sort-like outputs, Unit default, an explicit default
// expression, or — for a numeric output with neither — a fatal
// configuration error (spec.md §4.3, §9 "Closure over table while mutating").
func (e *EGraph) evalCallMiss(ctx Subst, expr ast.Expr, fn *FunctionTable, vals []value.Value) (value.Value, error) {
	decl := fn.Decl()
	switch {
	case decl.Default != nil:
		// Resolve the default before reborrowing fn, since evaluating it may
		// itself mutate this very table.
		val, err := e.EvalExpr(ctx, *decl.Default)
		if err != nil {
			return value.Value{}, err
		}
		fn.Insert(vals, val)
		return val, nil

	case decl.Schema.Output.Tag == value.TagUnit:
		fn.Insert(vals, value.UnitValue())
		return value.UnitValue(), nil

	case decl.Schema.Output.IsSortLike():
		id := e.uf.MakeSet()
		v := value.IdValue(id)
		fn.Insert(vals, v)
		return v, nil

	default:
		return value.Value{}, errors.FatalConfigf(&expr.Pos, "function %q has a numeric output with no default declared", expr.Op)
	}
}

// EvalActions executes a sequence of head actions under ctx (spec.md §4.4).
// ctx is nil for a top-level Action command, in which case a Define action
// binds into globals instead of a rule substitution.
func (e *EGraph) EvalActions(ctx Subst, actions []ast.Action) error {
	for _, action := range actions {
		if err := e.evalAction(ctx, action); err != nil {
			return err
		}
	}
	return nil
}

func (e *EGraph) evalAction(ctx Subst, action ast.Action) error {
	switch action.Kind {
	case ast.ActionPanic:
		return errors.UserPanicf(&action.Pos, "%s", action.Message)

	case ast.ActionExpr:
		_, err := e.EvalExpr(ctx, action.Expr)
		return err

	case ast.ActionDefine:
		val, err := e.EvalExpr(ctx, action.Expr)
		if err != nil {
			return err
		}
		if ctx != nil {
			ctx[action.Name] = val
			return nil
		}
		return e.DefineGlobal(action.Name, val)

	case ast.ActionSet:
		return e.evalSet(ctx, action)

	case ast.ActionUnion:
		a, err := e.EvalExpr(ctx, action.Expr)
		if err != nil {
			return err
		}
		b, err := e.EvalExpr(ctx, action.Expr2)
		if err != nil {
			return err
		}
		_, err = e.uf.UnionValues(a, b)
		return err

	default:
		return errors.Typef(&action.Pos, "unknown action kind")
	}
}

func (e *EGraph) evalSet(ctx Subst, action ast.Action) error {
	vals := make([]value.Value, len(action.Args))
	for i, a := range action.Args {
		v, err := e.EvalExpr(ctx, a)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	newVal, err := e.EvalExpr(ctx, action.Expr2)
	if err != nil {
		return err
	}

	fn, ok := e.functions[action.Fn]
	if !ok {
		return errors.NotFoundf(&action.Pos, "no function named %q", action.Fn)
	}

	prior, had := fn.Insert(vals, newVal)
	if !had {
		return nil
	}

	decl := fn.Decl()
	switch {
	case decl.Merge != nil:
		mergeCtx := Subst{value.Intern("old"): prior, value.Intern("new"): newVal}
		merged, err := e.EvalExpr(mergeCtx, *decl.Merge)
		if err != nil {
			return err
		}
		fn.Insert(vals, merged)
		return nil
	case decl.Schema.Output.Tag == value.TagUnit:
		return nil
	case decl.Schema.Output.IsSortLike():
		_, err := e.uf.UnionValues(prior, newVal)
		return err
	default:
		return errors.FatalConfigf(&action.Pos, "function %q has a numeric output with a prior entry and no merge declared", action.Fn)
	}
}

// CheckFact asserts a Check command's fact (spec.md §6, §4.4 design note:
// read-only, never mutates the e-graph beyond the hash-consing eval_expr
// itself may need to do).
func (e *EGraph) CheckFact(fact ast.Fact) error {
	if fact.IsEq {
		if len(fact.Exprs) < 2 {
			return errors.Typef(nil, "an Eq fact needs at least two expressions")
		}
		var first value.Value
		for i, expr := range fact.Exprs {
			v, err := e.EvalExpr(nil, expr)
			if err != nil {
				return err
			}
			v = e.canonicalise(v)
			if i == 0 {
				first = v
				continue
			}
			if !first.Equal(v) {
				return errors.CheckFailedf(&expr.Pos, "check failed: %s != %s", first, v)
			}
		}
		return nil
	}

	expr := fact.Exprs[0]
	if !expr.IsCall() {
		return errors.Typef(&expr.Pos, "a bare Check fact must be a function call")
	}
	vals := make([]value.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.EvalExpr(nil, a)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	fn, ok := e.functions[expr.Op]
	if !ok {
		return errors.NotFoundf(&expr.Pos, "no function named %q", expr.Op)
	}
	if _, found := fn.Lookup(vals); !found {
		return errors.NotFoundf(&expr.Pos, "no node %s in function %q", expr, expr.Op)
	}
	if fn.Decl().Schema.Output.Tag != value.TagUnit {
		return errors.Typef(&expr.Pos, "bare Check fact on %q requires a Unit-output function", expr.Op)
	}
	return nil
}

// canonicalise replaces an Id value with its current representative; used
// only by Check, which must observe canonical equality without mutating the
// e-graph the way a rebuilt FunctionTable already does.
func (e *EGraph) canonicalise(v value.Value) value.Value {
	if v.Kind == value.KId {
		return value.IdValue(e.uf.Find(v.Id))
	}
	return v
}
