package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"eggo/internal/ast"
	"eggo/internal/egraph"
	"eggo/internal/value"
)

func declareMath(t *testing.T, e *egraph.EGraph) (numFn, addFn, mathSort value.Symbol) {
	t.Helper()
	mathSort = value.Intern("Math")
	require.NoError(t, e.DeclareSort(mathSort))
	numFn = value.Intern("Num")
	require.NoError(t, e.DeclareConstructor(numFn, []value.Type{value.IntType()}, mathSort))
	addFn = value.Intern("Add")
	require.NoError(t, e.DeclareConstructor(addFn, []value.Type{value.SortType(mathSort), value.SortType(mathSort)}, mathSort))
	return
}

// TestCommutativityRewrite mirrors spec.md §8 scenario 2.
func TestCommutativityRewrite(t *testing.T) {
	e := egraph.New()
	numFn, addFn, _ := declareMath(t, e)

	pos := ast.Position{}
	a := value.Intern("a")
	b := value.Intern("b")
	lhs := ast.CallExpr(pos, addFn, []ast.Expr{ast.VarExpr(pos, a), ast.VarExpr(pos, b)})
	rhs := ast.CallExpr(pos, addFn, []ast.Expr{ast.VarExpr(pos, b), ast.VarExpr(pos, a)})

	en := NewEngine()
	require.NoError(t, en.AddRewrite(RewriteName(ast.Rewrite{Lhs: lhs, Rhs: rhs}), ast.Rewrite{Lhs: lhs, Rhs: rhs}))

	num1 := ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))})
	num2 := ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(2))})
	tExpr := ast.CallExpr(pos, addFn, []ast.Expr{num1, num2})
	tVal, err := e.EvalExpr(nil, tExpr)
	require.NoError(t, err)

	require.NoError(t, en.Run(e, 10))

	otherExpr := ast.CallExpr(pos, addFn, []ast.Expr{num2, num1})
	otherVal, err := e.EvalExpr(nil, otherExpr)
	require.NoError(t, err)

	require.Equal(t, e.Find(tVal.Id), e.Find(otherVal.Id))
}

// TestClearRulesDropsFutureMatches confirms ClearRules leaves no rule to step.
func TestClearRulesDropsFutureMatches(t *testing.T) {
	e := egraph.New()
	numFn, addFn, _ := declareMath(t, e)
	pos := ast.Position{}
	a := value.Intern("a")
	b := value.Intern("b")
	lhs := ast.CallExpr(pos, addFn, []ast.Expr{ast.VarExpr(pos, a), ast.VarExpr(pos, b)})
	rhs := ast.CallExpr(pos, addFn, []ast.Expr{ast.VarExpr(pos, b), ast.VarExpr(pos, a)})

	num1 := ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))})
	num2 := ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(2))})
	_, err := e.EvalExpr(nil, ast.CallExpr(pos, addFn, []ast.Expr{num1, num2}))
	require.NoError(t, err)

	en := NewEngine()
	require.NoError(t, en.AddRewrite(RewriteName(ast.Rewrite{Lhs: lhs, Rhs: rhs}), ast.Rewrite{Lhs: lhs, Rhs: rhs}))
	en.ClearRules()

	require.NoError(t, en.Run(e, 3))

	// With the rewrite cleared, the commuted Add node is never created.
	add, _ := e.Function(addFn)
	require.Equal(t, 1, add.Len())
}
