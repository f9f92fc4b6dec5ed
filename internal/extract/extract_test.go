package extract

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

// TestExtractPrefersCheaperEquivalentTerm mirrors spec.md §8 scenario 6: two
// equal terms of node-count 3 and 5 in the same class; Extract returns 3.
func TestExtractPrefersCheaperEquivalentTerm(t *testing.T) {
	e := egraph.New()
	numFn, addFn, _ := declareMath(t, e)
	pos := ast.Position{}

	cheap := ast.CallExpr(pos, addFn, []ast.Expr{
		ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))}),
		ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(2))}),
	}) // cost 3: Add + 2 Num

	expensive := ast.CallExpr(pos, addFn, []ast.Expr{
		ast.CallExpr(pos, addFn, []ast.Expr{
			ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))}),
			ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))}),
		}),
		ast.CallExpr(pos, numFn, []ast.Expr{ast.LitExpr(pos, ast.IntLit(1))}),
	}) // cost 5: 2 Add + 3 Num

	cheapVal, err := e.EvalExpr(nil, cheap)
	require.NoError(t, err)
	expensiveVal, err := e.EvalExpr(nil, expensive)
	require.NoError(t, err)

	_, err = e.UnionValues(cheapVal, expensiveVal)
	require.NoError(t, err)
	_, err = e.Rebuild()
	require.NoError(t, err)

	x := New(e)
	cost, term, err := x.Extract(cheapVal.Id)
	require.NoError(t, err)
	require.Equal(t, 3, cost)
	require.Equal(t, addFn, term.Fn)
}

func TestExtractUnknownClassFails(t *testing.T) {
	e := egraph.New()
	declareMath(t, e)
	x := New(e)
	_, _, err := x.Extract(value.ClassId(999))
	require.Error(t, err)
}
