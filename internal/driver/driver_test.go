package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"eggo/internal/ast"
	"eggo/internal/value"
)

var pos = ast.Position{}

func num(i int64) ast.Expr  { return ast.LitExpr(pos, ast.IntLit(i)) }
func v(s string) ast.Expr   { return ast.VarExpr(pos, value.Intern(s)) }
func call(op string, args ...ast.Expr) ast.Expr {
	return ast.CallExpr(pos, value.Intern(op), args)
}

// TestIntegerArithmetic mirrors spec.md §8 scenario 1.
func TestIntegerArithmetic(t *testing.T) {
	d := New()
	msgs, err := d.RunProgram([]ast.Command{
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("x"), Expr: call("+", num(1), num(2))},
		{Kind: ast.CmdCheck, Pos: pos, Fact: ast.EqFact(v("x"), num(3))},
	})
	require.NoError(t, err)
	require.Equal(t, "Defined x.", msgs[0])
	require.Equal(t, "Checked.", msgs[1])
}

func mathDatatype() ast.Command {
	mathSort := value.Intern("Math")
	return ast.Command{
		Kind:     ast.CmdDatatype,
		Pos:      pos,
		SortName: mathSort,
		Variants: []ast.Variant{
			{Name: value.Intern("Num"), Types: []value.Type{value.IntType()}},
			{Name: value.Intern("Add"), Types: []value.Type{value.SortType(mathSort), value.SortType(mathSort)}},
		},
	}
}

// TestCommutativityRewrite mirrors spec.md §8 scenario 2.
func TestCommutativityRewrite(t *testing.T) {
	d := New()
	a, b := v("a"), v("b")
	rewrite := ast.Rewrite{Lhs: call("Add", a, b), Rhs: call("Add", b, a)}

	t1 := call("Add", call("Num", num(1)), call("Num", num(2)))
	t2 := call("Add", call("Num", num(2)), call("Num", num(1)))

	msgs, err := d.RunProgram([]ast.Command{
		mathDatatype(),
		{Kind: ast.CmdRewrite, Pos: pos, Rewrite: rewrite},
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("t"), Expr: t1},
		{Kind: ast.CmdRun, Pos: pos, Limit: 10},
		{Kind: ast.CmdCheck, Pos: pos, Fact: ast.EqFact(v("t"), t2)},
	})
	require.NoError(t, err)
	require.Equal(t, "Checked.", msgs[len(msgs)-1])
}

// TestAssociativityAndConstantFold mirrors spec.md §8 scenario 3.
func TestAssociativityAndConstantFold(t *testing.T) {
	d := New()
	a, b, c := v("a"), v("b"), v("c")
	assoc := ast.Rewrite{
		Lhs: call("Add", call("Add", a, b), c),
		Rhs: call("Add", a, call("Add", b, c)),
	}
	fold := ast.Rewrite{
		Lhs: call("Add", call("Num", a), call("Num", b)),
		Rhs: call("Num", call("+", a, b)),
	}

	start := call("Add", call("Add", call("Num", num(1)), call("Num", num(2))), call("Num", num(3)))

	msgs, err := d.RunProgram([]ast.Command{
		mathDatatype(),
		{Kind: ast.CmdRewrite, Pos: pos, Rewrite: assoc},
		{Kind: ast.CmdRewrite, Pos: pos, Rewrite: fold},
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("t"), Expr: start},
		{Kind: ast.CmdRun, Pos: pos, Limit: 10},
		{Kind: ast.CmdExtract, Pos: pos, Expr: v("t")},
	})
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	require.Contains(t, last, "cost 1")
	require.Contains(t, last, "(Num 6)")
}

// TestUnionViaHeadAction mirrors spec.md §8 scenario 4.
func TestUnionViaHeadAction(t *testing.T) {
	d := New()
	t1expr := call("Num", num(1))
	t2expr := call("Num", num(2))

	msgs, err := d.RunProgram([]ast.Command{
		mathDatatype(),
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("t1"), Expr: t1expr},
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("t2"), Expr: t2expr},
		{Kind: ast.CmdRule, Pos: pos, Rule: ast.Rule{
			Body: nil, // trivially true: no facts to match
			Head: []ast.Action{ast.UnionAction(pos, v("t1"), v("t2"))},
		}},
		{Kind: ast.CmdRun, Pos: pos, Limit: 1},
		{Kind: ast.CmdCheck, Pos: pos, Fact: ast.EqFact(v("t1"), v("t2"))},
	})
	require.NoError(t, err)
	require.Equal(t, "Checked.", msgs[len(msgs)-1])
}

// TestQueryFormatsNamedBindings exercises SPEC_FULL.md §3's query-table
// formatting: matched tuples are rendered as symbol-named cells drawn from
// the compiled query's bindings, not bare positional values.
func TestQueryFormatsNamedBindings(t *testing.T) {
	d := New()
	msgs, err := d.RunProgram([]ast.Command{
		mathDatatype(),
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("t"), Expr: call("Num", num(7))},
		{Kind: ast.CmdQuery, Pos: pos, Query: []ast.Fact{ast.BareFact(call("Num", v("n")))}},
	})
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	require.Contains(t, last, "n=7")
}

// TestMergePolicy mirrors spec.md §8 scenario 5.
func TestMergePolicy(t *testing.T) {
	d := New()
	mathSort := value.Intern("Math")
	aVar := v("a")
	_ = aVar

	old := ast.VarExpr(pos, value.Intern("old"))
	newV := ast.VarExpr(pos, value.Intern("new"))
	merge := call("min", old, newV)

	msgs, err := d.RunProgram([]ast.Command{
		mathDatatype(),
		{Kind: ast.CmdFunction, Pos: pos, FunctionDecl: ast.FunctionDecl{
			Name:   value.Intern("f"),
			Schema: ast.Schema{Inputs: []value.Type{value.SortType(mathSort)}, Output: value.IntType()},
			Merge:  &merge,
		}},
		{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern("a"), Expr: call("Num", num(0))},
		{Kind: ast.CmdAction, Pos: pos, Action: ast.SetAction(pos, value.Intern("f"), []ast.Expr{v("a")}, num(5))},
		{Kind: ast.CmdAction, Pos: pos, Action: ast.SetAction(pos, value.Intern("f"), []ast.Expr{v("a")}, num(3))},
		{Kind: ast.CmdCheck, Pos: pos, Fact: ast.EqFact(call("f", v("a")), num(3))},
		{Kind: ast.CmdAction, Pos: pos, Action: ast.SetAction(pos, value.Intern("f"), []ast.Expr{v("a")}, num(7))},
		{Kind: ast.CmdCheck, Pos: pos, Fact: ast.EqFact(call("f", v("a")), num(3))},
	})
	require.NoError(t, err)
	require.Equal(t, "Checked.", msgs[len(msgs)-1])
}
