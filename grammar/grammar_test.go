package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggo/grammar"
	"eggo/internal/ast"
)

// TestParseIntegerArithmetic mirrors spec.md §8 scenario 1, parsed from
// surface syntax rather than built directly as an ast.Command slice.
func TestParseIntegerArithmetic(t *testing.T) {
	src := `
(define x (+ 1 2))
(check (= x 3))
`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)
	require.Len(t, prog.Commands, 2)

	cmds, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, ast.CmdDefine, cmds[0].Kind)
	assert.Equal(t, "x", cmds[0].DefineName.String())
	assert.True(t, cmds[1].Fact.IsEq)
}

// TestParseCommutativityRewrite mirrors spec.md §8 scenario 2.
func TestParseCommutativityRewrite(t *testing.T) {
	src := `
(datatype Math
  (Num Int)
  (Add Math Math))
(rewrite (Add a b) (Add b a))
(define t (Add (Num 1) (Num 2)))
(run 10)
(check (= t (Add (Num 2) (Num 1))))
`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)
	require.Len(t, prog.Commands, 5)

	cmds, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	require.Len(t, cmds, 5)

	assert.Equal(t, ast.CmdDatatype, cmds[0].Kind)
	assert.Len(t, cmds[0].Variants, 2)
	assert.Equal(t, "Num", cmds[0].Variants[0].Name.String())

	assert.Equal(t, ast.CmdRewrite, cmds[1].Kind)
	assert.Equal(t, "Add", cmds[1].Rewrite.Lhs.Op.String())

	assert.Equal(t, ast.CmdRun, cmds[3].Kind)
	assert.Equal(t, 10, cmds[3].Limit)
}

// TestParseMergePolicyFunction mirrors the :merge/:default surface of
// spec.md §8 scenario 5.
func TestParseMergePolicyFunction(t *testing.T) {
	src := `
(datatype Math (Num Int))
(function f (Math) Int :merge (min old new))
(action (set (f (Num 0)) 5))
`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)

	cmds, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	require.Len(t, cmds, 3)

	fn := cmds[1].FunctionDecl
	assert.Equal(t, "f", fn.Name.String())
	require.NotNil(t, fn.Merge)
	assert.Equal(t, "min", fn.Merge.Op.String())

	assert.Equal(t, ast.CmdAction, cmds[2].Kind)
	assert.Equal(t, ast.ActionSet, cmds[2].Action.Kind)
}

// TestParseRationalLiteral exercises the rational-literal lexing rule
// (the `3/4` surface form) noted in SPEC_FULL.md §3.
func TestParseRationalLiteral(t *testing.T) {
	src := `(define r 3/4)`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)

	cmds, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.True(t, cmds[0].Expr.IsLit)
	assert.True(t, cmds[0].Expr.Lit.IsRational)
	assert.Equal(t, "3/4", cmds[0].Expr.Lit.String())
}

// TestParseClearRulesAndQuery exercises the remaining two command shapes.
func TestParseClearRulesAndQuery(t *testing.T) {
	src := `
(datatype Math (Num Int))
(query (Num x))
(clear-rules)
`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)

	cmds, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, ast.CmdQuery, cmds[1].Kind)
	assert.Equal(t, ast.CmdClearRules, cmds[2].Kind)
}

// TestParseSyntaxErrorReturnsErr checks that a malformed program fails to
// parse rather than silently producing a partial result.
func TestParseSyntaxErrorReturnsErr(t *testing.T) {
	_, err := grammar.ParseString("test.eggo", `(define x`)
	assert.Error(t, err)
}

// TestPrinterRoundTripsCommands checks that Printer output re-parses to an
// equivalent command stream.
func TestPrinterRoundTripsCommands(t *testing.T) {
	src := `(datatype Math (Num Int) (Add Math Math))`
	prog, err := grammar.ParseString("test.eggo", src)
	require.NoError(t, err)

	printed := prog.String()
	reparsed, err := grammar.ParseString("test.eggo", printed)
	require.NoError(t, err)

	cmds1, err := grammar.Lower(prog, "test.eggo")
	require.NoError(t, err)
	cmds2, err := grammar.Lower(reparsed, "test.eggo")
	require.NoError(t, err)

	require.Len(t, cmds2, len(cmds1))
	assert.Equal(t, cmds1[0].SortName, cmds2[0].SortName)
	assert.Equal(t, len(cmds1[0].Variants), len(cmds2[0].Variants))
}
