package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eggo/grammar"
	"eggo/internal/driver"
)

func TestConvertParseErrorProducesOneDiagnostic(t *testing.T) {
	_, err := grammar.ParseString("broken.eggo", `(define x`)
	require.Error(t, err)

	diags := convertParseError(err)
	require.Len(t, diags, 1)
	assert.Equal(t, "eggo-parser", *diags[0].Source)
}

func TestRunAndCollectReportsCommandPosition(t *testing.T) {
	prog, err := grammar.ParseString("bad.eggo", "(datatype Math (Num Int))\n  (check (= x 1))")
	require.NoError(t, err)

	cmds, err := grammar.Lower(prog, "bad.eggo")
	require.NoError(t, err)

	d := driver.New()
	diags := runAndCollect(d, cmds)
	require.Len(t, diags, 1)
	assert.Equal(t, "eggo", *diags[0].Source)
	// The failing check starts at line 2, column 3 (1-based); LSP ranges are 0-based.
	assert.Equal(t, uint32(1), diags[0].Range.Start.Line)
	assert.Equal(t, uint32(2), diags[0].Range.Start.Character)
}

func TestRunAndCollectEmptyForValidProgram(t *testing.T) {
	prog, err := grammar.ParseString("good.eggo", `
(datatype Math (Num Int))
(define x (Num 1))
(check (= x (Num 1)))
`)
	require.NoError(t, err)

	cmds, err := grammar.Lower(prog, "good.eggo")
	require.NoError(t, err)

	d := driver.New()
	diags := runAndCollect(d, cmds)
	assert.Empty(t, diags)
}
