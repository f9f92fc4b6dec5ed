package lsp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"eggo/internal/lsp"
)

func TestDidOpenReportsNoDiagnosticsForValidProgram(t *testing.T) {
	h := lsp.NewHandler()
	ctx := &glsp.Context{}

	src := `
(datatype Math (Num Int))
(define x (Num 1))
(check (= x (Num 1)))
`
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///tmp/valid.eggo",
			Text: src,
		},
	})
	require.NoError(t, err)
}

func TestSemanticTokensFullAfterOpen(t *testing.T) {
	h := lsp.NewHandler()
	ctx := &glsp.Context{}

	uri := protocol.DocumentUri("file:///tmp/tokens.eggo")
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  uri,
			Text: `(datatype Math (Num Int))`,
		},
	})
	require.NoError(t, err)

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	require.NotEmpty(t, tokens.Data)
}
