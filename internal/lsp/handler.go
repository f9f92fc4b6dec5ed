// Package lsp adapts the teacher's tliron/glsp + tliron/commonlog language
// server to the engine in internal/driver (SPEC_FULL.md §2.4): it reparses a
// document on open/change, runs every command through a fresh driver, and
// reports the resulting errors as diagnostics. Only diagnostics and semantic
// tokens are implemented — no completion — so the server stays a thin
// consumer of the same EggoError list the CLI prints.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"eggo/grammar"
	"eggo/internal/driver"
)

// SemanticTokenTypes is the legend advertised to the client.
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"keyword",
	"number",
	"operator",
}

// SemanticTokenModifiers is the legend advertised to the client.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
}

// Handler implements the LSP server handlers for the eggo command language.
type Handler struct {
	mu       sync.RWMutex
	content  map[string]string
	programs map[string]*grammar.Program
}

func NewHandler() *Handler {
	return &Handler{
		content:  make(map[string]string),
		programs: make(map[string]*grammar.Program),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("eggo-lsp Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("eggo-lsp Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("eggo-lsp Shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	diags, err := h.reload(params.TextDocument.URI, params.TextDocument.Text)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if len(diags) > 0 {
		sendDiagnostics(ctx, params.TextDocument.URI, diags)
	}
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	diags, err := h.reload(params.TextDocument.URI, change.Text)
	if err != nil {
		return fmt.Errorf("failed to reload document: %w", err)
	}
	if len(diags) > 0 {
		sendDiagnostics(ctx, params.TextDocument.URI, diags)
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.programs, path)
	return nil
}

func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.RLock()
	prog := h.programs[path]
	h.mu.RUnlock()
	if prog == nil {
		return &protocol.SemanticTokens{}, nil
	}

	tokens := collectSemanticTokens(prog)
	var data []uint32
	var prevLine, prevStart uint32
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevStart
		} else {
			deltaStart = tok.StartChar
		}
		data = append(data, deltaLine, deltaStart, tok.Length, uint32(tok.TokenType), uint32(tok.TokenModifiers))
		prevLine, prevStart = tok.Line, tok.StartChar
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

// reload reparses and re-runs text, caching the parsed program for semantic
// tokens and returning diagnostics for whatever failed along the way.
func (h *Handler) reload(rawURI protocol.DocumentUri, text string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	prog, parseErr := grammar.ParseString(path, text)
	if parseErr != nil {
		return convertParseError(parseErr), nil
	}

	h.mu.Lock()
	h.programs[path] = prog
	h.mu.Unlock()

	cmds, err := grammar.Lower(prog, path)
	if err != nil {
		return convertLowerError(err), nil
	}

	d := driver.New()
	return runAndCollect(d, cmds), nil
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
