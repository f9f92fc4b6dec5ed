package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"eggo/internal/ast"
	"eggo/internal/driver"
	"eggo/internal/errors"
)

// convertParseError turns a participle parse error into a single diagnostic
// anchored at line 0 (participle errors don't carry a structured position we
// control the formatting of, so the caret-style detail stays in the CLI's
// stderr output; the LSP client just needs to know something is wrong).
func convertParseError(err error) []protocol.Diagnostic {
	return []protocol.Diagnostic{{
		Range:    zeroRange(),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("eggo-parser"),
		Message:  err.Error(),
	}}
}

func convertLowerError(err error) []protocol.Diagnostic {
	return []protocol.Diagnostic{{
		Range:    zeroRange(),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("eggo-lower"),
		Message:  err.Error(),
	}}
}

// runAndCollect runs every command through d, converting each failure into a
// diagnostic anchored at the failing command's position. A FatalConfig error
// stops the run early (it would abort the whole program in the CLI too).
func runAndCollect(d *driver.Driver, cmds []ast.Command) []protocol.Diagnostic {
	var diags []protocol.Diagnostic
	for _, cmd := range cmds {
		if _, err := d.RunCommand(cmd); err != nil {
			diags = append(diags, diagnosticFor(cmd.Pos, err))
			if errors.IsFatal(err) {
				break
			}
		}
	}
	return diags
}

func diagnosticFor(pos ast.Position, err error) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    rangeFor(pos),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("eggo"),
		Message:  err.Error(),
	}
}

func rangeFor(pos ast.Position) protocol.Range {
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + 1},
	}
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
