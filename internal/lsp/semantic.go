package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"

	"eggo/grammar"
)

// SemanticToken is one LSP semantic token entry; Line and StartChar are
// 0-based, TokenType/TokenModifiers index into the legend in handler.go.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(prog *grammar.Program) []SemanticToken {
	var tokens []SemanticToken
	for _, c := range prog.Commands {
		tokens = append(tokens, walkCommand(c)...)
	}
	return tokens
}

func walkCommand(c *grammar.Command) []SemanticToken {
	var tokens []SemanticToken
	switch {
	case c.Datatype != nil:
		tokens = append(tokens, makeToken(c.Pos, c.Datatype.Name, "type", 0))
		for _, v := range c.Datatype.Variants {
			tokens = append(tokens, makeToken(c.Pos, v.Name, "function", 0))
		}
	case c.Function != nil:
		tokens = append(tokens, makeToken(c.Pos, c.Function.Name, "function", 0))
	case c.Define != nil:
		tokens = append(tokens, makeToken(c.Pos, c.Define.Name, "variable", 1))
		tokens = append(tokens, walkExpr(c.Define.Expr)...)
	case c.Rewrite != nil:
		tokens = append(tokens, walkExpr(c.Rewrite.Lhs)...)
		tokens = append(tokens, walkExpr(c.Rewrite.Rhs)...)
	case c.Extract != nil:
		tokens = append(tokens, walkExpr(c.Extract.Expr)...)
	}
	return tokens
}

func walkExpr(e *grammar.SExpr) []SemanticToken {
	if e == nil {
		return nil
	}
	var tokens []SemanticToken
	switch {
	case e.Ident != "":
		tokens = append(tokens, makeToken(e.Pos, e.Ident, "variable", 0))
	case e.Int != "":
		tokens = append(tokens, makeToken(e.Pos, e.Int, "number", 0))
	case e.Rat != "":
		tokens = append(tokens, makeToken(e.Pos, e.Rat, "number", 0))
	case e.Call != nil:
		tokens = append(tokens, makeToken(e.Pos, e.Call.Op, "operator", 0))
		for _, a := range e.Call.Args {
			tokens = append(tokens, walkExpr(a)...)
		}
	}
	return tokens
}

func makeToken(pos lexer.Position, text, tokenType string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(len(text)),
		TokenType:      tokenTypeIndex(tokenType),
		TokenModifiers: modifiers,
	}
}

func tokenTypeIndex(name string) int {
	for i, t := range SemanticTokenTypes {
		if t == name {
			return i
		}
	}
	return 0
}
