package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// EggoLexer tokenizes the s-expression command language of SPEC_FULL.md
// §2.3, in the stateful-rules style of the teacher's grammar.KansoLexer.
var EggoLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"DocComment", `;;;[^\n]*`, nil},
		{"Comment", `;[^\n]*`, nil},

		// Rational literals must be tried before plain integers and before
		// Ident (which doesn't include '/'), so "3/4" lexes as one token.
		{"Rational", `-?[0-9]+/[0-9]+`, nil},
		{"Integer", `-?[0-9]+`, nil},

		// Keyword arguments of a function declaration (":merge", ":default").
		{"Keyword", `:[a-zA-Z][a-zA-Z0-9_\-]*`, nil},

		{"Ident", `[a-zA-Z_+\-*<>=][a-zA-Z0-9_+\-*<>=!?]*`, nil},

		{"Punct", `[()]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
