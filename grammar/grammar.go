// Package grammar is the external parser collaborator of SPEC_FULL.md §2.3:
// an s-expression command language for the engine in internal/driver. It
// mirrors the teacher's grammar package (participle/v2 struct-tag grammar,
// a stateful lexer, a caret-style parse-error reporter, and String methods
// that print a Program back to source) but
// is not part of the hard core — internal/ast's Command stream is the real
// contract, and this package only produces it.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is a whole source file: a sequence of top-level commands.
type Program struct {
	Pos      lexer.Position
	Commands []*Command `@@*`
}

// Command is one of the eleven command shapes of spec.md §6.
type Command struct {
	Pos lexer.Position

	Datatype   *DatatypeCmd   `(  @@`
	Function   *FunctionCmd   ` | @@`
	Rule       *RuleCmd       ` | @@`
	Rewrite    *RewriteCmd    ` | @@`
	Run        *RunCmd        ` | @@`
	Extract    *ExtractCmd    ` | @@`
	Check      *CheckCmd      ` | @@`
	ActionCmd  *ActionCmd     ` | @@`
	Define     *DefineCmd     ` | @@`
	ClearRules *ClearRulesCmd ` | @@`
	Query      *QueryCmd      ` | @@ )`
}

// TypeRef is a type annotation: Unit, Int, Rational, or a declared sort name.
type TypeRef struct {
	Pos  lexer.Position
	Name string `@("Unit" | "Int" | "Rational" | Ident)`
}

// DatatypeCmd: (datatype Name (Variant Type...) ...)
type DatatypeCmd struct {
	Name     string     `"(" "datatype" @Ident`
	Variants []*Variant `@@* ")"`
}

// Variant is one constructor alternative of a datatype.
type Variant struct {
	Name  string     `"(" @Ident`
	Types []*TypeRef `@@* ")"`
}

// FunctionCmd: (function Name (InputTypes...) OutputType [:merge E] [:default E])
type FunctionCmd struct {
	Name    string     `"(" "function" @Ident`
	Inputs  []*TypeRef `"(" @@* ")"`
	Output  *TypeRef   `@@`
	Merge   *SExpr      `( ":merge" @@ )?`
	Default *SExpr      `( ":default" @@ )? ")"`
}

// RuleCmd: (rule (Fact...) (Action...))
type RuleCmd struct {
	Body []*Fact       `"(" "rule" "(" @@* ")"`
	Head []*ActionNode `"(" @@* ")" ")"`
}

// RewriteCmd: (rewrite Lhs Rhs)
type RewriteCmd struct {
	Lhs *SExpr `"(" "rewrite" @@`
	Rhs *SExpr `@@ ")"`
}

// RunCmd: (run N)
type RunCmd struct {
	Limit string `"(" "run" @Integer ")"`
}

// ExtractCmd: (extract Expr)
type ExtractCmd struct {
	Expr *SExpr `"(" "extract" @@ ")"`
}

// CheckCmd: (check Fact)
type CheckCmd struct {
	Fact *Fact `"(" "check" @@ ")"`
}

// ActionCmd: (action Action)
type ActionCmd struct {
	Action *ActionNode `"(" "action" @@ ")"`
}

// DefineCmd: (define Name Expr)
type DefineCmd struct {
	Name string `"(" "define" @Ident`
	Expr *SExpr `@@ ")"`
}

// ClearRulesCmd: (clear-rules)
type ClearRulesCmd struct {
	Marker string `"(" @"clear-rules" ")"`
}

// QueryCmd: (query Fact...)
type QueryCmd struct {
	Facts []*Fact `"(" "query" @@* ")"`
}

// Fact is a query/rule-body element: an equality or a bare expression.
type Fact struct {
	Eq   *EqFact `(  @@`
	Bare *SExpr  ` | @@ )`
}

// EqFact: (= E E E...)
type EqFact struct {
	Exprs []*SExpr `"(" "=" @@ @@+ ")"`
}

// ActionNode is one head-action element.
type ActionNode struct {
	Define *DefineAction `(  @@`
	Set    *SetAction    ` | @@`
	Union  *UnionAction  ` | @@`
	Panic  *PanicAction  ` | @@`
	Expr   *SExpr        ` | @@ )`
}

// DefineAction: (define Name Expr)
type DefineAction struct {
	Name string `"(" "define" @Ident`
	Expr *SExpr `@@ ")"`
}

// SetAction: (set (Fn Arg...) Expr)
type SetAction struct {
	Fn    string   `"(" "set" "(" @Ident`
	Args  []*SExpr `@@* ")"`
	Value *SExpr   `@@ ")"`
}

// UnionAction: (union E E)
type UnionAction struct {
	A *SExpr `"(" "union" @@`
	B *SExpr `@@ ")"`
}

// PanicAction: (panic Message), where Message is a single identifier token;
// quoted strings are not lexed.
type PanicAction struct {
	Message string `"(" "panic" @Ident ")"`
}

// SExpr is the expression grammar: a variable, an integer or rational
// literal, the unit literal "()", or a function call.
type SExpr struct {
	Pos lexer.Position

	Unit  bool      `(  @( "(" ")" )`
	Ident string    ` | @Ident`
	Int   string    ` | @Integer`
	Rat   string     ` | @Rational`
	Call  *CallExpr ` | @@ )`
}

// CallExpr: (Op Arg...)
type CallExpr struct {
	Op   string   `"(" @Ident`
	Args []*SExpr `@@* ")"`
}
