// Package ast defines the typed command stream that drives the engine
// (spec.md §6). It is the contract between the "external parser" collaborator
// (here, grammar) and the hard core (internal/driver and friends) — spec.md
// treats production of this stream as out of scope for the core, but the
// shape of the stream itself is part of the spec.
package ast

import (
	"fmt"
	"math/big"
	"strings"

	"eggo/internal/value"
)

// Position locates a node in source text, for diagnostics only — it plays
// no role in engine semantics.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Literal is the literal-value payload of an Expr leaf (spec.md §6: "Types
// of literals").
type Literal struct {
	IsUnit bool
	Int    int64
	Rat    *big.Rat
	// true if this literal was written as a rational (even "3/1"), so the
	// evaluator produces a Rational value rather than an Int.
	IsRational bool
}

func UnitLit() Literal             { return Literal{IsUnit: true} }
func IntLit(i int64) Literal       { return Literal{Int: i} }
func RationalLit(r *big.Rat) Literal {
	return Literal{Rat: new(big.Rat).Set(r), IsRational: true}
}

func (l Literal) ToValue() value.Value {
	switch {
	case l.IsUnit:
		return value.UnitValue()
	case l.IsRational:
		return value.RationalValue(l.Rat)
	default:
		return value.IntValue(l.Int)
	}
}

func (l Literal) String() string {
	switch {
	case l.IsUnit:
		return "()"
	case l.IsRational:
		return l.Rat.RatString()
	default:
		return fmt.Sprintf("%d", l.Int)
	}
}

// Expr is the expression language of spec.md §4.3: Var, Lit, or Call.
type Expr struct {
	Pos Position

	IsVar  bool
	Var    value.Symbol
	IsLit  bool
	Lit    Literal
	// Call: IsVar and IsLit both false.
	Op   value.Symbol
	Args []Expr
}

func VarExpr(pos Position, sym value.Symbol) Expr {
	return Expr{Pos: pos, IsVar: true, Var: sym}
}

func LitExpr(pos Position, lit Literal) Expr {
	return Expr{Pos: pos, IsLit: true, Lit: lit}
}

func CallExpr(pos Position, op value.Symbol, args []Expr) Expr {
	return Expr{Pos: pos, Op: op, Args: args}
}

func (e Expr) IsCall() bool { return !e.IsVar && !e.IsLit }

func (e Expr) String() string {
	switch {
	case e.IsVar:
		return e.Var.String()
	case e.IsLit:
		return e.Lit.String()
	default:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		if len(parts) == 0 {
			return fmt.Sprintf("(%s)", e.Op)
		}
		return fmt.Sprintf("(%s %s)", e.Op, strings.Join(parts, " "))
	}
}

// Fact is a query body element (spec.md §4.5): an equality across several
// expressions, or a single anchoring expression.
type Fact struct {
	// Exprs holds >= 2 expressions when this is an Eq fact; exactly 1 when it
	// is a bare Fact.
	Exprs []Expr
	IsEq  bool
}

func EqFact(exprs ...Expr) Fact { return Fact{Exprs: exprs, IsEq: true} }
func BareFact(e Expr) Fact      { return Fact{Exprs: []Expr{e}} }

func (f Fact) String() string {
	parts := make([]string, len(f.Exprs))
	for i, e := range f.Exprs {
		parts[i] = e.String()
	}
	if f.IsEq {
		return fmt.Sprintf("(= %s)", strings.Join(parts, " "))
	}
	return parts[0]
}

// ActionKind distinguishes the five head-action forms of spec.md §4.4.
type ActionKind int

const (
	ActionExpr ActionKind = iota
	ActionDefine
	ActionSet
	ActionUnion
	ActionPanic
)

// Action is one element of a rule head or a top-level Action command.
type Action struct {
	Kind ActionKind
	Pos  Position

	// ActionExpr, ActionUnion (A operand)
	Expr Expr
	// ActionDefine
	Name value.Symbol
	// ActionSet
	Fn   value.Symbol
	Args []Expr
	// ActionUnion: B operand reuses Expr2; ActionSet: the value expr.
	Expr2 Expr
	// ActionPanic
	Message string
}

func ExprAction(pos Position, e Expr) Action {
	return Action{Kind: ActionExpr, Pos: pos, Expr: e}
}

func DefineAction(pos Position, name value.Symbol, e Expr) Action {
	return Action{Kind: ActionDefine, Pos: pos, Name: name, Expr: e}
}

func SetAction(pos Position, fn value.Symbol, args []Expr, val Expr) Action {
	return Action{Kind: ActionSet, Pos: pos, Fn: fn, Args: args, Expr2: val}
}

func UnionAction(pos Position, a, b Expr) Action {
	return Action{Kind: ActionUnion, Pos: pos, Expr: a, Expr2: b}
}

func PanicAction(pos Position, msg string) Action {
	return Action{Kind: ActionPanic, Pos: pos, Message: msg}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionExpr:
		return a.Expr.String()
	case ActionDefine:
		return fmt.Sprintf("(define %s %s)", a.Name, a.Expr)
	case ActionSet:
		parts := make([]string, len(a.Args))
		for i, e := range a.Args {
			parts[i] = e.String()
		}
		return fmt.Sprintf("(set (%s %s) %s)", a.Fn, strings.Join(parts, " "), a.Expr2)
	case ActionUnion:
		return fmt.Sprintf("(union %s %s)", a.Expr, a.Expr2)
	case ActionPanic:
		return fmt.Sprintf("(panic %q)", a.Message)
	default:
		return "<bad-action>"
	}
}

// Schema is a function's input/output type signature (spec.md §3).
type Schema struct {
	Inputs []value.Type
	Output value.Type
}

func (s Schema) String() string {
	parts := make([]string, len(s.Inputs))
	for i, t := range s.Inputs {
		parts[i] = t.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, " "), s.Output)
}

// FunctionDecl is a user or constructor function declaration (spec.md §3).
type FunctionDecl struct {
	Name    value.Symbol
	Schema  Schema
	Merge   *Expr
	Default *Expr
}

// IsConstructorLike reports whether a declaration is a bare constructor:
// no merge, no default, a sort-like output.
func (d FunctionDecl) IsConstructorLike() bool {
	return d.Merge == nil && d.Default == nil && d.Schema.Output.IsSortLike()
}

// Variant is one constructor alternative of a Datatype command.
type Variant struct {
	Name  value.Symbol
	Types []value.Type
}

// Rule is a compiled-pending rule: a conjunctive body and a head action list.
type Rule struct {
	Body []Fact
	Head []Action
}

// Rewrite desugars to a Rule per spec.md §4.7.
type Rewrite struct {
	Lhs Expr
	Rhs Expr
}

func (r Rewrite) String() string { return fmt.Sprintf("%s -> %s", r.Lhs, r.Rhs) }

// CommandKind enumerates the eleven commands of spec.md §6.
type CommandKind int

const (
	CmdDatatype CommandKind = iota
	CmdFunction
	CmdRule
	CmdRewrite
	CmdRun
	CmdExtract
	CmdCheck
	CmdAction
	CmdDefine
	CmdClearRules
	CmdQuery
)

// Command is a single top-level program element.
type Command struct {
	Kind CommandKind
	Pos  Position

	// CmdDatatype
	SortName value.Symbol
	Variants []Variant
	// CmdFunction
	FunctionDecl FunctionDecl
	// CmdRule
	Rule Rule
	// CmdRewrite
	Rewrite Rewrite
	// CmdRun
	Limit int
	// CmdExtract, CmdDefine: Expr
	Expr Expr
	// CmdCheck
	Fact Fact
	// CmdAction
	Action Action
	// CmdDefine
	DefineName value.Symbol
	// CmdQuery
	Query []Fact
}
