package grammar

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"eggo/internal/ast"
	"eggo/internal/errors"
	"eggo/internal/value"
)

// posOf adapts a participle lexer.Position into an ast.Position.
func posOf(filename string, line, col int) ast.Position {
	return ast.Position{Filename: filename, Line: line, Column: col}
}

// Lower converts a parsed Program into the typed command stream
// internal/driver consumes (spec.md §6). filename is used only for
// diagnostics attached to the resulting ast.Position values.
func Lower(p *Program, filename string) ([]ast.Command, error) {
	cmds := make([]ast.Command, 0, len(p.Commands))
	for _, c := range p.Commands {
		cmd, err := lowerCommand(c, filename)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func lowerCommand(c *Command, fn string) (ast.Command, error) {
	pos := posOf(fn, c.Pos.Line, c.Pos.Column)
	switch {
	case c.Datatype != nil:
		variants := make([]ast.Variant, len(c.Datatype.Variants))
		for i, v := range c.Datatype.Variants {
			types, err := lowerTypes(v.Types)
			if err != nil {
				return ast.Command{}, err
			}
			variants[i] = ast.Variant{Name: value.Intern(v.Name), Types: types}
		}
		return ast.Command{
			Kind:     ast.CmdDatatype,
			Pos:      pos,
			SortName: value.Intern(c.Datatype.Name),
			Variants: variants,
		}, nil

	case c.Function != nil:
		decl, err := lowerFunction(c.Function, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdFunction, Pos: pos, FunctionDecl: decl}, nil

	case c.Rule != nil:
		body := make([]ast.Fact, len(c.Rule.Body))
		for i, f := range c.Rule.Body {
			fact, err := lowerFact(f, fn)
			if err != nil {
				return ast.Command{}, err
			}
			body[i] = fact
		}
		head := make([]ast.Action, len(c.Rule.Head))
		for i, a := range c.Rule.Head {
			act, err := lowerAction(a, fn)
			if err != nil {
				return ast.Command{}, err
			}
			head[i] = act
		}
		return ast.Command{Kind: ast.CmdRule, Pos: pos, Rule: ast.Rule{Body: body, Head: head}}, nil

	case c.Rewrite != nil:
		lhs, err := lowerExpr(c.Rewrite.Lhs, fn)
		if err != nil {
			return ast.Command{}, err
		}
		rhs, err := lowerExpr(c.Rewrite.Rhs, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdRewrite, Pos: pos, Rewrite: ast.Rewrite{Lhs: lhs, Rhs: rhs}}, nil

	case c.Run != nil:
		limit, err := strconv.Atoi(c.Run.Limit)
		if err != nil {
			return ast.Command{}, errors.Parsef(&pos, "bad run limit %q: %v", c.Run.Limit, err)
		}
		return ast.Command{Kind: ast.CmdRun, Pos: pos, Limit: limit}, nil

	case c.Extract != nil:
		e, err := lowerExpr(c.Extract.Expr, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdExtract, Pos: pos, Expr: e}, nil

	case c.Check != nil:
		fact, err := lowerFact(c.Check.Fact, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdCheck, Pos: pos, Fact: fact}, nil

	case c.ActionCmd != nil:
		act, err := lowerAction(c.ActionCmd.Action, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdAction, Pos: pos, Action: act}, nil

	case c.Define != nil:
		e, err := lowerExpr(c.Define.Expr, fn)
		if err != nil {
			return ast.Command{}, err
		}
		return ast.Command{Kind: ast.CmdDefine, Pos: pos, DefineName: value.Intern(c.Define.Name), Expr: e}, nil

	case c.ClearRules != nil:
		return ast.Command{Kind: ast.CmdClearRules, Pos: pos}, nil

	case c.Query != nil:
		facts := make([]ast.Fact, len(c.Query.Facts))
		for i, f := range c.Query.Facts {
			fact, err := lowerFact(f, fn)
			if err != nil {
				return ast.Command{}, err
			}
			facts[i] = fact
		}
		return ast.Command{Kind: ast.CmdQuery, Pos: pos, Query: facts}, nil

	default:
		return ast.Command{}, errors.Parsef(&pos, "empty command")
	}
}

func lowerTypes(refs []*TypeRef) ([]value.Type, error) {
	out := make([]value.Type, len(refs))
	for i, r := range refs {
		out[i] = lowerType(r)
	}
	return out, nil
}

func lowerType(r *TypeRef) value.Type {
	switch r.Name {
	case "Unit":
		return value.Unit()
	case "Int":
		return value.IntType()
	case "Rational":
		return value.RationalType()
	default:
		return value.SortType(value.Intern(r.Name))
	}
}

func lowerFunction(f *FunctionCmd, fn string) (ast.FunctionDecl, error) {
	inputs, err := lowerTypes(f.Inputs)
	if err != nil {
		return ast.FunctionDecl{}, err
	}
	decl := ast.FunctionDecl{
		Name:   value.Intern(f.Name),
		Schema: ast.Schema{Inputs: inputs, Output: lowerType(f.Output)},
	}
	if f.Merge != nil {
		e, err := lowerExpr(f.Merge, fn)
		if err != nil {
			return ast.FunctionDecl{}, err
		}
		decl.Merge = &e
	}
	if f.Default != nil {
		e, err := lowerExpr(f.Default, fn)
		if err != nil {
			return ast.FunctionDecl{}, err
		}
		decl.Default = &e
	}
	return decl, nil
}

func lowerFact(f *Fact, fn string) (ast.Fact, error) {
	if f.Eq != nil {
		exprs := make([]ast.Expr, len(f.Eq.Exprs))
		for i, e := range f.Eq.Exprs {
			le, err := lowerExpr(e, fn)
			if err != nil {
				return ast.Fact{}, err
			}
			exprs[i] = le
		}
		return ast.EqFact(exprs...), nil
	}
	e, err := lowerExpr(f.Bare, fn)
	if err != nil {
		return ast.Fact{}, err
	}
	return ast.BareFact(e), nil
}

func lowerAction(a *ActionNode, fn string) (ast.Action, error) {
	switch {
	case a.Define != nil:
		e, err := lowerExpr(a.Define.Expr, fn)
		if err != nil {
			return ast.Action{}, err
		}
		return ast.DefineAction(posOf(fn, 0, 0), value.Intern(a.Define.Name), e), nil
	case a.Set != nil:
		args := make([]ast.Expr, len(a.Set.Args))
		for i, arg := range a.Set.Args {
			le, err := lowerExpr(arg, fn)
			if err != nil {
				return ast.Action{}, err
			}
			args[i] = le
		}
		val, err := lowerExpr(a.Set.Value, fn)
		if err != nil {
			return ast.Action{}, err
		}
		return ast.SetAction(posOf(fn, 0, 0), value.Intern(a.Set.Fn), args, val), nil
	case a.Union != nil:
		left, err := lowerExpr(a.Union.A, fn)
		if err != nil {
			return ast.Action{}, err
		}
		right, err := lowerExpr(a.Union.B, fn)
		if err != nil {
			return ast.Action{}, err
		}
		return ast.UnionAction(posOf(fn, 0, 0), left, right), nil
	case a.Panic != nil:
		return ast.PanicAction(posOf(fn, 0, 0), a.Panic.Message), nil
	default:
		e, err := lowerExpr(a.Expr, fn)
		if err != nil {
			return ast.Action{}, err
		}
		return ast.ExprAction(posOf(fn, 0, 0), e), nil
	}
}

func lowerExpr(e *SExpr, fn string) (ast.Expr, error) {
	pos := posOf(fn, e.Pos.Line, e.Pos.Column)
	switch {
	case e.Unit:
		return ast.LitExpr(pos, ast.UnitLit()), nil
	case e.Int != "":
		n, err := strconv.ParseInt(e.Int, 10, 64)
		if err != nil {
			return ast.Expr{}, errors.Parsef(&pos, "bad integer literal %q: %v", e.Int, err)
		}
		return ast.LitExpr(pos, ast.IntLit(n)), nil
	case e.Rat != "":
		parts := strings.SplitN(e.Rat, "/", 2)
		if len(parts) != 2 {
			return ast.Expr{}, errors.Parsef(&pos, "bad rational literal %q", e.Rat)
		}
		r, ok := new(big.Rat).SetString(fmt.Sprintf("%s/%s", parts[0], parts[1]))
		if !ok {
			return ast.Expr{}, errors.Parsef(&pos, "bad rational literal %q", e.Rat)
		}
		return ast.LitExpr(pos, ast.RationalLit(r)), nil
	case e.Call != nil:
		args := make([]ast.Expr, len(e.Call.Args))
		for i, a := range e.Call.Args {
			le, err := lowerExpr(a, fn)
			if err != nil {
				return ast.Expr{}, err
			}
			args[i] = le
		}
		return ast.CallExpr(pos, value.Intern(e.Call.Op), args), nil
	default:
		return ast.VarExpr(pos, value.Intern(e.Ident)), nil
	}
}
