// Package driver implements the program driver of spec.md §6: it dispatches
// the eleven command kinds to the e-graph, rule engine, extractor, and type
// checker, and turns each into the short human-readable status the original
// source's run_command returns.
package driver

import (
	"fmt"
	"sort"
	"strings"

	"eggo/internal/ast"
	"eggo/internal/egraph"
	"eggo/internal/errors"
	"eggo/internal/extract"
	"eggo/internal/join"
	"eggo/internal/query"
	"eggo/internal/rule"
	"eggo/internal/typecheck"
	"eggo/internal/value"
)

// Driver owns one program's full engine state (spec.md §5, "the e-graph
// owns all its state; no component outlives it").
type Driver struct {
	EGraph *egraph.EGraph
	Rules  *rule.Engine
	Check  *typecheck.Checker
}

func New() *Driver {
	e := egraph.New()
	return &Driver{
		EGraph: e,
		Rules:  rule.NewEngine(),
		Check:  typecheck.New(e),
	}
}

// RunProgram executes cmds in order. A command's non-fatal error becomes its
// own "Error: ..." status line and does not stop the program (rule-apply
// errors never reach here: the rule engine swallows them); a FatalConfig
// error aborts immediately (spec.md §7).
func (d *Driver) RunProgram(cmds []ast.Command) ([]string, error) {
	msgs := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		msg, err := d.RunCommand(cmd)
		if err != nil {
			if errors.IsFatal(err) {
				return msgs, err
			}
			msgs = append(msgs, fmt.Sprintf("Error: %s", err))
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// RunCommand dispatches a single command (spec.md §6's command table).
func (d *Driver) RunCommand(cmd ast.Command) (string, error) {
	switch cmd.Kind {
	case ast.CmdDatatype:
		return d.runDatatype(cmd)
	case ast.CmdFunction:
		return d.runFunction(cmd)
	case ast.CmdRule:
		return d.runRule(cmd)
	case ast.CmdRewrite:
		return d.runRewrite(cmd)
	case ast.CmdRun:
		return d.runRun(cmd)
	case ast.CmdExtract:
		return d.runExtract(cmd)
	case ast.CmdCheck:
		return d.runCheck(cmd)
	case ast.CmdAction:
		return d.runAction(cmd)
	case ast.CmdDefine:
		return d.runDefine(cmd)
	case ast.CmdClearRules:
		d.Rules.ClearRules()
		return "Clearing rules.", nil
	case ast.CmdQuery:
		return d.runQuery(cmd)
	default:
		return "", errors.Typef(&cmd.Pos, "unknown command kind")
	}
}

func (d *Driver) runDatatype(cmd ast.Command) (string, error) {
	if err := d.EGraph.DeclareSort(cmd.SortName); err != nil {
		return "", err
	}
	for _, variant := range cmd.Variants {
		if err := d.EGraph.DeclareConstructor(variant.Name, variant.Types, cmd.SortName); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Declared datatype %s.", cmd.SortName), nil
}

func (d *Driver) runFunction(cmd ast.Command) (string, error) {
	if err := d.EGraph.DeclareFunction(cmd.FunctionDecl); err != nil {
		return "", err
	}
	return fmt.Sprintf("Declared function %s.", cmd.FunctionDecl.Name), nil
}

func (d *Driver) runRule(cmd ast.Command) (string, error) {
	if errs := d.Check.CheckRule(cmd.Rule); len(errs) > 0 {
		return "", aggregate(errs)
	}
	name := rule.RuleName(cmd.Rule)
	if err := d.Rules.AddRule(name, cmd.Rule); err != nil {
		return "", err
	}
	return fmt.Sprintf("Declared rule %s.", name), nil
}

func (d *Driver) runRewrite(cmd ast.Command) (string, error) {
	desugared := rule.DesugarRewrite(cmd.Rewrite)
	if errs := d.Check.CheckRule(desugared); len(errs) > 0 {
		return "", aggregate(errs)
	}
	name := rule.RewriteName(cmd.Rewrite)
	if err := d.Rules.AddRule(name, desugared); err != nil {
		return "", err
	}
	return fmt.Sprintf("Declared rw %s.", name), nil
}

func (d *Driver) runRun(cmd ast.Command) (string, error) {
	if err := d.Rules.Run(d.EGraph, cmd.Limit); err != nil {
		return "", err
	}
	return fmt.Sprintf("Ran %d.", cmd.Limit), nil
}

func (d *Driver) runExtract(cmd ast.Command) (string, error) {
	if errs := d.Check.CheckExpr(cmd.Expr); len(errs) > 0 {
		return "", aggregate(errs)
	}
	val, err := d.EGraph.EvalExpr(nil, cmd.Expr)
	if err != nil {
		return "", err
	}
	if _, err := d.EGraph.Rebuild(); err != nil {
		return "", err
	}
	if !val.IsSortLike() {
		return "", errors.Typef(&cmd.Pos, "cannot extract a non-sort-like value %s", val)
	}
	x := extract.New(d.EGraph)
	cost, term, err := x.Extract(val.Id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Extracted with cost %d: %s", cost, term), nil
}

func (d *Driver) runCheck(cmd ast.Command) (string, error) {
	if err := d.EGraph.CheckFact(cmd.Fact); err != nil {
		return "", err
	}
	return "Checked.", nil
}

func (d *Driver) runAction(cmd ast.Command) (string, error) {
	if err := d.EGraph.EvalActions(nil, []ast.Action{cmd.Action}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Ran %s.", cmd.Action), nil
}

func (d *Driver) runDefine(cmd ast.Command) (string, error) {
	if errs := d.Check.CheckExpr(cmd.Expr); len(errs) > 0 {
		return "", aggregate(errs)
	}
	val, err := d.EGraph.EvalExpr(nil, cmd.Expr)
	if err != nil {
		return "", err
	}
	if err := d.EGraph.DefineGlobal(cmd.DefineName, val); err != nil {
		return "", err
	}
	return fmt.Sprintf("Defined %s.", cmd.DefineName), nil
}

func (d *Driver) runQuery(cmd ast.Command) (string, error) {
	q, err := query.Compile(cmd.Query)
	if err != nil {
		return "", err
	}

	var results [][]value.Value
	err = join.Run(d.EGraph, q, func(values []value.Value) {
		cp := append([]value.Value(nil), values...)
		results = append(results, cp)
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", factsString(cmd.Query))
	fmt.Fprintf(&b, "  Results: %s", formatResults(q, results))
	return b.String(), nil
}

func factsString(facts []ast.Fact) string {
	parts := make([]string, len(facts))
	for i, f := range facts {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// namedVar pairs a user-facing variable name with the column its bound
// value occupies in a join result row.
type namedVar struct {
	name     string
	varIndex int
}

// bindingNames picks out q.Bindings' user variables (skipping the
// compiler-internal "__group_N"/"_aux_N" symbols query.Compile introduces
// for fact-level and sub-expression bookkeeping), sorted by name so column
// order is deterministic across runs.
func bindingNames(q *query.Query) []namedVar {
	var names []namedVar
	for sym, term := range q.Bindings {
		if !term.IsVar {
			continue
		}
		name := sym.String()
		if strings.HasPrefix(name, "__group_") || strings.HasPrefix(name, "_aux_") {
			continue
		}
		names = append(names, namedVar{name: name, varIndex: term.VarIndex})
	}
	sort.Slice(names, func(i, j int) bool { return names[i].name < names[j].name })
	return names
}

// formatResults renders each result row as symbol-named cells drawn from
// q.Bindings (spec.md §4.5's compiled variable bindings), e.g. "(x=1 y=2)".
func formatResults(q *query.Query, results [][]value.Value) string {
	names := bindingNames(q)
	rows := make([]string, len(results))
	for i, row := range results {
		cells := make([]string, len(names))
		for j, nv := range names {
			cells[j] = fmt.Sprintf("%s=%s", nv.name, row[nv.varIndex])
		}
		rows[i] = "(" + strings.Join(cells, " ") + ")"
	}
	return "(" + strings.Join(rows, " ") + ")"
}

// aggregate folds several type-checking errors into one EggoError whose
// notes list each individual message (spec.md §4.9: "errors are aggregated").
func aggregate(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	out := errors.Typef(nil, "%d type error(s)", len(errs))
	out.Notes = msgs
	return out
}
