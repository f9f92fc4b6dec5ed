// Package rule implements the rule engine of spec.md §4.7: compiled rules
// paired with their head actions, and the two-phase search-then-apply loop
// that preserves read-before-write semantics within a saturation round.
// Grounded on the original source's Rule/step_rules/run_rules.
package rule

import (
	"fmt"

	"eggo/internal/ast"
	"eggo/internal/egraph"
	"eggo/internal/join"
	"eggo/internal/query"
	"eggo/internal/value"
)

// rewriteVar names the fresh variable a Rewrite desugars through.
const rewriteVar = "__rewrite_var"

// Rule is a compiled rule: a conjunctive query and the actions to run for
// each of its matches.
type Rule struct {
	Query *query.Query
	Head  []ast.Action
}

// Engine owns the named rule set of one program (spec.md §5, "no component
// outlives" the owning e-graph).
type Engine struct {
	rules map[value.Symbol]*Rule
}

func NewEngine() *Engine {
	return &Engine{rules: make(map[value.Symbol]*Rule)}
}

// AddRule compiles body into a Query and stores it under name. Re-adding the
// same name replaces the previous rule — rule names are derived from the
// rule's own text by the driver, so a collision means the identical rule was
// already declared.
func (en *Engine) AddRule(name value.Symbol, r ast.Rule) error {
	q, err := query.Compile(r.Body)
	if err != nil {
		return err
	}
	en.rules[name] = &Rule{Query: q, Head: r.Head}
	return nil
}

// DesugarRewrite implements spec.md §4.7's rewrite desugaring: a fresh
// variable r is equated with the left-hand side in the body, and unioned
// with the right-hand side in the head.
func DesugarRewrite(rw ast.Rewrite) ast.Rule {
	r := value.Intern(rewriteVar)
	rVar := ast.VarExpr(rw.Lhs.Pos, r)
	return ast.Rule{
		Body: []ast.Fact{ast.EqFact(rVar, rw.Lhs)},
		Head: []ast.Action{ast.UnionAction(rw.Lhs.Pos, rVar, rw.Rhs)},
	}
}

// AddRewrite desugars rw into a rule per spec.md §4.7.
func (en *Engine) AddRewrite(name value.Symbol, rw ast.Rewrite) error {
	return en.AddRule(name, DesugarRewrite(rw))
}

// ClearRules drops every stored rule (spec.md §6, "ClearRules").
func (en *Engine) ClearRules() {
	en.rules = make(map[value.Symbol]*Rule)
}

// RuleName derives the same kind of stable, human-readable rule name the
// original source's add_rule uses: the textual rendering of the rule.
func RuleName(r ast.Rule) value.Symbol {
	return value.Intern(fmt.Sprintf("%v", r))
}

// RewriteName derives a rule name for a desugared rewrite.
func RewriteName(rw ast.Rewrite) value.Symbol {
	return value.Intern(fmt.Sprintf("%s -> %s", rw.Lhs, rw.Rhs))
}

// Step runs one search-then-apply round over e (spec.md §4.7). The search
// phase collects every rule's matching substitutions without mutating e;
// the apply phase then runs eval_actions for each, swallowing per-match
// failures (best-effort firing).
func (en *Engine) Step(e *egraph.EGraph) error {
	type pending struct {
		head    []ast.Action
		substs  []egraph.Subst
	}

	searched := make([]pending, 0, len(en.rules))
	for _, r := range en.rules {
		var substs []egraph.Subst
		err := join.Run(e, r.Query, func(values []value.Value) {
			subst := make(egraph.Subst, len(r.Query.Bindings))
			for sym, term := range r.Query.Bindings {
				if term.IsVar {
					subst[sym] = values[term.VarIndex]
				} else {
					subst[sym] = term.Val
				}
			}
			substs = append(substs, subst)
		})
		if err != nil {
			return err
		}
		searched = append(searched, pending{head: r.Head, substs: substs})
	}

	for _, p := range searched {
		for _, subst := range p.substs {
			_ = e.EvalActions(subst, p.head) // rule applications are best-effort
		}
	}
	return nil
}

// Run iterates Step then Rebuild limit times (spec.md §6, "Run").
func (en *Engine) Run(e *egraph.EGraph, limit int) error {
	for i := 0; i < limit; i++ {
		if err := en.Step(e); err != nil {
			return err
		}
		if _, err := e.Rebuild(); err != nil {
			return err
		}
	}
	return nil
}
