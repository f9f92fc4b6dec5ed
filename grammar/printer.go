package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// String renders p back to surface syntax, one command per line.
func (p *Program) String() string {
	var b strings.Builder
	for _, c := range p.Commands {
		b.WriteString(c.StringWithIndent(0))
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Command) StringWithIndent(level int) string {
	switch {
	case c.Datatype != nil:
		return c.Datatype.StringWithIndent(level)
	case c.Function != nil:
		return c.Function.StringWithIndent(level)
	case c.Rule != nil:
		return c.Rule.StringWithIndent(level)
	case c.Rewrite != nil:
		return c.Rewrite.StringWithIndent(level)
	case c.Run != nil:
		return fmt.Sprintf("%s(run %s)", indent(level), c.Run.Limit)
	case c.Extract != nil:
		return fmt.Sprintf("%s(extract %s)", indent(level), c.Extract.Expr)
	case c.Check != nil:
		return fmt.Sprintf("%s(check %s)", indent(level), c.Check.Fact)
	case c.ActionCmd != nil:
		return fmt.Sprintf("%s(action %s)", indent(level), c.ActionCmd.Action)
	case c.Define != nil:
		return fmt.Sprintf("%s(define %s %s)", indent(level), c.Define.Name, c.Define.Expr)
	case c.ClearRules != nil:
		return fmt.Sprintf("%s(clear-rules)", indent(level))
	case c.Query != nil:
		return c.Query.StringWithIndent(level)
	default:
		return ""
	}
}

func (d *DatatypeCmd) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(datatype %s", indent(level), d.Name)
	for _, v := range d.Variants {
		fmt.Fprintf(&b, "\n%s%s", indent(level+1), v.String())
	}
	b.WriteString(")")
	return b.String()
}

func (v *Variant) String() string {
	var parts []string
	for _, t := range v.Types {
		parts = append(parts, t.Name)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("(%s)", v.Name)
	}
	return fmt.Sprintf("(%s %s)", v.Name, strings.Join(parts, " "))
}

func (f *FunctionCmd) StringWithIndent(level int) string {
	var inputs []string
	for _, t := range f.Inputs {
		inputs = append(inputs, t.Name)
	}
	s := fmt.Sprintf("%s(function %s (%s) %s", indent(level), f.Name, strings.Join(inputs, " "), f.Output.Name)
	if f.Merge != nil {
		s += fmt.Sprintf(" :merge %s", f.Merge)
	}
	if f.Default != nil {
		s += fmt.Sprintf(" :default %s", f.Default)
	}
	return s + ")"
}

func (r *RuleCmd) StringWithIndent(level int) string {
	var body, head []string
	for _, f := range r.Body {
		body = append(body, f.String())
	}
	for _, a := range r.Head {
		head = append(head, a.String())
	}
	return fmt.Sprintf("%s(rule (%s) (%s))", indent(level), strings.Join(body, " "), strings.Join(head, " "))
}

func (r *RewriteCmd) StringWithIndent(level int) string {
	return fmt.Sprintf("%s(rewrite %s %s)", indent(level), r.Lhs, r.Rhs)
}

func (q *QueryCmd) StringWithIndent(level int) string {
	var parts []string
	for _, f := range q.Facts {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s(query %s)", indent(level), strings.Join(parts, " "))
}

func (f *Fact) String() string {
	if f.Eq != nil {
		return f.Eq.String()
	}
	return f.Bare.String()
}

func (e *EqFact) String() string {
	var parts []string
	for _, x := range e.Exprs {
		parts = append(parts, x.String())
	}
	return fmt.Sprintf("(= %s)", strings.Join(parts, " "))
}

func (a *ActionNode) String() string {
	switch {
	case a.Define != nil:
		return fmt.Sprintf("(define %s %s)", a.Define.Name, a.Define.Expr)
	case a.Set != nil:
		var args []string
		for _, x := range a.Set.Args {
			args = append(args, x.String())
		}
		return fmt.Sprintf("(set (%s %s) %s)", a.Set.Fn, strings.Join(args, " "), a.Set.Value)
	case a.Union != nil:
		return fmt.Sprintf("(union %s %s)", a.Union.A, a.Union.B)
	case a.Panic != nil:
		return fmt.Sprintf("(panic %s)", a.Panic.Message)
	default:
		return a.Expr.String()
	}
}

func (e *SExpr) String() string {
	switch {
	case e.Unit:
		return "()"
	case e.Ident != "":
		return e.Ident
	case e.Int != "":
		return e.Int
	case e.Rat != "":
		return e.Rat
	case e.Call != nil:
		var args []string
		for _, a := range e.Call.Args {
			args = append(args, a.String())
		}
		if len(args) == 0 {
			return fmt.Sprintf("(%s)", e.Call.Op)
		}
		return fmt.Sprintf("(%s %s)", e.Call.Op, strings.Join(args, " "))
	default:
		return ""
	}
}
