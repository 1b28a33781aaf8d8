package engine

import (
	"strings"

	"github.com/aarroyoc/esgueva/pkg/term"
	"github.com/aarroyoc/esgueva/pkg/unify"
)

// VariablesIn collects the distinct variable names appearing in goals,
// in first-occurrence order, so reported solutions are deterministic.
func VariablesIn(goals []term.Term) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch v := t.(type) {
		case *term.Var:
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		case *term.Compound:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	for _, g := range goals {
		walk(g)
	}
	return order
}

// Binding is one reported variable's resolved value in a solution.
type Binding struct {
	Name  string
	Value term.Term
}

// Solution is a query's variable bindings projected out of a raw
// substitution, in the order the variables first appeared in the
// query.
type Solution struct {
	Bindings []Binding
}

// Project walks vars through theta and returns the resulting Solution.
// An unbound variable projects to itself, per Walk's contract.
func Project(vars []string, theta *unify.Substitution) *Solution {
	sol := &Solution{Bindings: make([]Binding, len(vars))}
	for i, name := range vars {
		sol.Bindings[i] = Binding{Name: name, Value: unify.Walk(theta, term.NewVar(name))}
	}
	return sol
}

// String renders a solution as "X = socrates,Y = cats". A solution
// with no reported variables (a ground query) renders as "true".
func (s *Solution) String() string {
	if len(s.Bindings) == 0 {
		return "true"
	}
	parts := make([]string, len(s.Bindings))
	for i, b := range s.Bindings {
		parts[i] = b.Name + " = " + b.Value.String()
	}
	return strings.Join(parts, ",")
}
