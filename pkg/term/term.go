// Package term defines the value model of the esgueva logic-programming
// core: atoms, variables, numbers, and compound structures, plus the
// clauses built from them.
//
// Terms are value-like. No operation in this package or in pkg/unify
// mutates an existing Term; unification produces a new Substitution
// instead of rewriting terms in place.
package term

import (
	"fmt"
	"strings"
)

// Term is any value in the esgueva term universe. The four concrete
// implementations are *Atom, *Var, *Number, and *Compound; no other type
// may implement Term outside this package.
type Term interface {
	// String renders the term in its concrete read-back syntax, e.g.
	// likes(sandy, X) or .(H, T).
	String() string

	// Equal reports whether two terms are structurally identical: same
	// variant, same name/value, and (for compounds) equal arguments in
	// order. This is strict equality, not unification.
	Equal(other Term) bool

	isTerm()
}

// Atom is a named constant, e.g. socrates or '[]'.
type Atom struct {
	Name string
}

// NewAtom constructs an atom with the given name.
func NewAtom(name string) *Atom { return &Atom{Name: name} }

func (a *Atom) String() string { return a.Name }

func (a *Atom) Equal(other Term) bool {
	o, ok := other.(*Atom)
	return ok && a.Name == o.Name
}

func (*Atom) isTerm() {}

// Var is a logic variable identified by name. Two Vars with the same
// name are the same variable within a single clause or query; across
// clause instances they are made distinct by renaming (pkg/engine).
type Var struct {
	Name string
}

// NewVar constructs a variable with the given name.
func NewVar(name string) *Var { return &Var{Name: name} }

func (v *Var) String() string { return v.Name }

func (v *Var) Equal(other Term) bool {
	o, ok := other.(*Var)
	return ok && v.Name == o.Name
}

func (*Var) isTerm() {}

// Number is a 64-bit signed integer constant.
type Number struct {
	Value int64
}

// NewNumber constructs a number term.
func NewNumber(value int64) *Number { return &Number{Value: value} }

func (n *Number) String() string { return fmt.Sprintf("%d", n.Value) }

func (n *Number) Equal(other Term) bool {
	o, ok := other.(*Number)
	return ok && n.Value == o.Value
}

func (*Number) isTerm() {}

// Compound is a functor applied to a non-empty, ordered sequence of
// sub-terms, e.g. likes(sandy, X) or .(H, T).
type Compound struct {
	Functor string
	Args    []Term
}

// NewCompound constructs a compound term. It panics if args is empty —
// a functor with no arguments is an Atom, not a Compound.
func NewCompound(functor string, args ...Term) *Compound {
	if len(args) == 0 {
		panic("term: NewCompound requires at least one argument; use NewAtom for arity 0")
	}
	return &Compound{Functor: functor, Args: args}
}

func (c *Compound) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Functor, strings.Join(parts, ", "))
}

func (c *Compound) Equal(other Term) bool {
	o, ok := other.(*Compound)
	if !ok || c.Functor != o.Functor || len(c.Args) != len(o.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (*Compound) isTerm() {}

// Key is a predicate key: a functor name paired with its arity. It is
// the clause database's index key.
type Key struct {
	Name  string
	Arity int
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Name, k.Arity) }

// KeyOf computes the predicate key of a term that can head a clause.
// Var and Number terms have no predicate key; the second return value
// is false for them.
func KeyOf(t Term) (Key, bool) {
	switch v := t.(type) {
	case *Atom:
		return Key{Name: v.Name, Arity: 0}, true
	case *Compound:
		return Key{Name: v.Functor, Arity: len(v.Args)}, true
	default:
		return Key{}, false
	}
}

// Clause is a head term plus a (possibly empty) body of goal terms. A
// fact is a Clause with an empty Body; a rule has a non-empty one.
type Clause struct {
	Head Term
	Body []Term
}

// IsFact reports whether the clause has no body goals.
func (c *Clause) IsFact() bool { return len(c.Body) == 0 }
