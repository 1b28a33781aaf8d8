// Package unify implements syntactic unification over the term model of
// pkg/term: a recursive algorithm with an optional occurs check that
// produces a variable-to-term substitution, plus the Walk procedure
// that applies a substitution to a term.
package unify

import "github.com/aarroyoc/esgueva/pkg/term"

// Substitution maps variable names to terms. It is built up by Unify
// and never composed eagerly: resolving a variable's value is done by
// repeated lookup (Walk), not by rewriting existing bindings.
//
// Substitution is immutable from the caller's point of view: bind
// returns a new Substitution holding its own copy of the old bindings
// plus the new one, so a failed unification branch never observably
// mutates the substitution a caller still holds.
type Substitution struct {
	bindings map[string]term.Term
}

// Empty is the substitution with no bindings.
func Empty() *Substitution {
	return &Substitution{bindings: map[string]term.Term{}}
}

// bind returns a new Substitution extending s with v bound to t.
func (s *Substitution) bind(v string, t term.Term) *Substitution {
	next := make(map[string]term.Term, len(s.bindings)+1)
	for k, val := range s.bindings {
		next[k] = val
	}
	next[v] = t
	return &Substitution{bindings: next}
}

// lookup returns the term bound to variable name v, or nil if v is
// unbound in s.
func (s *Substitution) lookup(v string) (term.Term, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Len returns the number of bindings, mostly useful for tests.
func (s *Substitution) Len() int { return len(s.bindings) }

// Walk replaces every variable in t by its transitive binding in s,
// stopping at unbound variables or non-variable terms. Constants pass
// through unchanged; compounds are reconstructed with walked children.
//
// Walk guards against cyclic substitutions (which can only arise when
// Unify was called with occursCheck disabled) by tracking the chain of
// variable names already dereferenced on the path leading to the
// current lookup: if following a variable would revisit a name already
// on that path, Walk stops and returns the variable unresolved instead
// of looping forever. The chain is tracked per path, not per call: each
// compound argument and each variable dereference gets its own copy of
// the visited set, so resolving one occurrence of a bound variable
// never poisons a sibling occurrence of that same variable elsewhere in
// the term.
func Walk(s *Substitution, t term.Term) term.Term {
	return walk(s, t, map[string]bool{})
}

func walk(s *Substitution, t term.Term, seen map[string]bool) term.Term {
	v, ok := t.(*term.Var)
	if !ok {
		if c, ok := t.(*term.Compound); ok {
			args := make([]term.Term, len(c.Args))
			for i, a := range c.Args {
				args[i] = walk(s, a, copySeen(seen))
			}
			return &term.Compound{Functor: c.Functor, Args: args}
		}
		return t
	}

	if seen[v.Name] {
		return v
	}
	bound, ok := s.lookup(v.Name)
	if !ok {
		return v
	}
	next := copySeen(seen)
	next[v.Name] = true
	return walk(s, bound, next)
}

func copySeen(seen map[string]bool) map[string]bool {
	next := make(map[string]bool, len(seen)+1)
	for k, v := range seen {
		next[k] = v
	}
	return next
}

// Unify attempts to make x and y structurally equal under substitution
// theta, returning an extended substitution on success or (nil, false)
// on failure. When occursCheck is true, binding a variable to a term
// that contains that same variable (after walking theta) fails instead
// of producing a cyclic substitution.
//
// Unify is pure: it never mutates theta, and failure is not an error —
// it is the ordinary, expected outcome when two terms do not unify.
func Unify(x, y term.Term, theta *Substitution, occursCheck bool) (*Substitution, bool) {
	if theta == nil {
		theta = Empty()
	}

	if x.Equal(y) {
		return theta, true
	}

	if xv, ok := x.(*term.Var); ok {
		return unifyVariable(xv, y, theta, occursCheck)
	}
	if yv, ok := y.(*term.Var); ok {
		return unifyVariable(yv, x, theta, occursCheck)
	}

	xc, xIsCompound := x.(*term.Compound)
	yc, yIsCompound := y.(*term.Compound)
	if xIsCompound && yIsCompound {
		if xc.Functor != yc.Functor || len(xc.Args) != len(yc.Args) {
			return nil, false
		}
		for i := range xc.Args {
			next, ok := Unify(xc.Args[i], yc.Args[i], theta, occursCheck)
			if !ok {
				return nil, false
			}
			theta = next
		}
		return theta, true
	}

	// Mismatched variants (atom vs number, compound vs atom, ...) or
	// unequal atoms/numbers: no rule above applied and x.Equal(y) was
	// already false, so unification fails.
	return nil, false
}

// unifyVariable unifies variable v (by name) against term t under
// theta.
func unifyVariable(v *term.Var, t term.Term, theta *Substitution, occursCheck bool) (*Substitution, bool) {
	if bound, ok := theta.lookup(v.Name); ok {
		return Unify(bound, t, theta, occursCheck)
	}

	if tv, ok := t.(*term.Var); ok {
		if bound, ok := theta.lookup(tv.Name); ok {
			return Unify(v, bound, theta, occursCheck)
		}
	}

	if occursCheck && occurs(v.Name, t, theta, map[string]bool{}) {
		return nil, false
	}

	return theta.bind(v.Name, t), true
}

// occurs reports whether variable name vn appears anywhere inside t,
// descending through compound arguments and through variable bindings
// already recorded in theta. Like walk, it copies seen before
// descending into each sibling so that resolving one branch doesn't
// mask vn's appearance in another.
func occurs(vn string, t term.Term, theta *Substitution, seen map[string]bool) bool {
	switch v := t.(type) {
	case *term.Var:
		if v.Name == vn {
			return true
		}
		if seen[v.Name] {
			return false
		}
		next := copySeen(seen)
		next[v.Name] = true
		if bound, ok := theta.lookup(v.Name); ok {
			return occurs(vn, bound, theta, next)
		}
		return false
	case *term.Compound:
		for _, arg := range v.Args {
			if occurs(vn, arg, theta, copySeen(seen)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
