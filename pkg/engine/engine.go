// Package engine implements the SLD proof search: a depth-first,
// backtracking resolution procedure over a clause database, exposed
// through a single search primitive that both the batch (SolveAll) and
// interactive (SolveInteractive) entry points build on.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/aarroyoc/esgueva/pkg/database"
	"github.com/aarroyoc/esgueva/pkg/term"
	"github.com/aarroyoc/esgueva/pkg/unify"
)

// Solver resolves goals against a Database. A Solver is safe for
// concurrent use across independent queries: the only mutable state it
// owns is the fresh-variable counter, which is accessed atomically.
type Solver struct {
	DB          *database.Database
	OccursCheck bool

	fresh int64
}

// New returns a Solver with the occurs check disabled, the default
// for queries that don't ask for it explicitly.
func New(db *database.Database) *Solver {
	return &Solver{DB: db}
}

// NewWithOccursCheck returns a Solver with the occurs check explicitly
// configured.
func NewWithOccursCheck(db *database.Database, occursCheck bool) *Solver {
	return &Solver{DB: db, OccursCheck: occursCheck}
}

// freshName returns a variable name guaranteed not to collide with any
// name a program author could write: it carries the reserved "_G"
// prefix, which internal/parser refuses to accept in source text.
func (s *Solver) freshName(base string) string {
	n := atomic.AddInt64(&s.fresh, 1)
	return fmt.Sprintf("_G%d_%s", n, base)
}

// rename produces a copy of c in which every variable has been replaced
// by a fresh name, consistently within head and body. Two invocations
// of rename against the same clause, even in the same query, never
// share a variable.
func (s *Solver) rename(c *term.Clause) *term.Clause {
	mapping := make(map[string]string)
	return &term.Clause{
		Head: s.renameTerm(c.Head, mapping),
		Body: s.renameTerms(c.Body, mapping),
	}
}

func (s *Solver) renameTerms(ts []term.Term, mapping map[string]string) []term.Term {
	out := make([]term.Term, len(ts))
	for i, t := range ts {
		out[i] = s.renameTerm(t, mapping)
	}
	return out
}

func (s *Solver) renameTerm(t term.Term, mapping map[string]string) term.Term {
	switch v := t.(type) {
	case *term.Var:
		if fresh, ok := mapping[v.Name]; ok {
			return term.NewVar(fresh)
		}
		fresh := s.freshName(v.Name)
		mapping[v.Name] = fresh
		return term.NewVar(fresh)
	case *term.Compound:
		return &term.Compound{Functor: v.Functor, Args: s.renameTerms(v.Args, mapping)}
	default:
		return t
	}
}

// emitFunc receives a substitution under which every goal passed to
// solve has been satisfied. Returning true tells solve to keep
// searching for further solutions (backtrack into the next
// alternative); returning false tells solve to stop immediately and
// unwind without exploring any further choice point.
//
// This callback is the collaborator driving the two search modes:
// SolveAll's emit always asks for more, and SolveInteractive's emit
// asks the human.
type emitFunc func(*unify.Substitution) bool

// solve resolves goals left to right (front pop, the same discipline
// for both batch and interactive search) against the database, trying
// each matching clause in the order it was added. It returns true if
// every alternative was explored without emit ever returning false,
// and false if emit requested an immediate stop — in which case solve
// unwinds without trying further alternatives at any level.
func (s *Solver) solve(goals []term.Term, theta *unify.Substitution, emit emitFunc) bool {
	if len(goals) == 0 {
		return emit(theta)
	}

	goal, rest := goals[0], goals[1:]

	key, ok := term.KeyOf(unify.Walk(theta, goal))
	if !ok {
		// A variable or number goal has no predicate to resolve against;
		// this alternative simply fails.
		return true
	}

	for _, clause := range s.DB.Clauses(key) {
		renamed := s.rename(clause)
		extended, ok := unify.Unify(goal, renamed.Head, theta, s.OccursCheck)
		if !ok {
			continue
		}

		combined := make([]term.Term, 0, len(renamed.Body)+len(rest))
		combined = append(combined, renamed.Body...)
		combined = append(combined, rest...)

		if keepGoing := s.solve(combined, extended, emit); !keepGoing {
			return false
		}
	}
	return true
}

// SolveAll enumerates every solution to goals, in the order the search
// discovers them, and returns the resulting substitutions.
func (s *Solver) SolveAll(goals []term.Term) []*unify.Substitution {
	var solutions []*unify.Substitution
	s.solve(goals, unify.Empty(), func(theta *unify.Substitution) bool {
		solutions = append(solutions, theta)
		return true
	})
	return solutions
}

// SolveInteractive searches goals one solution at a time, calling
// collaborator with each solution found. collaborator returns true to
// request backtracking into the next alternative, or false to accept
// the current solution and stop.
//
// SolveInteractive returns true if a solution was accepted (the query
// proved), or false if the search was exhausted without collaborator
// ever accepting (the query has no more solutions).
func (s *Solver) SolveInteractive(goals []term.Term, collaborator func(*unify.Substitution) bool) bool {
	accepted := false
	s.solve(goals, unify.Empty(), func(theta *unify.Substitution) bool {
		wantMore := collaborator(theta)
		if !wantMore {
			accepted = true
		}
		return wantMore
	})
	return accepted
}
