// Package database implements the clause database: a predicate-indexed,
// insertion-ordered store of clauses, queried by predicate key.
package database

import (
	"sort"
	"sync"

	"github.com/aarroyoc/esgueva/pkg/term"
)

// Database holds clauses grouped by predicate key. It is safe for
// concurrent use: reads and writes are guarded by a single RWMutex.
type Database struct {
	mu      sync.RWMutex
	clauses map[term.Key][]*term.Clause
	order   []term.Key // first-insertion order, for Predicates()
}

// New returns an empty database.
func New() *Database {
	return &Database{clauses: make(map[term.Key][]*term.Clause)}
}

// AddClause appends a clause to the database under its head's
// predicate key. It returns false (and adds nothing) if the head is a
// Var or Number, neither of which can key a predicate.
func (d *Database) AddClause(c *term.Clause) bool {
	key, ok := term.KeyOf(c.Head)
	if !ok {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.clauses[key]; !exists {
		d.order = append(d.order, key)
	}
	d.clauses[key] = append(d.clauses[key], c)
	return true
}

// Clauses returns the clauses stored under key, in the order they were
// added. The returned slice is a copy: callers may not mutate the
// database's internal storage through it.
func (d *Database) Clauses(key term.Key) []*term.Clause {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored := d.clauses[key]
	out := make([]*term.Clause, len(stored))
	copy(out, stored)
	return out
}

// ClearPredicate removes every clause stored under key.
func (d *Database) ClearPredicate(key term.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.clauses[key]; !exists {
		return
	}
	delete(d.clauses, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// ClearAll removes every clause from the database.
func (d *Database) ClearAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clauses = make(map[term.Key][]*term.Clause)
	d.order = nil
}

// Count returns the total number of clauses stored across all
// predicates.
func (d *Database) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	for _, cs := range d.clauses {
		n += len(cs)
	}
	return n
}

// Predicates returns the predicate keys currently populated, in
// first-insertion order.
func (d *Database) Predicates() []term.Key {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]term.Key, len(d.order))
	copy(out, d.order)
	return out
}

// SortedPredicates returns the populated predicate keys sorted by
// name then arity, for a listing whose order does not depend on
// insertion order.
func (d *Database) SortedPredicates() []term.Key {
	keys := d.Predicates()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Arity < keys[j].Arity
	})
	return keys
}
