package term_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aarroyoc/esgueva/pkg/term"
)

func TestEqualityReflexive(t *testing.T) {
	cases := []term.Term{
		term.NewAtom("socrates"),
		term.NewVar("X"),
		term.NewNumber(42),
		term.NewCompound("f", term.NewAtom("a"), term.NewVar("X")),
	}
	for _, tm := range cases {
		assert.True(t, tm.Equal(tm), "%v should equal itself", tm)
	}
}

func TestEqualityAcrossVariants(t *testing.T) {
	assert.False(t, term.NewAtom("a").Equal(term.NewVar("a")))
	assert.False(t, term.NewNumber(1).Equal(term.NewAtom("1")))
	assert.False(t, term.NewCompound("f", term.NewAtom("a")).Equal(term.NewAtom("f")))
}

func TestCompoundEqualityIsStructural(t *testing.T) {
	left := term.NewCompound("f", term.NewVar("X"), term.NewNumber(4))
	right := term.NewCompound("f", term.NewVar("X"), term.NewNumber(4))
	assert.True(t, left.Equal(right))

	differentArg := term.NewCompound("f", term.NewVar("X"), term.NewNumber(5))
	assert.False(t, left.Equal(differentArg))

	differentArity := term.NewCompound("f", term.NewVar("X"))
	assert.False(t, left.Equal(differentArity))
}

func TestKeyOf(t *testing.T) {
	k, ok := term.KeyOf(term.NewAtom("true"))
	assert.True(t, ok)
	assert.Equal(t, term.Key{Name: "true", Arity: 0}, k)

	k, ok = term.KeyOf(term.NewCompound("human", term.NewAtom("socrates")))
	assert.True(t, ok)
	assert.Equal(t, term.Key{Name: "human", Arity: 1}, k)

	_, ok = term.KeyOf(term.NewVar("X"))
	assert.False(t, ok, "variable heads have no predicate key")

	_, ok = term.KeyOf(term.NewNumber(1))
	assert.False(t, ok, "number heads have no predicate key")
}

func TestDistinctArityKeysAreDisjoint(t *testing.T) {
	k0, _ := term.KeyOf(term.NewAtom("human"))
	k1, _ := term.KeyOf(term.NewCompound("human", term.NewVar("X")))
	assert.NotEqual(t, k0, k1)
}

func TestStringRendersConcreteSyntax(t *testing.T) {
	c := term.NewCompound("likes", term.NewAtom("sandy"), term.NewVar("Who"))
	assert.Equal(t, "likes(sandy, Who)", c.String())
}

func TestClauseIsFact(t *testing.T) {
	fact := &term.Clause{Head: term.NewAtom("true")}
	assert.True(t, fact.IsFact())

	rule := &term.Clause{
		Head: term.NewCompound("mortal", term.NewVar("X")),
		Body: []term.Term{term.NewCompound("human", term.NewVar("X"))},
	}
	assert.False(t, rule.IsFact())
}
