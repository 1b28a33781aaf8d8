// Package parser reads the concrete syntax of the language — clause
// files and goal lists — into the term model of pkg/term. It is a
// hand-rolled recursive-descent reader with no parser library behind
// it; the grammar is small enough that a parser-combinator or
// lexer-generator library would be overkill.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/aarroyoc/esgueva/pkg/term"
)

// Parser reads clauses and goal lists from a rune stream, tracking a
// byte-free rune position for error messages.
type Parser struct {
	src []rune
	pos int
}

// New returns a Parser over src.
func New(src string) *Parser {
	return &Parser{src: []rune(src)}
}

// ParseFile reads every clause in src, in order, skipping whitespace
// between them. It is the reader behind loading a program file.
func ParseFile(src string) ([]*term.Clause, error) {
	p := New(src)
	var clauses []*term.Clause
	p.skipWhitespace()
	for !p.atEnd() {
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
		p.skipWhitespace()
	}
	return clauses, nil
}

// ParseGoals reads a single goal list terminated by '.', the form a
// query or REPL line takes.
func ParseGoals(src string) ([]term.Term, error) {
	p := New(src)
	p.skipWhitespace()
	goals, err := p.parseGoalList()
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *Parser) peek() (rune, bool) {
	if p.atEnd() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *Parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf(format+" (at rune offset %d)", append(args, p.pos)...)
}

// skipSpaces consumes ASCII spaces only, matching the concrete
// syntax's comma/argument separators, which do not span lines.
func (p *Parser) skipSpaces() {
	for {
		r, ok := p.peek()
		if !ok || r != ' ' {
			return
		}
		p.advance()
	}
}

// skipWhitespace consumes any run of whitespace, used between
// top-level clauses.
func (p *Parser) skipWhitespace() {
	for {
		r, ok := p.peek()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		p.advance()
	}
}

func (p *Parser) expect(r rune) error {
	got, ok := p.peek()
	if !ok || got != r {
		return p.errorf("expected %q", r)
	}
	p.advance()
	return nil
}

func (p *Parser) expectLiteral(lit string) error {
	for _, want := range lit {
		got, ok := p.peek()
		if !ok || got != want {
			return p.errorf("expected %q", lit)
		}
		p.advance()
	}
	return nil
}

// parseClause reads one "head." fact or "head :- body." rule.
func (p *Parser) parseClause() (*term.Clause, error) {
	head, err := p.parseHead()
	if err != nil {
		return nil, err
	}

	if r, ok := p.peek(); ok && r == '.' {
		p.advance()
		return &term.Clause{Head: head}, nil
	}

	p.skipSpaces()
	if err := p.expectLiteral(":-"); err != nil {
		return nil, errors.Wrap(err, "expected '.' or ':-' after clause head")
	}
	p.skipSpaces()

	body, err := p.parseGoalList()
	if err != nil {
		return nil, err
	}
	return &term.Clause{Head: head, Body: body}, nil
}

// parseGoalList reads a comma-separated list of goals terminated by
// '.'.
func (p *Parser) parseGoalList() ([]term.Term, error) {
	var goals []term.Term
	for {
		g, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)

		p.skipSpaces()
		r, ok := p.peek()
		if ok && r == ',' {
			p.advance()
			p.skipSpaces()
			continue
		}
		break
	}

	if err := p.expect('.'); err != nil {
		return nil, errors.Wrap(err, "expected '.' to end goal list")
	}
	return goals, nil
}

// parseHead reads a clause head: a compound or an atom, never a bare
// variable or number.
func (p *Parser) parseHead() (term.Term, error) {
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	switch t.(type) {
	case *term.Var:
		return nil, p.errorf("a clause head cannot be a bare variable")
	case *term.Number:
		return nil, p.errorf("a clause head cannot be a number")
	}
	return t, nil
}

// parseTerm reads any term: a compound, atom, variable, number, or
// list, dispatching on the lookahead character.
func (p *Parser) parseTerm() (term.Term, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}

	switch {
	case r == '[':
		return p.parseList()
	case r == '\'':
		return p.parseQuoted()
	case r == '-' || unicode.IsDigit(r):
		return p.parseNumber()
	case r >= 'A' && r <= 'Z':
		return p.parseVariable()
	case r >= 'a' && r <= 'z':
		return p.parseAtomOrCompound(p.parseIdentifier)
	default:
		return nil, p.errorf("unexpected character %q", r)
	}
}

// parseIdentifier reads a maximal run of ASCII letters and digits
// starting at the current position; the caller has already checked the
// first rune's case.
func (p *Parser) parseIdentifier() string {
	start := p.pos
	p.advance() // first character, already validated by the caller
	for {
		r, ok := p.peek()
		if !ok || !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			break
		}
		p.advance()
	}
	return string(p.src[start:p.pos])
}

// reservedVarPrefix is the fresh-variable prefix pkg/engine generates
// during clause renaming. A program that could write a variable with
// this prefix would risk colliding with a renamed variable in some
// future solution, so the parser reserves it outright.
const reservedVarPrefix = "_G"

func (p *Parser) parseVariable() (term.Term, error) {
	name := p.parseIdentifier()
	if strings.HasPrefix(name, reservedVarPrefix) {
		return nil, p.errorf("variable name %q uses the reserved %q prefix", name, reservedVarPrefix)
	}
	return term.NewVar(name), nil
}

// parseAtomOrCompound reads a bare-word atom via nameOf, then checks
// for a following '(' to decide between an atom and a compound.
func (p *Parser) parseAtomOrCompound(nameOf func() string) (term.Term, error) {
	name := nameOf()
	return p.finishAtomOrCompound(name)
}

func (p *Parser) finishAtomOrCompound(name string) (term.Term, error) {
	r, ok := p.peek()
	if !ok || r != '(' {
		if name == "[]" {
			return term.NewAtom("[]"), nil
		}
		return term.NewAtom(name), nil
	}
	p.advance() // '('

	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, errors.Wrap(err, "expected ')' to close compound")
	}
	return term.NewCompound(name, args...), nil
}

// parseArgList reads one or more comma-separated terms, the argument
// list of a compound.
func (p *Parser) parseArgList() ([]term.Term, error) {
	var args []term.Term
	for {
		arg, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		p.skipSpaces()
		r, ok := p.peek()
		if ok && r == ',' {
			p.advance()
			p.skipSpaces()
			continue
		}
		break
	}
	return args, nil
}

// parseQuoted reads a single-quoted name — 'name' — then, like a bare
// atom, checks for a following '(' to decide between an atom and a
// compound.
func (p *Parser) parseQuoted() (term.Term, error) {
	p.advance() // opening quote
	start := p.pos
	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated quoted atom")
		}
		if r == '\'' {
			break
		}
		p.advance()
	}
	name := string(p.src[start:p.pos])
	p.advance() // closing quote

	return p.finishAtomOrCompound(name)
}

// parseNumber reads an optionally negative run of digits.
func (p *Parser) parseNumber() (term.Term, error) {
	start := p.pos
	if r, ok := p.peek(); ok && r == '-' {
		p.advance()
	}
	digitsStart := p.pos
	for {
		r, ok := p.peek()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		p.advance()
	}
	if p.pos == digitsStart {
		return nil, p.errorf("expected digits in number literal")
	}

	text := string(p.src[start:p.pos])
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid number literal %q", text)
	}
	return term.NewNumber(n), nil
}

// parseList reads bracketed list syntax: "[]", "[e1, e2, ...]", or
// "[Head|Tail]", desugaring to nested "." compounds terminated by the
// "[]" atom.
func (p *Parser) parseList() (term.Term, error) {
	p.advance() // '['
	p.skipSpaces()

	if r, ok := p.peek(); ok && r == ']' {
		p.advance()
		return term.NewAtom("[]"), nil
	}

	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()

	if r, ok := p.peek(); ok && r == '|' {
		p.advance()
		p.skipSpaces()
		tail, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		p.skipSpaces()
		if err := p.expect(']'); err != nil {
			return nil, errors.Wrap(err, "expected ']' to close [Head|Tail]")
		}
		return term.NewCompound(".", first, tail), nil
	}

	elements := []term.Term{first}
	for {
		r, ok := p.peek()
		if !ok || r != ',' {
			break
		}
		p.advance()
		p.skipSpaces()
		el, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		p.skipSpaces()
	}

	if err := p.expect(']'); err != nil {
		return nil, errors.Wrap(err, "expected ']' to close list")
	}
	return buildList(elements), nil
}

// buildList folds elements into a right-nested chain of "." compounds
// ending in the "[]" atom, the standard cons-list encoding.
func buildList(elements []term.Term) term.Term {
	if len(elements) == 0 {
		return term.NewAtom("[]")
	}
	return term.NewCompound(".", elements[0], buildList(elements[1:]))
}
