package repl

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarroyoc/esgueva/pkg/database"
	"github.com/aarroyoc/esgueva/pkg/engine"
)

// fakeLineReader replays a canned sequence of lines, returning io.EOF
// once exhausted — the test double for lineReader.
type fakeLineReader struct {
	lines []string
	pos   int
}

func (f *fakeLineReader) Readline() (string, error) {
	if f.pos >= len(f.lines) {
		return "", io.EOF
	}
	line := f.lines[f.pos]
	f.pos++
	return line, nil
}

func newTestREPL(lines ...string) (*REPL, *bytes.Buffer) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(io.Discard)
	db := database.New()
	r := &REPL{
		DB:     db,
		Solver: engine.New(db),
		Log:    log,
		rl:     &fakeLineReader{lines: lines},
		out:    &out,
	}
	return r, &out
}

func TestLoadFileAddsClauses(t *testing.T) {
	r, _ := newTestREPL()
	err := r.LoadFile("socrates.pl", `human(socrates). mortal(X) :- human(X).`)
	require.NoError(t, err)
	assert.Equal(t, 2, r.DB.Count())
}

func TestLoadFileReturnsErrorOnParseFailure(t *testing.T) {
	r, _ := newTestREPL()
	err := r.LoadFile("broken.pl", `)(.`)
	assert.Error(t, err)
}

func TestDispatchCommandClear(t *testing.T) {
	r, _ := newTestREPL()
	require.NoError(t, r.LoadFile("f.pl", `human(socrates).`))
	require.Equal(t, 1, r.DB.Count())

	handled, err := r.dispatchCommand(":clear")
	assert.True(t, handled)
	assert.NoError(t, err)
	assert.Equal(t, 0, r.DB.Count())
}

func TestDispatchCommandIgnoresOrdinaryQueries(t *testing.T) {
	r, _ := newTestREPL()
	handled, err := r.dispatchCommand("human(socrates).")
	assert.False(t, handled)
	assert.NoError(t, err)
}

func TestDispatchCommandUnknown(t *testing.T) {
	r, _ := newTestREPL()
	handled, err := r.dispatchCommand(":bogus")
	assert.True(t, handled)
	assert.Error(t, err)
}

func TestRunQueryPrintsFalseWhenExhausted(t *testing.T) {
	r, out := newTestREPL()
	r.runQuery(`mortal(gepeto).`)
	assert.Equal(t, "false.\n", out.String())
}

func TestRunQueryAcceptsFirstSolutionOnEOF(t *testing.T) {
	// No canned lines: askMore's Readline immediately returns io.EOF,
	// which accepts the first solution (anything but a leading ';'
	// is treated as acceptance).
	r, out := newTestREPL()
	require.NoError(t, r.LoadFile("f.pl", `human(socrates).`))
	r.runQuery(`human(X).`)
	assert.Equal(t, "X = socrates\n", out.String())
}

func TestRunQueryBacktracksOnSemicolon(t *testing.T) {
	r, out := newTestREPL(";", "")
	require.NoError(t, r.LoadFile("f.pl", `human(socrates). human(plato).`))
	r.runQuery(`human(X).`)
	assert.Equal(t, "X = socrates\nX = plato\n", out.String())
}

func TestRunQueryReportsParseFailure(t *testing.T) {
	r, out := newTestREPL()
	r.runQuery(`)(.`)
	assert.Equal(t, "Can't parse query!\n", out.String())
}

func TestWithTimeoutRunsDirectlyWhenUnset(t *testing.T) {
	r, _ := newTestREPL()
	called := false
	err := r.withTimeout(func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestWithTimeoutReturnsDeadlineExceededWhenSearchIsSlow(t *testing.T) {
	r, _ := newTestREPL()
	r.QueryTimeout = 10 * time.Millisecond

	done := make(chan struct{})
	err := r.withTimeout(func() error {
		<-done
		return nil
	})
	close(done)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunHandlesCommandsAndQueriesThenEOF(t *testing.T) {
	// Each scripted line here is ground or a command, so no query ever
	// reaches an interactive solution and calls askMore — which would
	// otherwise consume the *next* scripted line as a backtracking
	// answer rather than as the next top-level input, exactly as a
	// real terminal session would. That interleaving is exercised by
	// TestRunQueryBacktracksOnSemicolon instead, in isolation.
	r, out := newTestREPL(
		"mortal(nobody).",
		":clear",
		"human(socrates).",
	)
	require.NoError(t, r.LoadFile("f.pl", `human(socrates).`))

	err := r.Run()
	require.NoError(t, err)
	// First query has no matching predicate at all and fails outright;
	// :clear empties the database; the second query then finds nothing
	// because the fact it depends on was just cleared.
	assert.Equal(t, "false.\nfalse.\n", out.String())
}
