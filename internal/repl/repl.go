// Package repl implements the esgueva interactive top-level: the
// read-print loop, program file loading, and the logging side of the
// query/answer interaction.
//
// The package itself is oblivious to the proof search's internals — it
// only drives pkg/engine.Solver through its public API and renders
// what comes back. The REPL talks to its terminal through the small
// lineReader interface below rather than *readline.Instance directly,
// so the read-print loop is testable without a real terminal.
package repl

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aarroyoc/esgueva/internal/hostutil"
	"github.com/aarroyoc/esgueva/internal/parser"
	"github.com/aarroyoc/esgueva/pkg/database"
	"github.com/aarroyoc/esgueva/pkg/engine"
	"github.com/aarroyoc/esgueva/pkg/unify"
)

// Prompt is the REPL's query prompt.
const Prompt = "?- "

// lineReader is the capability the read-print loop needs from its
// terminal: one line at a time, with io.EOF on Ctrl-D. *readline.Instance
// satisfies it; tests supply a fake backed by a canned line list.
type lineReader interface {
	Readline() (string, error)
}

// REPL holds the running database and solver plus the line-editing
// and logging collaborators the interactive top-level needs.
type REPL struct {
	DB     *database.Database
	Solver *engine.Solver
	Log    *logrus.Logger

	// QueryTimeout bounds how long a single query's search may run
	// before runQuery gives up and reports a timeout. Zero (the
	// default) means no bound.
	QueryTimeout time.Duration

	rl   lineReader
	out  io.Writer
	quit func() error // releases rl's resources; no-op for fakes
}

// New constructs a REPL over an existing database, wiring a Solver
// configured with the given occurs-check default, a query timeout
// (zero disables it), and a github.com/chzyer/readline-backed
// terminal.
func New(db *database.Database, occursCheck bool, queryTimeout time.Duration, log *logrus.Logger) (*REPL, error) {
	rl, err := readline.New(Prompt)
	if err != nil {
		return nil, errors.Wrap(err, "initializing line editor")
	}
	if log == nil {
		log = logrus.New()
	}
	return &REPL{
		DB:           db,
		Solver:       engine.NewWithOccursCheck(db, occursCheck),
		Log:          log,
		QueryTimeout: queryTimeout,
		rl:           rl,
		out:          os.Stdout,
		quit:         rl.Close,
	}, nil
}

// Close releases the line editor's terminal resources.
func (r *REPL) Close() error {
	if r.quit == nil {
		return nil
	}
	return r.quit()
}

// LoadFile parses src's clauses and adds each to the database,
// logging the number of clauses loaded.
func (r *REPL) LoadFile(name, src string) error {
	clauses, err := parser.ParseFile(src)
	if err != nil {
		r.Log.WithError(err).WithField("file", name).Error("failed to parse program file")
		return errors.Wrapf(err, "parsing %s", name)
	}

	loaded := 0
	for _, c := range clauses {
		if r.DB.AddClause(c) {
			loaded++
		}
	}
	r.Log.WithFields(logrus.Fields{
		"file":    name,
		"clauses": loaded,
	}).Info("loaded program file")
	return nil
}

// Run drives the read-print loop until EOF (Ctrl-D) or an
// unrecoverable line-editor error.
func (r *REPL) Run() error {
	for {
		line, err := r.rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading query")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if handled, cmdErr := r.dispatchCommand(line); handled {
			if cmdErr != nil {
				r.Log.WithError(cmdErr).Error("command failed")
			}
			continue
		}

		r.runQuery(line)
	}
}

// dispatchCommand recognizes the ":load FILE" and ":clear" convenience
// commands. It returns handled=false for anything not starting with
// ':', so Run treats it as an ordinary query line.
func (r *REPL) dispatchCommand(line string) (handled bool, err error) {
	if !strings.HasPrefix(line, ":") {
		return false, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":clear":
		r.DB.ClearAll()
		r.Log.Info("database cleared")
		return true, nil
	case ":load":
		if len(fields) != 2 {
			return true, errors.New("usage: :load FILE")
		}
		contents, readErr := os.ReadFile(fields[1])
		if readErr != nil {
			return true, errors.Wrapf(readErr, "reading %s", fields[1])
		}
		return true, r.LoadFile(fields[1], string(contents))
	default:
		return true, errors.Errorf("unknown command %q", fields[0])
	}
}

// runQuery parses a goal list and solves it interactively, printing
// one solution per accepted step, or "false." once the search is
// exhausted without acceptance. Unparsed input prints "Can't parse
// query!" and the loop resumes. If r.QueryTimeout is set and the
// search runs past it, runQuery reports a timeout instead of hanging
// forever on a runaway recursive program.
func (r *REPL) runQuery(line string) {
	goals, err := parser.ParseGoals(line)
	if err != nil {
		r.Log.WithError(err).Debug("query did not parse")
		io.WriteString(r.out, "Can't parse query!\n")
		return
	}

	vars := engine.VariablesIn(goals)
	err = r.withTimeout(func() error {
		accepted := r.Solver.SolveInteractive(goals, func(theta *unify.Substitution) bool {
			io.WriteString(r.out, engine.Project(vars, theta).String()+"\n")
			return r.askMore()
		})
		if !accepted {
			io.WriteString(r.out, "false.\n")
		}
		return nil
	})
	if err != nil {
		r.Log.WithError(err).Warn("query search timed out")
		io.WriteString(r.out, "Query timed out.\n")
	}
}

// withTimeout runs fn directly when QueryTimeout is unset, or races it
// against that deadline via hostutil.WithTimeout otherwise. The search
// goroutine is left running past a timeout, since pkg/engine's
// recursive search has no cooperative cancellation point to stop at.
func (r *REPL) withTimeout(fn func() error) error {
	if r.QueryTimeout <= 0 {
		return fn()
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.QueryTimeout)
	defer cancel()
	return hostutil.WithTimeout(ctx, "query", fn)
}

// askMore asks the user whether to keep backtracking: a line beginning
// with ';' requests the next solution (the collaborator returns true,
// "more"); anything else, including EOF, accepts the current solution
// (false, "accept").
func (r *REPL) askMore() bool {
	line, err := r.rl.Readline()
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(line), ";")
}
