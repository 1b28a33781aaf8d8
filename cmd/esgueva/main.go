// Command esgueva is the Horn-clause resolution engine's top-level CLI:
// "esgueva [FILE]" loads FILE and enters the REPL, "esgueva -h" prints
// usage.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aarroyoc/esgueva/internal/repl"
	"github.com/aarroyoc/esgueva/pkg/database"
)

var (
	occursCheck  bool
	queryTimeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "esgueva [FILE]",
		Short:         "Esgueva Horn-clause resolution top-level",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRepl,
	}
	cmd.Flags().BoolVar(&occursCheck, "occurs-check", false, "enable the occurs check during unification")
	cmd.Flags().DurationVar(&queryTimeout, "timeout", 0, "abort a query's search after this long (0 disables the limit)")
	return cmd
}

func runRepl(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	db := database.New()

	r, err := repl.New(db, occursCheck, queryTimeout, log)
	if err != nil {
		return err
	}
	defer r.Close()

	if len(args) == 1 {
		contents, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("file must exist: %w", err)
		}
		if loadErr := r.LoadFile(args[0], string(contents)); loadErr != nil {
			log.WithError(loadErr).WithField("file", args[0]).Error("error loading file")
		}
	}

	return r.Run()
}
