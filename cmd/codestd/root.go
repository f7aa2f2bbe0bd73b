/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"chainguard.dev/codestandard/metrics"
	"chainguard.dev/codestandard/retry"
	"chainguard.dev/codestandard/standard"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("failures reported above")

type app struct {
	lookuper envconfig.Lookuper
	in       io.Reader
	printer

	logLevel    string
	metricsFile string

	// sleep overrides waiting in the bulk applier.
	sleep retry.SleepFunc
}

func newApp(lookuper envconfig.Lookuper, in io.Reader, out, errOut io.Writer) *app {
	return &app{
		lookuper: lookuper,
		in:       in,
		printer:  printer{out: out, errOut: errOut},
	}
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)

	if a.metricsFile != "" {
		if werr := metrics.WriteTextfile(a.metricsFile); werr != nil {
			a.warning("writing metrics to %s: %v", a.metricsFile, werr)
		}
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			a.fail(err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "codestd",
		Short: "Manage Codacy coding standards",
		Long: `codestd creates coding standards from baseline files, extracts existing
standards into baseline files, corrects drift between a live standard and its
baseline, and applies a standard to every repository of an organization.

The API token is read from CODACY_API_TOKEN.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
			}
			logger := clog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level})).
				With("run_id", uuid.NewString())
			cmd.SetContext(clog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		a.createCmd(),
		a.extractCmd(),
		a.reconcileCmd(),
		a.applyCmd(),
		a.schemaCmd(),
	)
	return root
}

// selection holds the flags that pick an existing standard.
type selection struct {
	name  string
	index int
	id    int64
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.name, "standard", "", "name of the coding standard")
	cmd.Flags().IntVar(&s.index, "index", 0, "1-based position of the coding standard in the listing")
	cmd.Flags().Int64Var(&s.id, "id", 0, "id of the coding standard")
	cmd.MarkFlagsMutuallyExclusive("standard", "index", "id")
}

// selector falls back to an interactive prompt when no flag was given.
func (s *selection) selector(a *app) standard.Selector {
	switch {
	case s.id != 0:
		return standard.ByID(s.id)
	case s.name != "":
		return standard.ByName(s.name)
	case s.index != 0:
		return standard.ByIndex(s.index)
	default:
		return standard.Prompt(a.in, a.out)
	}
}
