package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/seriussoft/observable/internal/scenario"
	"github.com/seriussoft/observable/pkg/metrics"
)

type runOptions struct {
	verbose bool
	metrics bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Replay one or more scenarios",
		Long: `Replay scenarios and print the notification trace of each.

If a scenario has an expect block, the run fails when the trace,
the batch error or the disposal counts differ from it.

Examples:
  observable run testdata/attach.yaml
  observable run --metrics scenarios/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(report{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every announcement and transition")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics after the run")

	return cmd
}

func runScenarios(rep report, paths []string, opts runOptions) error {
	out := rep.out
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	runner := scenario.NewRunner(
		scenario.WithLogger(logger),
		scenario.WithMetrics(metrics.New(metrics.WithRegistry(reg))),
	)

	failed := 0
	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}

		name := s.Name
		if name == "" {
			name = path
		}

		res, runErr := runner.Run(s)
		printTrace(out, res)

		if s.Expect == nil && runErr != nil {
			rep.stopped(name, runErr)
			failed++
			continue
		}
		if err := s.Check(res, runErr); err != nil {
			rep.fail(name, err)
			failed++
			continue
		}
		rep.pass(name)
	}

	if opts.metrics {
		if err := printMetrics(out, reg); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
	}
	return nil
}

func printTrace(out io.Writer, res *scenario.Result) {
	for _, n := range res.Notifications {
		fmt.Fprintf(out, "  step %-3d %s\n", n.Step, n.Property)
	}
	fmt.Fprintf(out, "  backed=%t new=%t disposed=%t managed=%d unmanaged=%d\n",
		res.Backed, res.New, res.Disposed, res.ManagedDisposals, res.UnmanagedDisposals)
}

func printMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
