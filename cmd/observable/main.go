package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "observable",
		Short: "Replay observable entity scenarios",
		Long: `observable replays YAML scenarios against a sample view model and
prints every property change notification it produces.

Use it to check how batch mode, backing-source attachment and
disposal behave for a given sequence of operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "observable: %s\n", err)
		os.Exit(1)
	}
}

// report prints per-scenario outcomes. Passing scenarios go to out,
// failures to errOut so a pipeline can keep the trace separate.
type report struct {
	out    io.Writer
	errOut io.Writer
}

func (r report) pass(name string) {
	fmt.Fprintf(r.out, "PASS %s\n", name)
}

func (r report) fail(name string, err error) {
	fmt.Fprintf(r.errOut, "FAIL %s\n", name)
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fmt.Fprintf(r.errOut, "     %s\n", line)
		}
	}
}

func (r report) stopped(name string, err error) {
	fmt.Fprintf(r.out, "STOP %s: %v\n", name, err)
}
