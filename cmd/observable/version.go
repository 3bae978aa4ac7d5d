package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seriussoft/observable/internal/scenario"
)

const modulePath = "github.com/seriussoft/observable"

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and supported scenario ops",
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout(), short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")

	return cmd
}

// resolvedVersion prefers the linker-set version, then the module version
// recorded by `go install`.
func resolvedVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func writeVersion(out io.Writer, short bool) {
	v := resolvedVersion()
	if short {
		fmt.Fprintln(out, v)
		return
	}

	fmt.Fprintf(out, "%s %s (commit %s, built %s)\n", modulePath, v, commit, date)
	fmt.Fprintf(out, "scenario ops: %s\n", strings.Join(scenario.Ops(), ", "))
}
