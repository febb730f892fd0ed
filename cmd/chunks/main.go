package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/observoid/chunks/internal/debug"
	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/rechunk"
)

func init() {
	// don't import `go.uber.org/automaxprocs` to disable the log output
	_, _ = maxprocs.Set()
}

// stopProfiling is replaced when a profile is being recorded.
var stopProfiling = func() {}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunks",
		Short: "Reshape byte streams into size-constrained chunks",
		Long: `
chunks reads a byte stream and regroups it into chunks whose lengths respect a
minimum, a maximum and a step. How the final partial chunk is handled is
selected with --trailer.
`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return globalOptions.PreRun()
		},
	}

	globalOptions.AddFlags(cmd.PersistentFlags())
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		newRechunkCommand(),
		newOptionsCommand(),
		newVersionCommand(),
	)

	registerProfiling(cmd)

	return cmd
}

// exitCode maps the error returned by a command to the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case rechunk.IsMisalignedTrailer(err):
		return 3
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func exitMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsFatal(err), rechunk.IsMisalignedTrailer(err):
		return err.Error()
	default:
		return fmt.Sprintf("%+v", err)
	}
}

func main() {
	debug.Log("main %#v", os.Args)
	debug.Log("chunks %s compiled with %v on %v/%v",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	ctx := createGlobalContext()
	err := newRootCommand().ExecuteContext(ctx)
	stopProfiling()
	if err == nil {
		err = ctx.Err()
	}

	code := exitCode(err)
	if code != 0 {
		globalOptions.Warnf("%v\n", exitMessage(err))
	}
	Exit(code)
}
