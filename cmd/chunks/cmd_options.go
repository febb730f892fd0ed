package main

import (
	"fmt"

	"github.com/observoid/chunks/internal/options"
	"github.com/spf13/cobra"
)

func newOptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print list of extended options",
		Long: `
The "options" command prints a list of extended options which can be set with
-o key=value.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
`,
		DisableAutoGenTag: true,
		Run: func(_ *cobra.Command, _ []string) {
			printOptions(globalOptions)
		},
	}
	return cmd
}

func printOptions(gopts GlobalOptions) {
	_, _ = fmt.Fprintf(gopts.stdout, "All Extended Options:\n")
	var maxLen int
	for _, opt := range options.List() {
		if l := len(opt.Namespace + "." + opt.Name); l > maxLen {
			maxLen = l
		}
	}
	for _, opt := range options.List() {
		_, _ = fmt.Fprintf(gopts.stdout, "  %*s  %s\n", -maxLen, opt.Namespace+"."+opt.Name, opt.Text)
	}
}
