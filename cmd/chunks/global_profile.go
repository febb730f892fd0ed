//go:build debug || profile

package main

import (
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/observoid/chunks/internal/errors"
)

type profileOptions struct {
	memPath string
	cpuPath string
}

func registerProfiling(cmd *cobra.Command) {
	var opts profileOptions

	f := cmd.PersistentFlags()
	f.StringVar(&opts.memPath, "mem-profile", "", "write memory profile to `dir`")
	f.StringVar(&opts.cpuPath, "cpu-profile", "", "write cpu profile to `dir`")

	preRun := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if err := preRun(c, args); err != nil {
			return err
		}
		return opts.start()
	}
}

func (opts profileOptions) start() error {
	if opts.memPath != "" && opts.cpuPath != "" {
		return errors.Fatal("only one profile (memory or CPU) may be activated at the same time")
	}

	var prof interface {
		Stop()
	}

	switch {
	case opts.memPath != "":
		prof = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.MemProfile, profile.ProfilePath(opts.memPath))
	case opts.cpuPath != "":
		prof = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.CPUProfile, profile.ProfilePath(opts.cpuPath))
	}

	if prof != nil {
		stopProfiling = prof.Stop
	}
	return nil
}
