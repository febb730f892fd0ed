package main

import (
	"fmt"
	"io"
	"os"

	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/internal/options"
	"github.com/spf13/pflag"
)

var version = "0.3.0-dev (compiled manually)"

// GlobalOptions hold all global options for chunks.
type GlobalOptions struct {
	Quiet   bool
	Verbose int
	Options []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// verbosity is set as follows:
	//  0 means: don't print any messages except errors, this is used when --quiet is specified
	//  1 is the default: print the summary
	//  2 means: also report the effective parameters, this is used when --verbose is specified
	verbosity uint

	extended options.Options
}

func (opts *GlobalOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print the summary")
	f.CountVarP(&opts.Verbose, "verbose", "v", "be verbose (specify multiple times or a level using --verbose=n``)")
	f.StringSliceVarP(&opts.Options, "option", "o", []string{}, "set extended option (`key=value`, can be specified multiple times)")
}

func (opts *GlobalOptions) PreRun() error {
	opts.verbosity = 1
	if opts.Quiet && opts.Verbose > 0 {
		return errors.Fatal("--quiet and --verbose cannot be specified at the same time")
	}

	switch {
	case opts.Verbose > 0:
		opts.verbosity = 2
	case opts.Quiet:
		opts.verbosity = 0
	}

	extendedOpts, err := options.Parse(opts.Options)
	if err != nil {
		return err
	}
	opts.extended = extendedOpts
	return nil
}

// Verbosef prints a message to stderr unless --quiet was given. Standard
// output carries the chunk data and is never used for messages.
func (opts *GlobalOptions) Verbosef(format string, args ...interface{}) {
	if opts.verbosity >= 1 {
		_, _ = fmt.Fprintf(opts.stderr, format, args...)
	}
}

// Verboseff prints a message to stderr if --verbose was given.
func (opts *GlobalOptions) Verboseff(format string, args ...interface{}) {
	if opts.verbosity >= 2 {
		_, _ = fmt.Fprintf(opts.stderr, format, args...)
	}
}

// Warnf writes the message to stderr regardless of verbosity.
func (opts *GlobalOptions) Warnf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(opts.stderr, format, args...)
}

var globalOptions = GlobalOptions{
	stdin:  os.Stdin,
	stdout: os.Stdout,
	stderr: os.Stderr,
}
