package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/observoid/chunks/chunks"
	"github.com/observoid/chunks/internal/debug"
	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/internal/options"
	"github.com/observoid/chunks/internal/terminal"
	"github.com/observoid/chunks/rechunk"
	"github.com/observoid/chunks/stream"
)

func init() {
	options.Register("rechunk", rechunk.Config{})
}

func newRechunkCommand() *cobra.Command {
	opts := RechunkOptions{Config: rechunk.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "rechunk [flags]",
		Short: "Regroup standard input into size-constrained chunks",
		Long: `
The "rechunk" command reads standard input, splits it into input chunks either
at fixed read sizes or at content defined boundaries, and regroups them into
chunks of at least --min and at most --max bytes. Every chunk length except the
last one is --min plus a multiple of --step.

The data is written to standard output unchanged ("raw") or as one line per
chunk ("list") holding its index, offset, length and xxhash64 digest.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was any error.
Exit status is 3 if the input ended with a short trailer and --trailer is "error".
Exit status is 130 if the command was interrupted.
`,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRechunk(cmd.Context(), opts, globalOptions, args)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// RechunkOptions collects all options for the rechunk command.
type RechunkOptions struct {
	rechunk.Config
	Unbounded  bool
	Split      string
	ReadSize   int
	Polynomial string
	Format     string
	Force      bool
	ReadAhead  int
}

func (opts *RechunkOptions) AddFlags(f *pflag.FlagSet) {
	f.IntVar(&opts.Min, "min", opts.Min, "minimum chunk `size` in bytes (default: $CHUNKS_MIN)")
	f.IntVar(&opts.Max, "max", opts.Max, "maximum chunk `size` in bytes, 0 for the minimum (default: $CHUNKS_MAX)")
	f.BoolVar(&opts.Unbounded, "unbounded", false, "do not limit the chunk size")
	f.IntVar(&opts.Step, "step", opts.Step, "chunk size `step` in bytes, -1 for the default (default: $CHUNKS_STEP)")
	f.Var(&opts.Trailer, "trailer", "handling of a short trailer, one of (error|truncate|passThrough|pad) (default: $CHUNKS_TRAILER)")
	f.StringVar(&opts.Split, "split", "fixed", "split input at fixed read sizes or content defined boundaries, one of (fixed|cdc)")
	f.IntVar(&opts.ReadSize, "read-size", 64*1024, "`size` of the reads from standard input with --split fixed")
	f.StringVar(&opts.Polynomial, "polynomial", defaultPolynomial, "irreducible `polynomial` in hex for --split cdc, empty for a random one")
	f.StringVar(&opts.Format, "format", "raw", "output format, one of (raw|list)")
	f.BoolVar(&opts.Force, "force", false, "write raw output even if standard output is a terminal")
	f.IntVar(&opts.ReadAhead, "read-ahead", 4, "`number` of input chunks read ahead of the rechunking")

	// parse defaults from the environment, invalid values are ignored
	if v, err := strconv.Atoi(os.Getenv("CHUNKS_MIN")); err == nil {
		opts.Min = v
	}
	if v, err := strconv.Atoi(os.Getenv("CHUNKS_MAX")); err == nil {
		opts.Max = v
	}
	if v, err := strconv.Atoi(os.Getenv("CHUNKS_STEP")); err == nil {
		opts.Step = v
	}
	if v := os.Getenv("CHUNKS_TRAILER"); v != "" {
		_ = opts.Trailer.Set(v)
	}
}

func (opts *RechunkOptions) check() error {
	if opts.ReadSize <= 0 {
		return errors.Fatalf("--read-size must be positive, got %d", opts.ReadSize)
	}
	if opts.ReadAhead < 0 {
		return errors.Fatalf("--read-ahead must not be negative, got %d", opts.ReadAhead)
	}
	switch opts.Format {
	case "raw", "list":
	default:
		return errors.Fatalf("invalid format %q, must be one of (raw|list)", opts.Format)
	}
	return nil
}

func runRechunk(ctx context.Context, opts RechunkOptions, gopts GlobalOptions, args []string) error {
	if len(args) > 0 {
		return errors.Fatal("the rechunk command reads standard input and expects no arguments")
	}

	err := gopts.extended.Extract("rechunk").Apply("rechunk", &opts.Config)
	if err != nil {
		return err
	}
	if opts.Unbounded {
		opts.Max = -1
	}
	if err := opts.check(); err != nil {
		return err
	}

	if opts.Format == "raw" && !opts.Force && terminal.IsTerminal(gopts.stdout) {
		return errors.Fatal("refusing to write raw chunks to a terminal, use --force or --format list")
	}

	// sources allocate a fresh buffer for every input chunk, so they can
	// be sliced without copying
	op, err := rechunk.FromConfig(chunks.ByteViews, opts.Config)
	if err != nil {
		return errors.Fatalf("%v", err)
	}
	gopts.Verboseff("chunk sizes %+v, trailer %v\n", op.Hints(), op.Trailer())
	if op.Degenerate() {
		gopts.Warnf("no chunks can satisfy min %d max %d, output is empty\n", opts.Min, opts.Max)
	}

	src, err := newSource(gopts.stdin, opts)
	if err != nil {
		return err
	}

	var sum summary
	err = rechunkPipeline(ctx, src, op, gopts.stdout, opts, &sum)
	debug.Log("pipeline done: %v, err %v", sum.String(), err)
	if err != nil {
		return err
	}

	gopts.Verbosef("%v\n", sum.String())
	return nil
}

// rechunkPipeline reads src ahead in one goroutine and rechunks and writes
// the output in another.
func rechunkPipeline(ctx context.Context, src stream.Observable[[]byte], op *rechunk.Operator[[]byte],
	w io.Writer, opts RechunkOptions, sum *summary) error {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg, wgCtx := errgroup.WithContext(ctx)
	ch := make(chan []byte, opts.ReadAhead)

	wg.Go(func() error {
		err := pump(wgCtx, stream.Tap(src, sum.addInput), ch)
		if err != nil {
			return errors.Wrap(err, "read")
		}
		if wgCtx.Err() == nil {
			close(ch)
		}
		return nil
	})

	wg.Go(func() error {
		// stop reading once the output is complete
		defer cancel()

		out := stream.Tap[[]byte](op.Apply(stream.FromChan(ch)), sum.addChunk)
		if opts.Format == "list" {
			var l lister
			out = stream.Map(out, l.line)
		}

		_, err := stream.WriteTo(wgCtx, w, out)
		return err
	})

	return wg.Wait()
}
