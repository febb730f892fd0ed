package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/restic/chunker"

	"github.com/observoid/chunks/internal/debug"
	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/stream"
)

// defaultPolynomial keeps content-defined splits reproducible between runs.
const defaultPolynomial = "0x3DA3358B4DC173"

// newSource returns the observable splitting rd into input chunks as
// selected by opts.Split.
func newSource(rd io.Reader, opts RechunkOptions) (stream.Observable[[]byte], error) {
	switch opts.Split {
	case "fixed", "":
		return stream.FromReader(rd, opts.ReadSize), nil
	case "cdc":
		pol, err := parsePolynomial(opts.Polynomial)
		if err != nil {
			return nil, err
		}
		debug.Log("content defined chunking with polynomial %v", pol)
		return contentDefined(rd, pol), nil
	default:
		return nil, errors.Fatalf("invalid split mode %q, must be one of (fixed|cdc)", opts.Split)
	}
}

// parsePolynomial parses a hex polynomial. An empty string selects a random
// irreducible polynomial.
func parsePolynomial(s string) (chunker.Pol, error) {
	if s == "" {
		pol, err := chunker.RandomPolynomial()
		if err != nil {
			return 0, errors.Wrap(err, "RandomPolynomial")
		}
		return pol, nil
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0, errors.Fatalf("invalid polynomial %q: %v", s, err)
	}

	pol := chunker.Pol(v)
	if !pol.Irreducible() {
		return 0, errors.Fatalf("polynomial %v is not irreducible", pol)
	}
	return pol, nil
}

// contentDefined splits the data read from rd at content defined
// boundaries. Every chunk is delivered in its own buffer.
func contentDefined(rd io.Reader, pol chunker.Pol) stream.Observable[[]byte] {
	return stream.Func[[]byte](func(ctx context.Context, o stream.Observer[[]byte]) {
		chk := chunker.New(rd, pol)
		for {
			if ctx.Err() != nil {
				return
			}

			c, err := chk.Next(nil)
			switch {
			case err == io.EOF:
				o.Complete()
				return
			case err != nil:
				o.Error(err)
				return
			}

			o.Next(c.Data)
		}
	})
}

// pump delivers the items of src into ch. It returns the error src
// terminates with, or nil once src completes or ctx is cancelled.
func pump(ctx context.Context, src stream.Observable[[]byte], ch chan<- []byte) error {
	var err error
	done := make(chan struct{})

	src.Subscribe(ctx, stream.Funcs[[]byte]{
		OnNext: func(buf []byte) {
			select {
			case ch <- buf:
			case <-ctx.Done():
			}
		},
		OnError: func(e error) {
			err = e
			close(done)
		},
		OnComplete: func() { close(done) },
	})

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
