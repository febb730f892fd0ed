package rechunk

import (
	"context"

	"github.com/observoid/chunks/internal/debug"
	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/stream"
)

// Option configures an operator created by New.
type Option func(*params)

type params struct {
	max, step       int
	maxSet, stepSet bool
	trailer         Trailer
}

// WithMax sets the maximum chunk size. It defaults to the minimum chunk
// size. Pass Unbounded for no upper limit.
func WithMax(n int) Option {
	return func(p *params) {
		p.max, p.maxSet = n, true
	}
}

// WithStep sets the chunk size step. It defaults to 0 for a fixed chunk
// size and to 1 otherwise.
func WithStep(n int) Option {
	return func(p *params) {
		p.step, p.stepSet = n, true
	}
}

// WithTrailer sets the trailer policy, TrailerError by default.
func WithTrailer(t Trailer) Option {
	return func(p *params) {
		p.trailer = t
	}
}

// Operator rechunks streams of T. It holds no per-stream state, so the
// same operator can be applied to any number of streams, and each stream
// subscribed to any number of times.
type Operator[T any] struct {
	m       Manager[T]
	hints   Hints
	trailer Trailer
	usable  bool
}

// New returns an operator emitting chunks of at least min units, shaped by
// opts. Invalid parameters are reported as errors wrapping
// ErrInvalidPolicy. Parameters which can never yield a chunk are not an
// error: the returned operator then completes every stream immediately.
func New[T any](m Manager[T], min int, opts ...Option) (*Operator[T], error) {
	p := params{max: min, trailer: TrailerError}
	for _, opt := range opts {
		opt(&p)
	}

	if !p.stepSet {
		p.step = 1
		if p.max == min {
			p.step = 0
		}
	}

	if p.trailer == "" {
		p.trailer = TrailerError
	}
	if _, err := ParseTrailer(string(p.trailer)); err != nil {
		return nil, err
	}

	h, ok, err := Normalize(min, p.max, p.step)
	if err != nil {
		return nil, err
	}

	if !ok {
		debug.Log("size policy (%d, %d, %d) never emits a chunk", min, p.max, p.step)
		return &Operator[T]{}, nil
	}

	debug.Log("size policy (%d, %d, %d) normalized to %+v, trailer %v", min, p.max, p.step, h, p.trailer)

	return &Operator[T]{m: m, hints: h, trailer: p.trailer, usable: true}, nil
}

// Must is like New but panics on invalid parameters.
func Must[T any](m Manager[T], min int, opts ...Option) *Operator[T] {
	op, err := New(m, min, opts...)
	if err != nil {
		panic(err)
	}
	return op
}

// Hints returns the effective size policy. It is all zero for an operator
// which never emits.
func (op *Operator[T]) Hints() Hints {
	return op.hints
}

// Degenerate reports whether the operator never emits a chunk.
func (op *Operator[T]) Degenerate() bool {
	return !op.usable
}

// Trailer returns the trailer policy.
func (op *Operator[T]) Trailer() Trailer {
	return op.trailer
}

// Apply returns the rechunked version of in. Nothing happens until the
// returned stream is subscribed to.
func (op *Operator[T]) Apply(in stream.Observable[T]) *Stream[T] {
	if h, ok := stream.HintsOf(in); ok {
		debug.Log("rechunking input hinted as %+v into %+v", h, op.hints)
	}
	return &Stream[T]{op: op, in: in}
}

// Stream is a rechunked observable.
type Stream[T any] struct {
	op *Operator[T]
	in stream.Observable[T]
}

var _ stream.Hinted = &Stream[[]byte]{}

// ChunkHints implements stream.Hinted.
func (s *Stream[T]) ChunkHints() Hints {
	return s.op.hints
}

// Subscribe implements stream.Observable. Every subscription gets its own
// buffer and subscribes to the input once, with the same context.
func (s *Stream[T]) Subscribe(ctx context.Context, o stream.Observer[T]) {
	if !s.op.usable {
		stream.Empty[T]().Subscribe(ctx, o)
		return
	}

	s.in.Subscribe(ctx, &engine[T]{
		ctx:     ctx,
		m:       s.op.m,
		hints:   s.op.hints,
		trailer: s.op.trailer,
		down:    o,
	})
}

// Config holds the operator parameters in a form suitable for
// options.Options.Apply and command line flags. Unlike the arguments of
// New it uses sentinel values: Max 0 means the minimum chunk size, a
// negative Max means Unbounded and a negative Step selects the default.
type Config struct {
	Min     int     `option:"min" help:"minimum chunk size (default: 1)"`
	Max     int     `option:"max" help:"maximum chunk size, 0 for the minimum, -1 for unbounded (default: 0)"`
	Step    int     `option:"step" help:"chunk size step, -1 for 0 with fixed sizes and 1 otherwise (default: -1)"`
	Trailer Trailer `option:"trailer" help:"what to do with a short trailer: error, truncate, passThrough or pad (default: error)"`
}

// DefaultConfig returns the configuration matching New(m, 1).
func DefaultConfig() Config {
	return Config{Min: 1, Step: -1, Trailer: TrailerError}
}

// Options returns the options for New corresponding to c.
func (c Config) Options() []Option {
	var opts []Option
	switch {
	case c.Max < 0:
		opts = append(opts, WithMax(Unbounded))
	case c.Max > 0:
		opts = append(opts, WithMax(c.Max))
	}
	if c.Step >= 0 {
		opts = append(opts, WithStep(c.Step))
	}
	return append(opts, WithTrailer(c.Trailer))
}

// FromConfig returns the operator described by c.
func FromConfig[T any](m Manager[T], c Config) (*Operator[T], error) {
	op, err := New(m, c.Min, c.Options()...)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return op, nil
}
