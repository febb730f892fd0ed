package rechunk

import (
	"context"

	"github.com/observoid/chunks/internal/debug"
	"github.com/observoid/chunks/stream"
)

// engine is the state of one subscription to a rechunked stream. It is
// subscribed to the upstream in place of the downstream observer.
type engine[T any] struct {
	ctx     context.Context
	m       Manager[T]
	hints   Hints
	trailer Trailer
	down    stream.Observer[T]

	// pending fragments, bufLen units in total, always less than hints.Min
	buf    []T
	bufLen int

	done bool
}

var _ stream.Observer[[]byte] = &engine[[]byte]{}

// stopped reports whether no further events may be passed on. Observing a
// cancelled context drops the pending fragments.
func (e *engine[T]) stopped() bool {
	if e.done {
		return true
	}
	if e.ctx.Err() != nil {
		e.done = true
		e.reset()
		return true
	}
	return false
}

func (e *engine[T]) reset() {
	clear(e.buf)
	e.buf = e.buf[:0]
	e.bufLen = 0
}

// emit passes c downstream and reports whether the subscription is still
// live afterwards.
func (e *engine[T]) emit(c T) bool {
	e.down.Next(c)
	return !e.stopped()
}

func (e *engine[T]) Next(c T) {
	if e.stopped() {
		return
	}

	n := e.m.Len(c)
	if n == 0 {
		return
	}

	if e.bufLen+n < e.hints.Min {
		e.buf = append(e.buf, c)
		e.bufLen += n
		return
	}

	if e.bufLen != 0 {
		e.buf = append(e.buf, c)
		c = e.m.Join(e.buf)
		n += e.bufLen
		e.reset()
	}

	for n >= e.hints.Min {
		size := sliceLen(e.hints, n)
		if size == n {
			e.emit(c)
			return
		}

		if !e.emit(e.m.Slice(c, 0, size)) {
			return
		}
		c = e.m.Slice(c, size, n)
		n -= size
	}

	e.buf = append(e.buf, c)
	e.bufLen = n
}

func (e *engine[T]) Error(err error) {
	if e.stopped() {
		return
	}
	e.done = true
	e.reset()
	e.down.Error(err)
}

func (e *engine[T]) Complete() {
	if e.stopped() {
		return
	}
	e.done = true

	if e.bufLen == 0 {
		e.down.Complete()
		return
	}

	debug.Log("upstream completed with %d of %d units buffered, trailer policy %v", e.bufLen, e.hints.Min, e.trailer)

	switch e.trailer {
	case TrailerPad:
		e.buf = append(e.buf, e.m.Padding(e.hints.Min-e.bufLen))
		e.down.Next(e.m.Join(e.buf))
	case TrailerPassThrough:
		e.down.Next(e.m.Join(e.buf))
	case TrailerTruncate:
	default:
		err := &MisalignedTrailerError{Buffered: e.bufLen, Min: e.hints.Min}
		e.reset()
		e.down.Error(err)
		return
	}

	e.reset()
	if e.ctx.Err() == nil {
		e.down.Complete()
	}
}
