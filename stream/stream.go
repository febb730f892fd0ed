// Package stream defines the push contract the rechunker consumes and
// produces, together with a handful of producers and consumers for it.
//
// A subscription delivers zero or more Next events followed by at most one
// terminal event, either Error or Complete. Events of one subscription are
// never delivered concurrently. Cancelling the context passed to Subscribe
// withdraws interest: producers stop delivering as soon as they notice, and
// no terminal event is sent for a cancelled subscription.
package stream

import (
	"context"
	"iter"
)

// Observer receives the events of one subscription.
type Observer[T any] interface {
	Next(item T)
	Error(err error)
	Complete()
}

// Observable is a source of items that can be subscribed to any number of
// times. Subscribe may deliver all events before it returns, or return
// early and deliver them from another goroutine.
type Observable[T any] interface {
	Subscribe(ctx context.Context, o Observer[T])
}

// Hints describe the shape of the chunks an observable produces: every
// chunk except possibly the last one is between Min and Max units long, and
// when Step is non-zero its length is congruent to Min modulo Step.
type Hints struct {
	Min  int
	Max  int
	Step int
}

// Hinted is implemented by observables which know the shape of their
// chunks.
type Hinted interface {
	ChunkHints() Hints
}

// HintsOf returns the hints carried by obs, if any.
func HintsOf[T any](obs Observable[T]) (Hints, bool) {
	h, ok := obs.(Hinted)
	if !ok {
		return Hints{}, false
	}
	return h.ChunkHints(), true
}

// Func adapts a plain function to Observable.
type Func[T any] func(ctx context.Context, o Observer[T])

// Subscribe calls f.
func (f Func[T]) Subscribe(ctx context.Context, o Observer[T]) {
	f(ctx, o)
}

// Funcs adapts up to three callbacks to Observer. Nil callbacks are skipped.
type Funcs[T any] struct {
	OnNext     func(item T)
	OnError    func(err error)
	OnComplete func()
}

// Next implements Observer.
func (f Funcs[T]) Next(item T) {
	if f.OnNext != nil {
		f.OnNext(item)
	}
}

// Error implements Observer.
func (f Funcs[T]) Error(err error) {
	if f.OnError != nil {
		f.OnError(err)
	}
}

// Complete implements Observer.
func (f Funcs[T]) Complete() {
	if f.OnComplete != nil {
		f.OnComplete()
	}
}

type empty[T any] struct{}

func (empty[T]) Subscribe(ctx context.Context, o Observer[T]) {
	if ctx.Err() == nil {
		o.Complete()
	}
}

// Empty returns an observable which completes immediately. It holds no
// state, so the value can be shared freely.
func Empty[T any]() Observable[T] {
	return empty[T]{}
}

// Fail returns an observable which fails immediately with err.
func Fail[T any](err error) Observable[T] {
	return Func[T](func(ctx context.Context, o Observer[T]) {
		if ctx.Err() == nil {
			o.Error(err)
		}
	})
}

// From returns an observable delivering items in order.
func From[T any](items ...T) Observable[T] {
	return Func[T](func(ctx context.Context, o Observer[T]) {
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			o.Next(item)
		}
		if ctx.Err() == nil {
			o.Complete()
		}
	})
}

// FromSeq returns an observable delivering the values of seq. Every
// subscription iterates seq anew.
func FromSeq[T any](seq iter.Seq[T]) Observable[T] {
	return Func[T](func(ctx context.Context, o Observer[T]) {
		for item := range seq {
			if ctx.Err() != nil {
				return
			}
			o.Next(item)
		}
		if ctx.Err() == nil {
			o.Complete()
		}
	})
}

// FromChan returns an observable delivering the values received from ch
// until it is closed. Values are shared between concurrent subscriptions,
// so it is usually subscribed to once.
func FromChan[T any](ch <-chan T) Observable[T] {
	return Func[T](func(ctx context.Context, o Observer[T]) {
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-ch:
				if !ok {
					if ctx.Err() == nil {
						o.Complete()
					}
					return
				}
				if ctx.Err() != nil {
					return
				}
				o.Next(item)
			}
		}
	})
}

// Concat returns an observable which subscribes to each of obs in turn,
// moving on to the next one when the previous one completes. An error ends
// the whole sequence.
func Concat[T any](obs ...Observable[T]) Observable[T] {
	return Func[T](func(ctx context.Context, o Observer[T]) {
		concatFrom(ctx, o, obs)
	})
}

func concatFrom[T any](ctx context.Context, o Observer[T], obs []Observable[T]) {
	if ctx.Err() != nil {
		return
	}
	if len(obs) == 0 {
		o.Complete()
		return
	}

	obs[0].Subscribe(ctx, Funcs[T]{
		OnNext:  o.Next,
		OnError: o.Error,
		OnComplete: func() {
			concatFrom(ctx, o, obs[1:])
		},
	})
}
