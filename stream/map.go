package stream

import "context"

// Map returns an observable delivering fn(item) for every item of obs.
// Errors and completion pass through unchanged.
func Map[T, U any](obs Observable[T], fn func(T) U) Observable[U] {
	return Func[U](func(ctx context.Context, o Observer[U]) {
		obs.Subscribe(ctx, Funcs[T]{
			OnNext:     func(item T) { o.Next(fn(item)) },
			OnError:    o.Error,
			OnComplete: o.Complete,
		})
	})
}

// Tap returns an observable which calls fn for every item of obs before
// passing it on unchanged.
func Tap[T any](obs Observable[T], fn func(T)) Observable[T] {
	return Map(obs, func(item T) T {
		fn(item)
		return item
	})
}
