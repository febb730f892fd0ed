package stream

import (
	"context"
	"io"
	"sync"
)

type collector[T any] struct {
	mu    sync.Mutex
	items []T
	err   error
	done  chan struct{}
}

func (c *collector[T]) Next(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

func (c *collector[T]) Error(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

func (c *collector[T]) Complete() {
	close(c.done)
}

// Collect subscribes to obs and returns all items once it terminates. The
// error is the one delivered by obs, or the context error if ctx is
// cancelled first. Items received up to that point are returned either way.
func Collect[T any](ctx context.Context, obs Observable[T]) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &collector[T]{done: make(chan struct{})}
	obs.Subscribe(ctx, c)

	var err error
	if !terminated(ctx, c.done) {
		err = ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		err = c.err
	}

	return c.items, err
}

// FromReader returns an observable delivering the data read from rd in
// buffers of at most size bytes. Each buffer is freshly allocated, so
// consumers may keep them. io.EOF completes the stream, any other read
// error is delivered as is.
func FromReader(rd io.Reader, size int) Observable[[]byte] {
	return Func[[]byte](func(ctx context.Context, o Observer[[]byte]) {
		for {
			if ctx.Err() != nil {
				return
			}

			buf := make([]byte, size)
			n, err := rd.Read(buf)
			if n > 0 {
				o.Next(buf[:n])
			}

			switch {
			case err == io.EOF:
				if ctx.Err() == nil {
					o.Complete()
				}
				return
			case err != nil:
				if ctx.Err() == nil {
					o.Error(err)
				}
				return
			}
		}
	})
}

// WriteTo subscribes to obs and writes every item to w. A write error
// cancels the subscription and is returned. The number of bytes written is
// returned in any case.
func WriteTo(ctx context.Context, w io.Writer, obs Observable[[]byte]) (int64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		written  int64
		writeErr error
		done     = make(chan struct{})
		once     sync.Once
	)

	finish := func(err error) {
		once.Do(func() {
			mu.Lock()
			if writeErr == nil {
				writeErr = err
			}
			mu.Unlock()
			close(done)
		})
	}

	obs.Subscribe(ctx, Funcs[[]byte]{
		OnNext: func(buf []byte) {
			if ctx.Err() != nil {
				return
			}
			n, err := w.Write(buf)

			mu.Lock()
			written += int64(n)
			mu.Unlock()

			if err != nil {
				finish(err)
				cancel()
			}
		},
		OnError:    finish,
		OnComplete: func() { finish(nil) },
	})

	var err error
	if !terminated(ctx, done) {
		err = ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if writeErr != nil {
		err = writeErr
	}

	return written, err
}

// terminated waits for done or the end of ctx and reports whether done was
// closed. A closed done wins over a cancelled ctx.
func terminated(ctx context.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
	}

	select {
	case <-done:
		return true
	case <-ctx.Done():
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}
