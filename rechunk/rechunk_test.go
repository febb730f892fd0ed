package rechunk_test

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/observoid/chunks/chunks"
	"github.com/observoid/chunks/internal/errors"
	rtest "github.com/observoid/chunks/internal/test"
	"github.com/observoid/chunks/rechunk"
	"github.com/observoid/chunks/stream"
)

func collect[T any](t testing.TB, op *rechunk.Operator[T], in ...T) ([]T, error) {
	t.Helper()
	return stream.Collect(context.TODO(), op.Apply(stream.From(in...)))
}

func TestFixedSizeTrailers(t *testing.T) {
	var tests = []struct {
		trailer rechunk.Trailer
		want    []string
		err     bool
	}{
		{rechunk.TrailerError, []string{"1234"}, true},
		{rechunk.TrailerPad, []string{"1234", "5   "}, false},
		{rechunk.TrailerTruncate, []string{"1234"}, false},
		{rechunk.TrailerPassThrough, []string{"1234", "5"}, false},
	}

	for _, test := range tests {
		t.Run(string(test.trailer), func(t *testing.T) {
			op, err := chunks.RechunkStrings(4, rechunk.WithTrailer(test.trailer))
			rtest.OK(t, err)

			out, err := collect(t, op, "12345")
			rtest.Equals(t, test.want, out)

			if !test.err {
				rtest.OK(t, err)
				return
			}

			var mte *rechunk.MisalignedTrailerError
			rtest.Assert(t, errors.As(err, &mte), "expected misaligned trailer error, got %v", err)
			rtest.Equals(t, rechunk.MisalignedTrailerError{Buffered: 1, Min: 4}, *mte)
		})
	}
}

func TestPadAcrossBoundaries(t *testing.T) {
	op, err := chunks.RechunkBytes(2, rechunk.WithMax(2), rechunk.WithStep(0), rechunk.WithTrailer(rechunk.TrailerPad))
	rtest.OK(t, err)

	out, err := collect(t, op, []byte{1}, []byte{2, 3, 4, 5}, []byte{6, 7}, []byte{8}, []byte{9})
	rtest.OK(t, err)
	rtest.Equals(t, [][]byte{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 0}}, out)
}

func TestFixedSizeZero(t *testing.T) {
	subscribed := false
	upstream := stream.Func[string](func(ctx context.Context, o stream.Observer[string]) {
		subscribed = true
		o.Next("abc")
		o.Complete()
	})

	for _, op := range []*rechunk.Operator[string]{
		rechunk.Must(chunks.Strings, 0),
		rechunk.Must(chunks.Strings, 5, rechunk.WithMax(4)),
		rechunk.Must(chunks.Strings, 3, rechunk.WithMax(0), rechunk.WithTrailer(rechunk.TrailerPad)),
	} {
		rtest.Assert(t, op.Degenerate(), "operator with hints %+v not degenerate", op.Hints())
		rtest.Equals(t, rechunk.Hints{}, op.Hints())

		out := op.Apply(upstream)
		rtest.Equals(t, rechunk.Hints{}, out.ChunkHints())

		items, err := stream.Collect(context.TODO(), out)
		rtest.OK(t, err)
		rtest.Assert(t, len(items) == 0, "degenerate operator emitted %v", items)
	}

	rtest.Assert(t, !subscribed, "degenerate operator subscribed to its input")
}

func TestStepExceedsRange(t *testing.T) {
	op, err := chunks.RechunkStrings(1, rechunk.WithMax(5), rechunk.WithStep(10))
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 1, Max: 1}, op.Hints())

	out, err := collect(t, op, "abcde")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"a", "b", "c", "d", "e"}, out)
}

func TestZeroMinWithStep(t *testing.T) {
	op, err := chunks.RechunkStrings(0, rechunk.WithMax(8), rechunk.WithStep(4))
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 1, Max: 8, Step: 4}, op.Hints())

	out, err := collect(t, op, "a", "b", "c")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"a", "b", "c"}, out)

	out, err = collect(t, op, "abcdefghij")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"abcdefgh", "i", "j"}, out)
}

func TestRangeWithStep(t *testing.T) {
	op, err := chunks.RechunkStrings(2, rechunk.WithMax(8), rechunk.WithStep(3), rechunk.WithTrailer(rechunk.TrailerPassThrough))
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 2, Max: 8, Step: 3}, op.Hints())

	// 7 units: largest size congruent to 2 mod 3 is 5, leaving 2
	out, err := collect(t, op, "abcdefg", "0123456789abc", "x")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"abcde", "fg", "01234567", "89abc", "x"}, out)
}

func TestUnbounded(t *testing.T) {
	op, err := chunks.RechunkStrings(3, rechunk.WithMax(rechunk.Unbounded), rechunk.WithTrailer(rechunk.TrailerPassThrough))
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 3, Max: rechunk.Unbounded, Step: 1}, op.Hints())

	out, err := collect(t, op, "ab", "cdefg", "", "hi", "jklmnopqrstuvwxyz")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"abcdefg", "hijklmnopqrstuvwxyz"}, out)

	op, err = chunks.RechunkStrings(3, rechunk.WithMax(rechunk.Unbounded), rechunk.WithStep(3), rechunk.WithTrailer(rechunk.TrailerTruncate))
	rtest.OK(t, err)

	out, err = collect(t, op, "abcdefgh")
	rtest.OK(t, err)
	rtest.Equals(t, []string{"abcdef"}, out)
}

func TestDefaults(t *testing.T) {
	op, err := rechunk.New(chunks.Strings, 1)
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 1, Max: 1}, op.Hints())
	rtest.Equals(t, rechunk.TrailerError, op.Trailer())

	op, err = rechunk.New(chunks.Strings, 2, rechunk.WithMax(6))
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 2, Max: 6, Step: 1}, op.Hints())
}

func TestInvalidParameters(t *testing.T) {
	for _, opts := range [][]rechunk.Option{
		{rechunk.WithMax(-1)},
		{rechunk.WithStep(-2)},
		{rechunk.WithTrailer("zero")},
	} {
		_, err := rechunk.New(chunks.Strings, 2, opts...)
		rtest.ErrorIs(t, err, rechunk.ErrInvalidPolicy)
	}

	_, err := rechunk.New(chunks.Strings, -1)
	rtest.ErrorIs(t, err, rechunk.ErrInvalidPolicy)
}

func TestMustPanics(t *testing.T) {
	defer func() {
		rtest.Assert(t, recover() != nil, "Must did not panic")
	}()
	rechunk.Must(chunks.Strings, -1)
}

func TestUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	op := rechunk.Must(chunks.Strings, 4, rechunk.WithTrailer(rechunk.TrailerPassThrough))

	in := stream.Concat(stream.From("abcdef"), stream.Fail[string](boom), stream.From("never"))
	out, err := stream.Collect(context.TODO(), op.Apply(in))
	rtest.Assert(t, err == boom, "upstream error was changed to %v", err)
	rtest.Equals(t, []string{"abcd"}, out)
}

func TestCancelStopsUpstream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()

	delivered := 0
	upstream := stream.Func[string](func(ctx context.Context, o stream.Observer[string]) {
		for i := 0; i < 100; i++ {
			if ctx.Err() != nil {
				return
			}
			delivered++
			o.Next("ab")
		}
		o.Complete()
	})

	var got []string
	terminated := false
	op := rechunk.Must(chunks.Strings, 4, rechunk.WithTrailer(rechunk.TrailerPassThrough))
	op.Apply(upstream).Subscribe(ctx, stream.Funcs[string]{
		OnNext: func(s string) {
			got = append(got, s)
			cancel()
		},
		OnError:    func(error) { terminated = true },
		OnComplete: func() { terminated = true },
	})

	rtest.Equals(t, []string{"abab"}, got)
	rtest.Equals(t, 2, delivered)
	rtest.Assert(t, !terminated, "terminal event after cancellation")
}

func TestCancelWhileSlicing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()

	var got []string
	op := rechunk.Must(chunks.Strings, 2, rechunk.WithTrailer(rechunk.TrailerPad))
	op.Apply(stream.From("abcdefg")).Subscribe(ctx, stream.Funcs[string]{
		OnNext: func(s string) {
			got = append(got, s)
			if len(got) == 2 {
				cancel()
			}
		},
		OnComplete: func() { t.Error("completed after cancellation") },
	})

	rtest.Equals(t, []string{"ab", "cd"}, got)
}

// An upstream ignoring the cancellation must not get any events through.
func TestCancelIgnoredByUpstream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())

	upstream := stream.Func[string](func(_ context.Context, o stream.Observer[string]) {
		o.Next("abcde")
		cancel()
		o.Next("fghij")
		o.Complete()
	})

	var got []string
	op := rechunk.Must(chunks.Strings, 4, rechunk.WithTrailer(rechunk.TrailerPassThrough))
	op.Apply(upstream).Subscribe(ctx, stream.Funcs[string]{
		OnNext:     func(s string) { got = append(got, s) },
		OnComplete: func() { t.Error("completed after cancellation") },
	})

	rtest.Equals(t, []string{"abcd"}, got)
}

func TestSubscriptionsAreIndependent(t *testing.T) {
	op := rechunk.Must(chunks.Strings, 3, rechunk.WithTrailer(rechunk.TrailerPad))
	out := op.Apply(stream.From("a", "bcd", "efghi", "j"))
	want := []string{"abc", "def", "ghi", "j  "}

	for i := 0; i < 3; i++ {
		got, err := stream.Collect(context.TODO(), out)
		rtest.OK(t, err)
		rtest.Equals(t, want, got)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := stream.Collect(context.TODO(), out)
			if err != nil {
				t.Errorf("unexpected error %v", err)
				return
			}
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("want %q, got %q", want, got)
			}
		}()
	}
	wg.Wait()
}

func TestChunkHints(t *testing.T) {
	op := rechunk.Must(chunks.Strings, 2, rechunk.WithMax(9), rechunk.WithStep(2))
	out := op.Apply(stream.From("x"))

	h, ok := stream.HintsOf[string](out)
	rtest.Assert(t, ok, "rechunked stream carries no hints")
	rtest.Equals(t, op.Hints(), h)

	// hinted input is accepted and rechunked again
	again := rechunk.Must(chunks.Strings, 4).Apply(out)
	rtest.Equals(t, rechunk.Hints{Min: 4, Max: 4}, again.ChunkHints())
}

func TestConfig(t *testing.T) {
	op, err := rechunk.FromConfig(chunks.Strings, rechunk.DefaultConfig())
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 1, Max: 1}, op.Hints())

	op, err = rechunk.FromConfig(chunks.Strings, rechunk.Config{Min: 2, Max: -1, Step: 2, Trailer: rechunk.TrailerPad})
	rtest.OK(t, err)
	rtest.Equals(t, rechunk.Hints{Min: 2, Max: rechunk.Unbounded, Step: 2}, op.Hints())
	rtest.Equals(t, rechunk.TrailerPad, op.Trailer())

	_, err = rechunk.FromConfig(chunks.Strings, rechunk.Config{Min: -3})
	rtest.ErrorIs(t, err, rechunk.ErrInvalidPolicy)
}

type policy struct {
	min, max, step int
}

func randomPolicy(rnd *rand.Rand) policy {
	p := policy{min: rnd.Intn(12)}
	switch rnd.Intn(4) {
	case 0:
		p.max = p.min
	case 1:
		p.max = rechunk.Unbounded
	default:
		p.max = p.min + rnd.Intn(24)
	}
	p.step = rnd.Intn(7)
	return p
}

func checkShape(t testing.TB, h rechunk.Hints, out [][]byte) {
	t.Helper()
	for i, c := range out {
		if i == len(out)-1 {
			break
		}
		rtest.Assert(t, len(c) >= h.Min && len(c) <= h.Max, "chunk %d has length %d outside %+v", i, len(c), h)
		if h.Step > 0 && len(c) != h.Max {
			rtest.Assert(t, (len(c)-h.Min)%h.Step == 0, "chunk %d has misaligned length %d for %+v", i, len(c), h)
		}
	}
}

func insertEmpty(rnd *rand.Rand, in [][]byte) [][]byte {
	var res [][]byte
	for _, c := range in {
		for rnd.Intn(3) == 0 {
			res = append(res, []byte{})
		}
		res = append(res, c)
	}
	return append(res, nil)
}

func TestProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(int64(rtest.TestSeed)))

	for round := 0; round < rtest.TestRounds; round++ {
		p := randomPolicy(rnd)
		data := rtest.Random(rnd.Int(), rnd.Intn(300))
		in := rtest.Split(data, rtest.RandomSizes(rnd.Int(), rnd.Intn(20), 40))

		for _, trailer := range []rechunk.Trailer{rechunk.TrailerError, rechunk.TrailerTruncate, rechunk.TrailerPassThrough, rechunk.TrailerPad} {
			name := fmt.Sprintf("%d/%+v/%v", round, p, trailer)
			op, err := chunks.RechunkByteViews(p.min, rechunk.WithMax(p.max), rechunk.WithStep(p.step), rechunk.WithTrailer(trailer))
			rtest.OK(t, err)

			out, err := collect(t, op, in...)
			if op.Degenerate() {
				rtest.OK(t, err)
				rtest.Assert(t, len(out) == 0, "%v: degenerate operator emitted %d chunks", name, len(out))
				continue
			}

			h := op.Hints()
			checkShape(t, h, out)
			joined := bytes.Join(out, nil)

			switch trailer {
			case rechunk.TrailerPassThrough:
				rtest.OK(t, err)
				rtest.Assert(t, bytes.Equal(data, joined), "%v: data not conserved", name)
			case rechunk.TrailerTruncate:
				rtest.OK(t, err)
				rtest.Assert(t, bytes.HasPrefix(data, joined), "%v: output is not a prefix of the input", name)
				rtest.Assert(t, len(data)-len(joined) < h.Min, "%v: dropped %d units", name, len(data)-len(joined))
			case rechunk.TrailerPad:
				rtest.OK(t, err)
				rtest.Assert(t, bytes.HasPrefix(joined, data), "%v: input is not a prefix of the output", name)
				padding := joined[len(data):]
				rtest.Assert(t, len(padding) < h.Min, "%v: %d padding units", name, len(padding))
				rtest.Assert(t, bytes.Count(padding, []byte{0}) == len(padding), "%v: non-zero padding", name)
				if len(out) > 0 {
					last := out[len(out)-1]
					rtest.Assert(t, len(last) >= h.Min && len(last) <= h.Max, "%v: last chunk length %d", name, len(last))
				}
				if h.Step == 0 && len(data)%h.Min != 0 {
					rtest.Equals(t, h.Min-len(data)%h.Min, len(padding))
				}
			case rechunk.TrailerError:
				if err == nil {
					rtest.Assert(t, bytes.Equal(data, joined), "%v: data not conserved", name)
					break
				}
				var mte *rechunk.MisalignedTrailerError
				rtest.Assert(t, errors.As(err, &mte), "%v: unexpected error %v", name, err)
				rtest.Assert(t, bytes.HasPrefix(data, joined), "%v: output is not a prefix of the input", name)
				rtest.Equals(t, len(data)-len(joined), mte.Buffered)
				rtest.Assert(t, mte.Buffered > 0 && mte.Buffered < h.Min, "%v: leftover %d", name, mte.Buffered)
			}

			// zero length chunks are invisible
			again, err2 := collect(t, op, insertEmpty(rnd, in)...)
			rtest.Equals(t, fmt.Sprint(err), fmt.Sprint(err2))
			rtest.Equals(t, out, again)
		}
	}
}
