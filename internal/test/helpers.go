// Package test contains the assertion helpers shared by the tests of this
// module.
package test

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/observoid/chunks/internal/errors"

	mrand "math/rand"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	if !condition {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: "+msg+"\033[39m\n\n", append([]interface{}{filepath.Base(file), line}, v...)...)
		tb.FailNow()
	}
}

// OK fails the test if an err is not nil.
func OK(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: unexpected error: %+v\033[39m\n\n", filepath.Base(file), line, err)
		tb.FailNow()
	}
}

// Equals fails the test if exp is not equal to act. The failure message
// contains the diff between both values.
func Equals(tb testing.TB, exp, act interface{}, opts ...cmp.Option) {
	tb.Helper()
	if diff := cmp.Diff(exp, act, opts...); diff != "" {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: mismatch (-want +got):\n%s\033[39m\n\n", filepath.Base(file), line, diff)
		tb.FailNow()
	}
}

// ErrorIs fails the test if err does not match target.
func ErrorIs(tb testing.TB, err, target error) {
	tb.Helper()
	if !errors.Is(err, target) {
		_, file, line, _ := runtime.Caller(1)
		fmt.Printf("\033[31m%s:%d: expected error %v, got %v\033[39m\n\n", filepath.Base(file), line, target, err)
		tb.FailNow()
	}
}

// Random returns count bytes of pseudo-random data derived from the seed.
func Random(seed, count int) []byte {
	p := make([]byte, count)

	rnd := mrand.New(mrand.NewSource(int64(seed)))

	for i := 0; i < len(p); i += 8 {
		val := rnd.Int63()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(val >> (8 * j))
		}
	}

	return p
}

// RandomSizes returns n pseudo-random lengths in [0, max], derived from the
// seed. Zero lengths are deliberately included.
func RandomSizes(seed, n, max int) []int {
	rnd := mrand.New(mrand.NewSource(int64(seed)))

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = rnd.Intn(max + 1)
	}

	return sizes
}

// Split cuts data into consecutive pieces with the given sizes. Whatever
// remains after the last size becomes a final piece.
func Split(data []byte, sizes []int) [][]byte {
	var pieces [][]byte
	for _, n := range sizes {
		if n > len(data) {
			n = len(data)
		}
		pieces = append(pieces, data[:n:n])
		data = data[n:]
	}
	if len(data) > 0 {
		pieces = append(pieces, data)
	}

	return pieces
}
