package chunks

import (
	"slices"

	"github.com/observoid/chunks/rechunk"
)

// Number is the element type of the slices handled by Numbers.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type numbers[E Number] struct{}

func (numbers[E]) Len(c []E) int { return len(c) }

func (numbers[E]) Slice(c []E, start, end int) []E { return slices.Clip(c[start:end]) }

func (numbers[E]) Padding(n int) []E { return make([]E, n) }

func (numbers[E]) Join(cs [][]E) []E {
	joined := slices.Concat(cs...)
	if joined == nil {
		return []E{}
	}
	return joined
}

// Numbers returns the manager for slices of E. Lengths count elements and
// padding is zero valued. Slices are views.
func Numbers[E Number]() rechunk.Manager[[]E] {
	return numbers[E]{}
}

// Int8s handles []int8.
var Int8s = Numbers[int8]()

// RechunkNumbers returns an operator over slices of E.
func RechunkNumbers[E Number](min int, opts ...rechunk.Option) (*rechunk.Operator[[]E], error) {
	return rechunk.New(Numbers[E](), min, opts...)
}

// RechunkInt8s returns an operator over []int8.
func RechunkInt8s(min int, opts ...rechunk.Option) (*rechunk.Operator[[]int8], error) {
	return rechunk.New(Int8s, min, opts...)
}
