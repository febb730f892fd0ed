package rechunk

import (
	"math"

	"github.com/observoid/chunks/internal/errors"
	"github.com/observoid/chunks/stream"
)

// Unbounded can be passed as maximum chunk size to leave chunks unbounded.
const Unbounded = math.MaxInt

// Hints is the effective size policy of an operator.
type Hints = stream.Hints

// ErrInvalidPolicy is wrapped by every error returned for unusable
// operator parameters.
var ErrInvalidPolicy = errors.New("invalid size policy")

// Normalize validates the raw parameters and returns the effective size
// policy. ok is false if the policy can never produce a chunk, in that case
// the returned hints are all zero.
//
// The effective policy either has Step == 0 and Min == Max, or Step > 0,
// Max > Min and Max-Min a multiple of Step (Max == Unbounded excepted).
// A zero min is raised to 1 after the range has been aligned, so with
// min == 0 and step > 1 the range is aligned to zero instead.
func Normalize(min, max, step int) (h Hints, ok bool, err error) {
	switch {
	case min < 0:
		return Hints{}, false, errors.Wrapf(ErrInvalidPolicy, "min chunk size %d cannot be negative", min)
	case max < 0:
		return Hints{}, false, errors.Wrapf(ErrInvalidPolicy, "max chunk size %d cannot be negative", max)
	case step < 0:
		return Hints{}, false, errors.Wrapf(ErrInvalidPolicy, "chunk size step %d cannot be negative", step)
	}

	if max == 0 || max < min {
		return Hints{}, false, nil
	}

	switch {
	case min == max:
		step = 0
	case max-min < step:
		// the step does not fit into the range
		max, step = min, 0
	case step == 0:
		max = min
	case max != Unbounded:
		max -= (max - min) % step
	}

	if max == 0 {
		// collapsed to a fixed size of zero
		return Hints{}, false, nil
	}

	if min == 0 {
		// empty chunks are never emitted
		min = 1
		if min == max {
			step = 0
		}
	}

	return Hints{Min: min, Max: max, Step: step}, true, nil
}

// sliceLen returns the size of the next chunk to cut from n available
// units, given n >= h.Min: the largest valid size not exceeding n.
func sliceLen(h Hints, n int) int {
	if n >= h.Max {
		return h.Max
	}
	if h.Step == 0 {
		// only reachable with Min == Max, which is handled above
		return h.Min
	}
	return n - (n-h.Min)%h.Step
}
