package rechunk

import (
	"fmt"
	"strings"

	"github.com/observoid/chunks/internal/errors"
)

// Trailer selects what happens to buffered data shorter than the minimum
// chunk size when the upstream completes.
type Trailer string

const (
	// TrailerError fails the stream with a *MisalignedTrailerError.
	TrailerError Trailer = "error"
	// TrailerTruncate drops the trailer.
	TrailerTruncate Trailer = "truncate"
	// TrailerPassThrough emits the trailer as a short last chunk.
	TrailerPassThrough Trailer = "passThrough"
	// TrailerPad fills the trailer up to the minimum chunk size.
	TrailerPad Trailer = "pad"
)

var trailers = []Trailer{TrailerError, TrailerTruncate, TrailerPassThrough, TrailerPad}

// ParseTrailer returns the trailer policy named s, ignoring case.
func ParseTrailer(s string) (Trailer, error) {
	for _, t := range trailers {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidPolicy, "unknown trailer policy %q", s)
}

func (t Trailer) String() string {
	if t == "" {
		return string(TrailerError)
	}
	return string(t)
}

// Set implements pflag.Value.
func (t *Trailer) Set(s string) error {
	v, err := ParseTrailer(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Type implements pflag.Value.
func (t *Trailer) Type() string {
	return "trailer"
}

// MisalignedTrailerError is delivered instead of completion when the
// upstream ends with fewer than Min buffered units and the trailer policy
// is TrailerError.
type MisalignedTrailerError struct {
	Buffered int
	Min      int
}

func (e *MisalignedTrailerError) Error() string {
	return fmt.Sprintf("misaligned trailer: %d units left over, chunks need at least %d", e.Buffered, e.Min)
}

// IsMisalignedTrailer reports whether err is or wraps a
// *MisalignedTrailerError.
func IsMisalignedTrailer(err error) bool {
	var e *MisalignedTrailerError
	return errors.As(err, &e)
}
