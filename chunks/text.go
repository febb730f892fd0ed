package chunks

import (
	"slices"
	"strings"

	"github.com/observoid/chunks/rechunk"
)

type text struct{}

func (text) Len(s string) int { return len(s) }

func (text) Slice(s string, start, end int) string { return s[start:end] }

func (text) Padding(n int) string { return strings.Repeat(" ", n) }

func (text) Join(ss []string) string { return strings.Join(ss, "") }

type runes struct{}

func (runes) Len(r []rune) int { return len(r) }

func (runes) Slice(r []rune, start, end int) []rune { return slices.Clip(r[start:end]) }

func (runes) Padding(n int) []rune {
	r := make([]rune, n)
	for i := range r {
		r[i] = ' '
	}
	return r
}

func (runes) Join(rs [][]rune) []rune {
	joined := slices.Concat(rs...)
	if joined == nil {
		return []rune{}
	}
	return joined
}

var (
	// Strings handles text measured in bytes and padded with spaces. A
	// multi-byte character may be split between two chunks.
	Strings rechunk.Manager[string] = text{}

	// Runes handles text measured in code points and padded with spaces.
	Runes rechunk.Manager[[]rune] = runes{}
)

// RechunkStrings returns an operator over strings.
func RechunkStrings(min int, opts ...rechunk.Option) (*rechunk.Operator[string], error) {
	return rechunk.New(Strings, min, opts...)
}

// RechunkRunes returns an operator over rune slices.
func RechunkRunes(min int, opts ...rechunk.Option) (*rechunk.Operator[[]rune], error) {
	return rechunk.New(Runes, min, opts...)
}
