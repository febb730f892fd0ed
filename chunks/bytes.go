package chunks

import (
	"bytes"

	"github.com/observoid/chunks/rechunk"
)

type byteCopies struct{}

func (byteCopies) Len(c []byte) int { return len(c) }

func (byteCopies) Slice(c []byte, start, end int) []byte {
	return append([]byte{}, c[start:end]...)
}

func (byteCopies) Padding(n int) []byte { return make([]byte, n) }

func (byteCopies) Join(cs [][]byte) []byte { return join(cs) }

type byteViews struct{}

func (byteViews) Len(c []byte) int { return len(c) }

// Slice limits the capacity of the view so that appending to it cannot
// overwrite the data following it.
func (byteViews) Slice(c []byte, start, end int) []byte { return c[start:end:end] }

func (byteViews) Padding(n int) []byte { return make([]byte, n) }

func (byteViews) Join(cs [][]byte) []byte { return join(cs) }

func join(cs [][]byte) []byte {
	return bytes.Join(cs, []byte{})
}

var (
	// Bytes handles byte slices, copying on every slice so that every
	// emitted chunk owns its storage.
	Bytes rechunk.Manager[[]byte] = byteCopies{}

	// ByteViews handles byte slices, slicing without copying.
	ByteViews rechunk.Manager[[]byte] = byteViews{}
)

// RechunkBytes returns an operator over byte slices using Bytes.
func RechunkBytes(min int, opts ...rechunk.Option) (*rechunk.Operator[[]byte], error) {
	return rechunk.New(Bytes, min, opts...)
}

// RechunkByteViews returns an operator over byte slices using ByteViews.
func RechunkByteViews(min int, opts ...rechunk.Option) (*rechunk.Operator[[]byte], error) {
	return rechunk.New(ByteViews, min, opts...)
}
