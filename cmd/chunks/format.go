package main

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
)

// lister formats emitted chunks for --format list, one line per chunk:
// index, offset, length and the xxhash64 digest.
type lister struct {
	index  int
	offset int64
}

func (l *lister) line(c []byte) []byte {
	s := fmt.Appendf(nil, "%d %d %d %016x\n", l.index, l.offset, len(c), xxhash.Sum64(c))
	l.index++
	l.offset += int64(len(c))
	return s
}

// summary counts the data flowing through the rechunk command.
type summary struct {
	read    uint64
	chunks  int
	emitted uint64
}

func (s *summary) addInput(buf []byte) {
	s.read += uint64(len(buf))
}

func (s *summary) addChunk(c []byte) {
	s.chunks++
	s.emitted += uint64(len(c))
}

func (s *summary) String() string {
	return fmt.Sprintf("%d chunks, %s read, %s emitted",
		s.chunks, humanize.Bytes(s.read), humanize.Bytes(s.emitted))
}
