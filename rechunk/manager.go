package rechunk

// Manager is the set of operations the rechunker needs on a chunk type T.
// It never looks at the contents of a chunk.
//
// Implementations must guarantee Len(Slice(c, a, b)) == b-a,
// Len(Join(cs)) == sum of Len(cs[i]) and Len(Padding(n)) == n.
type Manager[T any] interface {
	// Len returns the number of units in c.
	Len(c T) int
	// Slice returns the units [start, end) of c. The result may share
	// storage with c.
	Slice(c T, start, end int) T
	// Padding returns a chunk of n neutral units.
	Padding(n int) T
	// Join concatenates cs into a chunk with its own storage.
	Join(cs []T) T
}
