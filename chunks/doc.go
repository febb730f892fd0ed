// Package chunks implements rechunk.Manager for common chunk
// representations and offers a factory per representation.
//
// Managers returning views (ByteViews, Numbers, Views) slice without
// copying, so the rechunker may hold on to parts of the input chunks until
// it emits them. Producers feeding such managers must not reuse their
// buffers.
package chunks
