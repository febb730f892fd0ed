// Package rechunk re-segments a stream of variably sized chunks into chunks
// whose sizes lie within a configured range and alignment.
//
// The algorithm is written once against Manager, which knows how to measure,
// slice, pad and join one concrete chunk representation. Package chunks
// provides managers for byte slices, numeric slices, buffer views and text.
//
//	op, err := rechunk.New(chunks.Strings, 4, rechunk.WithTrailer(rechunk.TrailerPad))
//	if err != nil {
//		return err
//	}
//	out, err := stream.Collect(ctx, op.Apply(stream.From("12", "345")))
//	// out is ["1234", "5   "]
package rechunk
