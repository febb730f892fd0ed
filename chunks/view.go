package chunks

import (
	"fmt"

	"github.com/observoid/chunks/rechunk"
)

// View is a window of N bytes starting at offset Off of a shared buffer.
type View struct {
	Buf []byte
	Off int
	N   int
}

// NewView returns a view covering all of buf.
func NewView(buf []byte) View {
	return View{Buf: buf, N: len(buf)}
}

// Bytes returns the bytes the view covers.
func (v View) Bytes() []byte {
	return v.Buf[v.Off : v.Off+v.N : v.Off+v.N]
}

func (v View) String() string {
	return fmt.Sprintf("<View %d+%d of %d>", v.Off, v.N, len(v.Buf))
}

type views struct{}

func (views) Len(v View) int { return v.N }

func (views) Slice(v View, start, end int) View {
	return View{Buf: v.Buf, Off: v.Off + start, N: end - start}
}

func (views) Padding(n int) View { return NewView(make([]byte, n)) }

func (views) Join(vs []View) View {
	var n int
	for _, v := range vs {
		n += v.N
	}

	buf := make([]byte, 0, n)
	for _, v := range vs {
		buf = append(buf, v.Bytes()...)
	}
	return NewView(buf)
}

// Views handles views over shared buffers. Slicing only moves the window,
// joining copies into a new buffer.
var Views rechunk.Manager[View] = views{}

// RechunkViews returns an operator over views.
func RechunkViews(min int, opts ...rechunk.Option) (*rechunk.Operator[View], error) {
	return rechunk.New(Views, min, opts...)
}
