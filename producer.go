// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Producer is a one-shot suspendable operation.
//
// Each call to Advance resumes the operation with the connection and
// context it may use for that resumption only, and returns the next item
// with true, or the zero value with false once production is complete.
// Implementations must not keep conn or ctx past the return of Advance:
// the next resumption hands them over again.
//
// A Producer is not restartable. Advancing past completion keeps
// returning false for producers built by this package.
type Producer[C, X, T any] interface {
	Advance(conn C, ctx X) (T, bool)
}

// Discarder is implemented by producers holding resources that must be
// released when they are abandoned before completion.
type Discarder interface {
	Discard()
}

// discard releases p if it is a Discarder.
func discard(p any) {
	if d, ok := p.(Discarder); ok {
		d.Discard()
	}
}

// Env is the (connection, context) pair handed to a producer for the
// duration of one resumption.
type Env[C, X any] struct {
	Conn C
	Ctx  X
}

// Func adapts an ordinary function to a Producer. The function is called
// once per resumption.
type Func[C, X, T any] func(conn C, ctx X) (T, bool)

// Advance calls f(conn, ctx).
func (f Func[C, X, T]) Advance(conn C, ctx X) (T, bool) {
	return f(conn, ctx)
}

// Empty returns a producer that completes without yielding.
func Empty[C, X, T any]() Producer[C, X, T] {
	return Func[C, X, T](func(C, X) (T, bool) {
		var zero T
		return zero, false
	})
}

// Items returns a producer yielding items in order.
func Items[C, X, T any](items ...T) Producer[C, X, T] {
	return &sliceProducer[C, X, T]{items: items}
}

type sliceProducer[C, X, T any] struct {
	items []T
}

func (p *sliceProducer[C, X, T]) Advance(C, X) (T, bool) {
	if len(p.items) == 0 {
		var zero T
		return zero, false
	}
	it := p.items[0]
	p.items = p.items[1:]
	return it, true
}

// Discard drops the remaining items.
func (p *sliceProducer[C, X, T]) Discard() {
	p.items = nil
}
