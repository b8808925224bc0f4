// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Buffer is an in-memory terminal connection whose payloads are its wire
// units. Send yields the payload unchanged and records it; Receive
// yields the wire unit unchanged.
//
// X is the context type the layer above projects to; Buffer ignores it.
type Buffer[X, T any] struct {
	sent []T
}

// NewBuffer returns an empty Buffer.
func NewBuffer[X, T any]() *Buffer[X, T] {
	return &Buffer[X, T]{}
}

// Sent returns the wire units sent so far, oldest first.
func (b *Buffer[X, T]) Sent() []T {
	return b.sent
}

// Reset forgets the recorded wire units.
func (b *Buffer[X, T]) Reset() {
	b.sent = nil
}

// Send implements Connection.
func (b *Buffer[X, T]) Send(payload T, _ Cap) Producer[*Buffer[X, T], X, Item[T]] {
	return once(func(b *Buffer[X, T], _ X) Item[T] {
		b.sent = append(b.sent, payload)
		return Ok(payload)
	})
}

// Receive implements Connection.
func (b *Buffer[X, T]) Receive(wrapped T, _ Cap) Producer[*Buffer[X, T], X, Item[T]] {
	return Items[*Buffer[X, T], X](Ok(wrapped))
}

// once returns a producer yielding the single item f computes on its
// first resumption.
func once[C, X, T any](f func(C, X) T) Producer[C, X, T] {
	fired := false
	return Func[C, X, T](func(conn C, ctx X) (T, bool) {
		if fired {
			var zero T
			return zero, false
		}
		fired = true
		return f(conn, ctx), true
	})
}
