// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Stack is an assembled chain of layers whose topmost payload type is P
// and whose bottommost wire-unit type is W. X is the context type of the
// topmost layer.
//
// A Stack is built bottom-up with Bottom and On, and the compiler checks
// that every layer's message type is its next layer's payload type. Once
// a Stack has been passed to On or New it is owned and cannot be used
// again: a layer is never reachable from two owners.
type Stack[X, P, W any] struct {
	conn  connection[X, P, W]
	depth int
	owned bool
}

// Depth returns the number of layers in s, counting the terminal one.
func (s *Stack[X, P, W]) Depth() int {
	return s.depth
}

// claim marks s as owned. Panics if s is nil or already owned.
func (s *Stack[X, P, W]) claim() {
	if s == nil {
		panic("pipe: nil stack")
	}
	if s.owned {
		panic("pipe: stack already owned")
	}
	s.owned = true
}

// connection is the Connection behavior of an assembled stack node.
// Its streams are bound to the node; the node's fields never change after
// construction, so holding it is not holding any mutable state.
type connection[X, P, W any] interface {
	send(payload P) stream[X, Item[W]]
	receive(wrapped W) stream[X, Item[P]]
}

// stream is a producer bound to a stack node. The context is the only
// resumption argument, and it is supplied again on every advance.
type stream[X, T any] interface {
	advance(ctx X) (T, bool)
	discard()
}

// Bottom returns a single-layer Stack over the terminal connection conn.
func Bottom[C Connection[C, X, P, W], X, P, W any](conn C) *Stack[X, P, W] {
	return &Stack[X, P, W]{conn: &terminal[C, X, P, W]{conn: conn}, depth: 1}
}

// On pushes mw on top of next and returns the resulting Stack.
// next becomes owned by the result. Panics if next is nil or already owned.
func On[C Middleware[C, X, NX, P, M], X, NX, P, M, W any](mw C, next *Stack[NX, M, W]) *Stack[X, P, W] {
	next.claim()
	return &Stack[X, P, W]{
		conn:  &layer[C, X, NX, P, M, W]{mw: mw, next: next.conn},
		depth: next.depth + 1,
	}
}

// terminal adapts a Connection to a stack node.
type terminal[C Connection[C, X, P, W], X, P, W any] struct {
	conn C
}

func (t *terminal[C, X, P, W]) send(payload P) stream[X, Item[W]] {
	return &terminalStream[C, X, P, W, W]{node: t, src: t.conn.Send(payload, grant())}
}

func (t *terminal[C, X, P, W]) receive(wrapped W) stream[X, Item[P]] {
	return &terminalStream[C, X, P, W, P]{node: t, src: t.conn.Receive(wrapped, grant())}
}

// terminalStream drives a terminal producer, handing it the connection
// from the node at every resumption.
type terminalStream[C Connection[C, X, P, W], X, P, W, T any] struct {
	node *terminal[C, X, P, W]
	src  Producer[C, X, Item[T]]
}

func (s *terminalStream[C, X, P, W, T]) advance(ctx X) (Item[T], bool) {
	if s.src == nil {
		var zero Item[T]
		return zero, false
	}
	it, ok := s.src.Advance(s.node.conn, ctx)
	if !ok {
		s.src = nil
	}
	return it, ok
}

func (s *terminalStream[C, X, P, W, T]) discard() {
	if s.src != nil {
		discard(s.src)
		s.src = nil
	}
}

// layer gives a Middleware the Connection behavior over its payload type.
// next is the Next connection; only the composition core reaches it.
type layer[C Middleware[C, X, NX, P, M], X, NX, P, M, W any] struct {
	mw   C
	next connection[NX, M, W]
}

func (l *layer[C, X, NX, P, M, W]) send(payload P) stream[X, Item[W]] {
	return &sendStream[C, X, NX, P, M, W]{node: l, wrap: l.mw.Wrap(payload, grant())}
}

func (l *layer[C, X, NX, P, M, W]) receive(wrapped W) stream[X, Item[P]] {
	return &receiveStream[C, X, NX, P, M, W]{node: l, below: l.next.receive(wrapped)}
}

// sendStream runs the layer's wrap producer and, for every message it
// yields, the next layer's send to completion before resuming wrap.
//
// Wire units from below pass through unchanged; errors from below pass
// through WrapError. Errors yielded by wrap itself pass through as they
// are. The stream completes when wrap completes.
type sendStream[C Middleware[C, X, NX, P, M], X, NX, P, M, W any] struct {
	node  *layer[C, X, NX, P, M, W]
	wrap  Producer[C, X, Item[M]]
	below stream[NX, Item[W]]
}

func (s *sendStream[C, X, NX, P, M, W]) advance(ctx X) (Item[W], bool) {
	var zero Item[W]
	for s.wrap != nil {
		if s.below != nil {
			it, ok := s.below.advance(s.node.mw.NextCtx(ctx, grant()))
			if ok {
				return mapErr(it, s.wrapError), true
			}
			s.below = nil
		}

		it, ok := s.wrap.Advance(s.node.mw, ctx)
		if !ok {
			s.wrap = nil
			break
		}
		if err, isErr := it.GetLeft(); isErr {
			return Err[W](err), true
		}
		msg, _ := it.GetRight()
		s.below = s.node.next.send(msg)
	}
	return zero, false
}

func (s *sendStream[C, X, NX, P, M, W]) wrapError(err error) error {
	return s.node.mw.WrapError(err, grant())
}

func (s *sendStream[C, X, NX, P, M, W]) discard() {
	if s.below != nil {
		s.below.discard()
		s.below = nil
	}
	if s.wrap != nil {
		discard(s.wrap)
		s.wrap = nil
	}
}

// receiveStream runs the next layer's receive and, for every message it
// yields, the layer's unwrap producer to completion before resuming the
// next layer.
//
// Payloads and errors from unwrap pass through unchanged; errors from
// below pass through UnwrapError. The stream completes when the next
// layer's receive completes.
type receiveStream[C Middleware[C, X, NX, P, M], X, NX, P, M, W any] struct {
	node   *layer[C, X, NX, P, M, W]
	below  stream[NX, Item[M]]
	unwrap Producer[C, X, Item[P]]
}

func (s *receiveStream[C, X, NX, P, M, W]) advance(ctx X) (Item[P], bool) {
	var zero Item[P]
	for s.below != nil {
		if s.unwrap != nil {
			it, ok := s.unwrap.Advance(s.node.mw, ctx)
			if ok {
				return it, true
			}
			s.unwrap = nil
		}

		it, ok := s.below.advance(s.node.mw.NextCtx(ctx, grant()))
		if !ok {
			s.below = nil
			break
		}
		if err, isErr := it.GetLeft(); isErr {
			return Err[P](s.node.mw.UnwrapError(err, grant())), true
		}
		msg, _ := it.GetRight()
		s.unwrap = s.node.mw.Unwrap(msg, grant())
	}
	return zero, false
}

func (s *receiveStream[C, X, NX, P, M, W]) discard() {
	if s.unwrap != nil {
		discard(s.unwrap)
		s.unwrap = nil
	}
	if s.below != nil {
		s.below.discard()
		s.below = nil
	}
}
