// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"errors"
	"iter"

	"github.com/rs/zerolog"
)

// ErrRetired reports that an operation was retired by a later operation
// on the same Pipeline before it completed.
var ErrRetired = errors.New("pipe: stream retired by a later operation")

// Pipeline owns an assembled Stack and its top-level context for their
// whole lifetime. It is the only way to run an operation through the
// stack.
//
// A Pipeline runs one operation at a time: starting Send or Receive
// retires the Stream of the previous operation, which reports completion
// from then on. A Pipeline is not safe for concurrent use.
type Pipeline[X, P, W any] struct {
	stack  *Stack[X, P, W]
	ctx    X
	serial Serial
	log    zerolog.Logger
	active retirer
}

// retirer is a Stream whose element type has been erased.
type retirer interface {
	retire()
}

// New returns a Pipeline owning stack and ctx.
// Panics if stack is nil or already owned.
func New[X, P, W any](stack *Stack[X, P, W], ctx X, opts ...Option) *Pipeline[X, P, W] {
	stack.claim()
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Pipeline[X, P, W]{
		stack:  stack,
		ctx:    ctx,
		serial: nextSerial(),
	}
	p.log = o.logger.With().Uint32("pipeline", p.serial).Int("depth", stack.depth).Logger()
	return p
}

// Ctx returns the top-level context.
// Mutating it between operations is allowed; the stack sees the change
// on its next resumption.
func (p *Pipeline[X, P, W]) Ctx() X {
	return p.ctx
}

// Serial returns the serial number assigned to this pipeline.
func (p *Pipeline[X, P, W]) Serial() Serial {
	return p.serial
}

// Depth returns the number of layers in the pipeline's stack.
func (p *Pipeline[X, P, W]) Depth() int {
	return p.stack.depth
}

// Send starts sending payload down the stack. The returned Stream yields
// the wire units (or errors) produced for it, in depth-first order.
func (p *Pipeline[X, P, W]) Send(payload P) *Stream[W] {
	return open(p, opSend, p.stack.conn.send(payload))
}

// Receive starts passing wrapped up the stack. The returned Stream
// yields the payloads (or errors) produced for it, in depth-first order.
func (p *Pipeline[X, P, W]) Receive(wrapped W) *Stream[P] {
	return open(p, opReceive, p.stack.conn.receive(wrapped))
}

const (
	opSend    = "send"
	opReceive = "receive"
)

// open binds src to p's context and makes it p's active operation.
func open[X, P, W, T any](p *Pipeline[X, P, W], op string, src stream[X, Item[T]]) *Stream[T] {
	if p.active != nil {
		p.active.retire()
	}
	s := &Stream[T]{
		pull: func() (Item[T], bool) { return src.advance(p.ctx) },
		drop: src.discard,
		log:  p.log.With().Str("op", op).Logger(),
	}
	s.onDone = func() {
		if p.active == retirer(s) {
			p.active = nil
		}
	}
	p.active = s
	return s
}

// Stream is a producer pre-bound to a pipeline's stack and context.
// The caller only pulls items; it never sees the context.
type Stream[T any] struct {
	pull    func() (Item[T], bool)
	drop    func()
	onDone  func()
	log     zerolog.Logger
	seq     int
	done    bool
	retired bool
}

// Next resumes the operation and returns its next item, or false once it
// is complete. Control stays with the caller between calls, so an item
// can be acted upon before the operation goes on.
func (s *Stream[T]) Next() (Item[T], bool) {
	if s.done {
		var zero Item[T]
		return zero, false
	}
	it, ok := s.pull()
	if !ok {
		s.finish()
		s.log.Trace().Int("items", s.seq).Msg("complete")
		return it, false
	}
	if err, isErr := it.GetLeft(); isErr {
		s.log.Debug().Int("seq", s.seq).Err(err).Msg("error item")
	} else {
		s.log.Trace().Int("seq", s.seq).Msg("item")
	}
	s.seq++
	return it, true
}

// All returns an iterator over the remaining items. Breaking out of the
// loop leaves the Stream where it stopped; call Discard to abandon it.
func (s *Stream[T]) All() iter.Seq[Item[T]] {
	return func(yield func(Item[T]) bool) {
		for {
			it, ok := s.Next()
			if !ok || !yield(it) {
				return
			}
		}
	}
}

// Done reports whether the Stream is complete, discarded or retired.
func (s *Stream[T]) Done() bool {
	return s.done
}

// Discard abandons the operation. Items already yielded are not rolled
// back, and later calls to Next report completion.
func (s *Stream[T]) Discard() {
	s.abandon("discarded")
}

func (s *Stream[T]) retire() {
	if !s.done {
		s.retired = true
	}
	s.abandon("retired")
}

func (s *Stream[T]) abandon(reason string) {
	if s.done {
		return
	}
	s.drop()
	s.finish()
	s.log.Trace().Int("items", s.seq).Msg(reason)
}

func (s *Stream[T]) finish() {
	s.done = true
	s.pull = nil
	s.drop = nil
	if s.onDone != nil {
		s.onDone()
		s.onDone = nil
	}
}
