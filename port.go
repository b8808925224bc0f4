// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// linkCapacity is the bounded capacity of each direction of a link.
// 4 keeps the ring buffers within a single cache line while still
// letting a fan-out of a few wire units go through without blocking.
const linkCapacity = 4

// Port is one side of an in-process link: a terminal connection whose
// Send delivers wire units to the peer Port, where Recv picks them up.
// Each direction is a single-producer single-consumer bounded queue, so
// each Port must be driven from one goroutine at a time.
//
// Send is non-blocking: when the peer has not drained the queue, the
// send producer yields Err(iox.ErrWouldBlock) instead of a wire unit.
// The payload is not delivered and the stack goes on with the operation.
type Port[X, T any] struct {
	sendQ    *lfq.SPSC[T]
	recvQ    *lfq.SPSC[T]
	sendSlot T
	serial   Serial
}

// Serial returns the serial number shared by both sides of the link.
func (p *Port[X, T]) Serial() Serial {
	return p.serial
}

// Send implements Connection.
func (p *Port[X, T]) Send(payload T, _ Cap) Producer[*Port[X, T], X, Item[T]] {
	return once(func(p *Port[X, T], _ X) Item[T] {
		p.sendSlot = payload
		if err := p.sendQ.Enqueue(&p.sendSlot); err != nil {
			return Err[T](err)
		}
		return Ok(payload)
	})
}

// Receive implements Connection.
func (p *Port[X, T]) Receive(wrapped T, _ Cap) Producer[*Port[X, T], X, Item[T]] {
	return Items[*Port[X, T], X](Ok(wrapped))
}

// Recv returns the next wire unit sent by the peer.
// Non-blocking: returns iox.ErrWouldBlock if nothing is waiting.
func (p *Port[X, T]) Recv() (T, error) {
	return p.recvQ.Dequeue()
}

// Await returns the next wire unit sent by the peer, waiting past
// iox.ErrWouldBlock with adaptive backoff (iox.Backoff).
func (p *Port[X, T]) Await() T {
	var bo iox.Backoff
	for {
		v, err := p.recvQ.Dequeue()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// link holds both ports and their queues in a single allocation.
type link[X, T any] struct {
	a   Port[X, T]
	b   Port[X, T]
	qAB lfq.SPSC[T]
	qBA lfq.SPSC[T]
}

// NewLink creates a connected pair of ports. What one side sends, the
// other side receives, in order.
func NewLink[X, T any]() (*Port[X, T], *Port[X, T]) {
	s := nextSerial()

	l := &link[X, T]{}
	l.qAB.Init(linkCapacity)
	l.qBA.Init(linkCapacity)

	l.a = Port[X, T]{sendQ: &l.qAB, recvQ: &l.qBA, serial: s}
	l.b = Port[X, T]{sendQ: &l.qBA, recvQ: &l.qAB, serial: s}
	return &l.a, &l.b
}
