// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipe composes independently written codec layers (framing,
// compression, encryption, ...) into a single protocol stack over a raw
// transport, without buffering whole messages at any layer.
//
// Sending walks a payload down through every layer's wrap step to wire
// units; receiving walks a wire unit back up through every unwrap step.
// Any layer may suspend mid-operation to emit a partial result, fan one
// input out into many outputs, and translate errors from the layer below
// into its own vocabulary.
//
// # Architecture
//
//   - Producers: A [Producer] yields items one resumption at a time. Each
//     [Producer.Advance] receives the connection and context valid for
//     that resumption only. Items are [Item] values: kont.Either with the
//     error on the Left.
//   - Layers: A [Middleware] wraps payloads into messages and unwraps them
//     back. A [Connection] is the terminal transport. Privileged methods
//     take a [Cap] that only this package can mint.
//   - Composition: [Bottom] and [On] assemble a typed [Stack]; the stack
//     multiplexes every layer's partial production depth-first.
//   - Driving: A [Pipeline] owns the stack and its context. [Pipeline.Send]
//     and [Pipeline.Receive] return a [Stream] the caller pulls from.
//
// # Authoring producers
//
// Producers can be written as plain state machines ([Func], [Items]) or
// as effect protocols on [code.hybscloud.com/kont]: [Yield] suspends with
// an item and resumes with a fresh [Env], [Scope] reads the current one.
// [Generate] and [GenerateEff] step such protocols.
//
// # Error handling
//
// Errors are items and never stop production. An error yielded by a
// layer's own wrap or unwrap reaches the caller as is. An error from the
// next layer always passes through the layer's WrapError or UnwrapError
// first. Completion is the only terminal signal.
//
// # Transports
//
// [Buffer] is an in-memory terminal. [NewLink] creates a pair of [Port]
// terminals over bounded lock-free SPSC queues ([code.hybscloud.com/lfq]);
// a full queue surfaces as [code.hybscloud.com/iox.ErrWouldBlock].
//
// # Example
//
//	stack := pipe.On[*Upper, *Ctx, *Ctx, string, string, []byte](upper,
//		pipe.On[*Base64, *Ctx, *Ctx, string, []byte, []byte](b64,
//			pipe.Bottom[*pipe.Buffer[*Ctx, []byte], *Ctx, []byte, []byte](pipe.NewBuffer[*Ctx, []byte]())))
//	p := pipe.New(stack, &Ctx{})
//	for it := range p.Send("hi").All() {
//		unit, err := pipe.Unpack(it) // unit == []byte("SEk=")
//		...
//	}
package pipe
