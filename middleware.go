// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Middleware is a layer translating between its payload type P and the
// message type M of the layer below it.
//
// C is the middleware's own type and X its context type. NX is the
// context type of the next layer, obtained from X by NextCtx.
//
// All methods are privileged: they are called only by the composition
// core, which passes a valid Cap.
type Middleware[C, X, NX, P, M any] interface {
	// Wrap returns a producer of zero or more messages for payload.
	// Errors it yields reach the caller of Send untranslated.
	Wrap(payload P, c Cap) Producer[C, X, Item[M]]

	// Unwrap returns a producer of zero or more payloads for message.
	// Errors it yields reach the caller of Receive untranslated.
	Unwrap(message M, c Cap) Producer[C, X, Item[P]]

	// NextCtx projects ctx onto the context of the next layer.
	// The result must be a view into ctx, never an independent copy
	// that outlives the call; it is recomputed at every resumption.
	NextCtx(ctx X, c Cap) NX

	// WrapError translates an error yielded by the next layer's send
	// into this layer's vocabulary. It must not fail.
	WrapError(err error, c Cap) error

	// UnwrapError translates an error yielded by the next layer's
	// receive into this layer's vocabulary. It must not fail.
	UnwrapError(err error, c Cap) error
}
