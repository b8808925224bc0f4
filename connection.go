// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Connection is the contract of a terminal layer: the raw transport at
// the bottom of a stack, over payload type P and wire-unit type W.
//
// C is the connection's own type. Producers returned by Send and Receive
// are driven with that connection and a context of type X, one
// resumption at a time.
//
// Send and Receive are invoked only by the composition core; they take a
// Cap to make that checkable. Middleware layers do not implement
// Connection: pushing a Middleware onto a Stack with On gives it the
// Connection behavior.
type Connection[C, X, P, W any] interface {
	// Send returns a producer of wire units (or errors) for payload.
	Send(payload P, c Cap) Producer[C, X, Item[W]]

	// Receive returns a producer of payloads (or errors) for wrapped.
	Receive(wrapped W, c Cap) Producer[C, X, Item[P]]
}
