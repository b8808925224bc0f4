// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Cap is the capability passed to every privileged layer method
// (Wrap, Unwrap, NextCtx, WrapError, UnwrapError, Send, Receive).
// Only this package mints a valid Cap, so a layer can tell a call made
// by the composition core from one made directly by embedder code.
// The zero Cap is invalid.
type Cap struct {
	seal *seal
}

type seal struct{ _ byte }

// granted is the single seal held by the composition core.
var granted = &seal{}

// grant returns the valid capability.
func grant() Cap {
	return Cap{seal: granted}
}

// Valid reports whether c was minted by the composition core.
func (c Cap) Valid() bool {
	return c.seal == granted
}

// Must panics unless c is valid. Layers that want to refuse direct calls
// invoke it at the top of their privileged methods.
func (c Cap) Must() {
	if c.seal != granted {
		panic("pipe: privileged layer method called outside the composition core")
	}
}
