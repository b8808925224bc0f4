// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// YieldThen yields item and then continues with next.
// Fuses Perform(Yield[C, X, T]{Item: item}) + Then. The Env handed back on
// resumption is dropped; use YieldBind to keep working with it.
func YieldThen[C, X, T, B any](item T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield[C, X, T]{Item: item}), next)
}

// YieldBind yields item and passes the Env of the next resumption to f.
// Fuses Perform(Yield[C, X, T]{Item: item}) + Bind.
func YieldBind[C, X, T, B any](item T, f func(Env[C, X]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Yield[C, X, T]{Item: item}), f)
}

// ScopeBind passes the Env of the ongoing resumption to f.
// Fuses Perform(Scope[C, X]{}) + Bind.
func ScopeBind[C, X, B any](f func(Env[C, X]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Scope[C, X]{}), f)
}

// Done completes a producer protocol.
func Done() kont.Eff[struct{}] {
	return kont.Pure(struct{}{})
}
