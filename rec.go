// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// YieldEach yields every element of items in order (Cont-world).
// The tail is built lazily, one Bind per element.
func YieldEach[C, X, T any](items []T) kont.Eff[struct{}] {
	if len(items) == 0 {
		return Done()
	}
	return kont.Bind(kont.Perform(Yield[C, X, T]{Item: items[0]}), func(Env[C, X]) kont.Eff[struct{}] {
		return YieldEach[C, X](items[1:])
	})
}

// ExprYieldEach yields every element of items in order (Expr-world).
// Frames are chained back to front, so the whole protocol is allocated
// up front.
func ExprYieldEach[C, X, T any](items []T) kont.Expr[struct{}] {
	m := ExprDone()
	for i := len(items) - 1; i >= 0; i-- {
		m = ExprYieldThen[C, X](items[i], m)
	}
	return m
}

// Unfold yields the items next derives from successive states.
// next sees the Env of the resumption it runs in and returns the item,
// the following state, and false once nothing is left to yield.
func Unfold[C, X, S, T any](seed S, next func(S, Env[C, X]) (T, S, bool)) kont.Eff[struct{}] {
	return ScopeBind[C, X](func(env Env[C, X]) kont.Eff[struct{}] {
		return unfoldFrom(seed, env, next)
	})
}

func unfoldFrom[C, X, S, T any](s S, env Env[C, X], next func(S, Env[C, X]) (T, S, bool)) kont.Eff[struct{}] {
	it, s, ok := next(s, env)
	if !ok {
		return Done()
	}
	return YieldBind[C, X](it, func(env Env[C, X]) kont.Eff[struct{}] {
		return unfoldFrom(s, env, next)
	})
}
