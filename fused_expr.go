// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is boxed once so that chaining frames does not escape
// an empty struct per call.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprYieldThen yields item and then continues with next.
// Fuses ExprPerform(Yield[C, X, T]{Item: item}) + ExprThen.
func ExprYieldThen[C, X, T, B any](item T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Yield[C, X, T]{Item: item}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func envBindUnwind[C, X, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(Env[C, X]) kont.Expr[B])
	result := f(current.(Env[C, X]))
	return kont.Erased(result.Value), result.Frame
}

// ExprYieldBind yields item and passes the Env of the next resumption to f.
// Fuses ExprPerform(Yield[C, X, T]{Item: item}) + ExprBind.
func ExprYieldBind[C, X, T, B any](item T, f func(Env[C, X]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = envBindUnwind[C, X, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Yield[C, X, T]{Item: item}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprScopeBind passes the Env of the ongoing resumption to f.
// Fuses ExprPerform(Scope[C, X]{}) + ExprBind.
func ExprScopeBind[C, X, B any](f func(Env[C, X]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = envBindUnwind[C, X, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Scope[C, X]{}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprDone completes an Expr-world producer protocol.
func ExprDone() kont.Expr[struct{}] {
	return kont.ExprReturn(struct{}{})
}
