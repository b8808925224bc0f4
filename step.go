// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Generate turns an Expr-world protocol performing Yield and Scope
// effects into a Producer.
//
// The protocol does not run until the first Advance. Each Advance
// evaluates it up to the next Yield, dispatching any Scope on the way
// with the pair passed to that Advance. A Yield suspends evaluation; the
// next Advance resumes the suspension with its own fresh Env. The
// producer completes when the protocol returns.
func Generate[C, X, T any](protocol kont.Expr[struct{}]) Producer[C, X, T] {
	return &generator[C, X, T]{protocol: protocol}
}

// GenerateEff is Generate for Cont-world protocols.
func GenerateEff[C, X, T any](protocol kont.Eff[struct{}]) Producer[C, X, T] {
	return Generate[C, X, T](kont.Reify(protocol))
}

// generator steps a protocol one Yield at a time.
// started distinguishes "not yet evaluated" from "completed" when susp is nil.
type generator[C, X, T any] struct {
	protocol kont.Expr[struct{}]
	susp     *kont.Suspension[struct{}]
	started  bool
	done     bool
}

// Advance resumes the protocol with (conn, ctx) until it yields or returns.
// Panics if the protocol performs an effect other than Yield[C, X, T] or
// Scope[C, X].
func (g *generator[C, X, T]) Advance(conn C, ctx X) (T, bool) {
	var zero T
	if g.done {
		return zero, false
	}
	env := Env[C, X]{Conn: conn, Ctx: ctx}

	var susp *kont.Suspension[struct{}]
	if !g.started {
		g.started = true
		_, susp = kont.StepExpr(g.protocol)
		g.protocol = kont.Expr[struct{}]{}
	} else {
		_, susp = g.susp.Resume(env)
		g.susp = nil
	}

	for susp != nil {
		switch op := susp.Op().(type) {
		case Yield[C, X, T]:
			g.susp = susp
			return op.Item, true
		case Scope[C, X]:
			_, susp = susp.Resume(env)
		default:
			g.done = true
			susp.Discard()
			panic("pipe: unhandled effect in producer")
		}
	}
	g.done = true
	return zero, false
}

// Discard releases a pending suspension. Later calls to Advance report
// completion.
func (g *generator[C, X, T]) Discard() {
	if g.susp != nil {
		g.susp.Discard()
		g.susp = nil
	}
	g.protocol = kont.Expr[struct{}]{}
	g.started = true
	g.done = true
}
