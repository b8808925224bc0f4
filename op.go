// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Yield is the effect operation for producing one item.
// Perform(Yield[C, X, T]{Item: it}) suspends the producer and hands it to
// the caller. The protocol resumes with the Env of the next resumption,
// which replaces any Env obtained earlier.
type Yield[C, X, T any] struct {
	kont.Phantom[Env[C, X]]
	Item T
}

// Scope is the effect operation for reading the current Env.
// Perform(Scope[C, X]{}) resumes immediately with the Env of the ongoing
// resumption. It never suspends the producer.
type Scope[C, X any] struct {
	kont.Phantom[Env[C, X]]
}
