// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"code.hybscloud.com/pipe"
)

// Upper upper-cases ASCII letters on wrap; every other byte, including
// non-ASCII and invalid UTF-8, is left as is. Unwrap passes messages
// through unchanged: upper-casing has no inverse.
type Upper struct{}

func (*Upper) Wrap(p []byte, _ pipe.Cap) pipe.Producer[*Upper, *Session, pipe.Item[[]byte]] {
	return one[*Upper](pipe.Ok(asciiUpper(p)))
}

func asciiUpper(p []byte) []byte {
	out := make([]byte, len(p))
	for i, c := range p {
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return out
}

func (*Upper) Unwrap(m []byte, _ pipe.Cap) pipe.Producer[*Upper, *Session, pipe.Item[[]byte]] {
	return one[*Upper](pipe.Ok(m))
}

func (*Upper) NextCtx(ctx *Session, _ pipe.Cap) *Session { return ctx }

func (*Upper) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("upper", pipe.Sending, err)
}

func (*Upper) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("upper", pipe.Receiving, err)
}
