// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/base64"
	"fmt"

	"code.hybscloud.com/pipe"
)

// Base64 encodes payloads as padded standard base64 text.
type Base64 struct {
	enc *base64.Encoding
}

// NewBase64 returns a Base64 layer using base64.StdEncoding.
func NewBase64() *Base64 {
	return &Base64{enc: base64.StdEncoding}
}

func (b *Base64) Wrap(p []byte, _ pipe.Cap) pipe.Producer[*Base64, *Session, pipe.Item[[]byte]] {
	out := make([]byte, b.enc.EncodedLen(len(p)))
	b.enc.Encode(out, p)
	return one[*Base64](pipe.Ok(out))
}

func (b *Base64) Unwrap(m []byte, _ pipe.Cap) pipe.Producer[*Base64, *Session, pipe.Item[[]byte]] {
	out := make([]byte, b.enc.DecodedLen(len(m)))
	n, err := b.enc.Decode(out, m)
	if err != nil {
		return one[*Base64](pipe.Err[[]byte](fmt.Errorf("codec: base64: %w", err)))
	}
	return one[*Base64](pipe.Ok(out[:n]))
}

func (*Base64) NextCtx(ctx *Session, _ pipe.Cap) *Session { return ctx }

func (*Base64) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("base64", pipe.Sending, err)
}

func (*Base64) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("base64", pipe.Receiving, err)
}
