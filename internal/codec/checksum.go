// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"code.hybscloud.com/pipe"
)

// ChecksumLen is the size of the trailer Checksum appends.
const ChecksumLen = 4

// Checksum appends a big-endian CRC-32 (IEEE) of the payload on wrap, and
// verifies and strips it on unwrap.
type Checksum struct {
	table *crc32.Table
}

// NewChecksum returns a Checksum layer using the IEEE polynomial.
func NewChecksum() *Checksum {
	return &Checksum{table: crc32.IEEETable}
}

func (c *Checksum) Wrap(p []byte, _ pipe.Cap) pipe.Producer[*Checksum, *Session, pipe.Item[[]byte]] {
	out := make([]byte, len(p), len(p)+ChecksumLen)
	copy(out, p)
	out = binary.BigEndian.AppendUint32(out, crc32.Checksum(p, c.table))
	return one[*Checksum](pipe.Ok(out))
}

func (c *Checksum) Unwrap(m []byte, _ pipe.Cap) pipe.Producer[*Checksum, *Session, pipe.Item[[]byte]] {
	if len(m) < ChecksumLen {
		return one[*Checksum](pipe.Err[[]byte](fmt.Errorf("%w: %d bytes, want at least %d", ErrShortFrame, len(m), ChecksumLen)))
	}
	body, trailer := m[:len(m)-ChecksumLen], m[len(m)-ChecksumLen:]
	want := binary.BigEndian.Uint32(trailer)
	if got := crc32.Checksum(body, c.table); got != want {
		return one[*Checksum](pipe.Err[[]byte](fmt.Errorf("%w: got %08x, want %08x", ErrChecksum, got, want)))
	}
	return one[*Checksum](pipe.Ok(body))
}

func (*Checksum) NextCtx(ctx *Session, _ pipe.Cap) *Session { return ctx }

func (*Checksum) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("crc32", pipe.Sending, err)
}

func (*Checksum) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("crc32", pipe.Receiving, err)
}
