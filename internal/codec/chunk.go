// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

const (
	// ChunkHeaderLen is the size of the header in front of every chunk:
	// a big-endian uint16 sequence number followed by a flags byte.
	ChunkHeaderLen = 3

	// FlagFinal marks the last chunk of a message.
	FlagFinal byte = 0x01
)

// Chunker splits every payload into chunks of at most Size data bytes and
// reassembles them on receive. An empty payload is sent as a single empty
// final chunk.
//
// Chunks of one message are numbered from 0. On receive, a chunk carrying
// more than Size data bytes fails with ErrChunkTooLarge, and a message
// without a final chunk by sequence number 65535 fails with
// ErrPayloadTooLarge. Reassembly state lives in
// the Session, per Chunker, and is reset after every complete message and
// every error.
type Chunker struct {
	Size int
}

type chunkCursor struct {
	off  int
	seq  uint16
	done bool
}

// Wrap panics if c.Size is not positive.
func (c *Chunker) Wrap(p []byte, _ pipe.Cap) pipe.Producer[*Chunker, *Session, pipe.Item[[]byte]] {
	if c.Size <= 0 {
		panic("codec: chunk size must be positive")
	}
	if n := (len(p) + c.Size - 1) / c.Size; n > math.MaxUint16+1 {
		return one[*Chunker](pipe.Err[[]byte](fmt.Errorf("%w: %d bytes in chunks of %d", ErrPayloadTooLarge, len(p), c.Size)))
	}
	return pipe.GenerateEff[*Chunker, *Session, pipe.Item[[]byte]](
		pipe.Unfold[*Chunker, *Session](chunkCursor{}, func(cur chunkCursor, env pipe.Env[*Chunker, *Session]) (pipe.Item[[]byte], chunkCursor, bool) {
			if cur.done {
				var zero pipe.Item[[]byte]
				return zero, cur, false
			}
			end := min(cur.off+env.Conn.Size, len(p))
			var flags byte
			if end == len(p) {
				flags = FlagFinal
			}
			frame := make([]byte, ChunkHeaderLen, ChunkHeaderLen+end-cur.off)
			binary.BigEndian.PutUint16(frame[0:2], cur.seq)
			frame[2] = flags
			frame = append(frame, p[cur.off:end]...)
			return pipe.Ok(frame), chunkCursor{off: end, seq: cur.seq + 1, done: flags&FlagFinal != 0}, true
		}),
	)
}

func (c *Chunker) Unwrap(m []byte, _ pipe.Cap) pipe.Producer[*Chunker, *Session, pipe.Item[[]byte]] {
	return pipe.GenerateEff[*Chunker, *Session, pipe.Item[[]byte]](
		pipe.ScopeBind[*Chunker, *Session](func(env pipe.Env[*Chunker, *Session]) kont.Eff[struct{}] {
			payload, complete, err := env.Ctx.reassembly(env.Conn).add(m, env.Conn.Size)
			switch {
			case err != nil:
				return pipe.YieldThen[*Chunker, *Session](pipe.Err[[]byte](err), pipe.Done())
			case !complete:
				return pipe.Done()
			}
			return pipe.YieldThen[*Chunker, *Session](pipe.Ok(payload), pipe.Done())
		}),
	)
}

func (*Chunker) NextCtx(ctx *Session, _ pipe.Cap) *Session { return ctx }

func (*Chunker) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("chunk", pipe.Sending, err)
}

func (*Chunker) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("chunk", pipe.Receiving, err)
}

// reassembly collects the chunks of one message.
type reassembly struct {
	next uint16
	buf  []byte
}

// add appends frame to the message. Chunks carrying more than size data
// bytes are rejected, and so is a message that does not end by sequence
// number math.MaxUint16, so a message never buffers more than
// (math.MaxUint16+1)*size bytes.
func (r *reassembly) add(frame []byte, size int) ([]byte, bool, error) {
	if len(frame) < ChunkHeaderLen {
		r.reset()
		return nil, false, fmt.Errorf("%w: %d bytes, want at least %d", ErrShortFrame, len(frame), ChunkHeaderLen)
	}
	seq := binary.BigEndian.Uint16(frame[0:2])
	if seq != r.next {
		want := r.next
		r.reset()
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrSequence, seq, want)
	}
	data, final := frame[ChunkHeaderLen:], frame[2]&FlagFinal != 0
	if len(data) > size {
		r.reset()
		return nil, false, fmt.Errorf("%w: %d data bytes, want at most %d", ErrChunkTooLarge, len(data), size)
	}
	if !final && seq == math.MaxUint16 {
		r.reset()
		return nil, false, fmt.Errorf("%w: no final chunk by sequence %d", ErrPayloadTooLarge, seq)
	}
	r.buf = append(r.buf, data...)
	r.next++
	if !final {
		return nil, false, nil
	}
	out := r.buf
	if out == nil {
		out = []byte{}
	}
	r.buf = nil
	r.next = 0
	return out, true, nil
}

func (r *reassembly) reset() {
	r.next = 0
	r.buf = nil
}
