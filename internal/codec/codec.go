// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package codec provides reference layers for byte-oriented pipe stacks.
//
// Every layer here has []byte payloads and messages and runs under a
// *Session context, so layers can be stacked in any order. Build
// assembles a stack from layer names.
package codec

import (
	"errors"
	"fmt"

	"code.hybscloud.com/pipe"
)

var (
	ErrShortFrame      = errors.New("codec: short frame")
	ErrChecksum        = errors.New("codec: checksum mismatch")
	ErrSequence        = errors.New("codec: chunk out of sequence")
	ErrPayloadTooLarge = errors.New("codec: payload too large for chunk size")
	ErrChunkTooLarge   = errors.New("codec: chunk larger than chunk size")
	ErrUnknownLayer    = errors.New("codec: unknown layer")
)

// Session is the context of a codec stack. It holds the receive-side
// state of layers that reassemble messages across wire units.
type Session struct {
	chunks map[*Chunker]*reassembly
}

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{}
}

// Pending returns the number of bytes c has buffered for a message whose
// last chunk has not arrived yet.
func (s *Session) Pending(c *Chunker) int {
	if r, ok := s.chunks[c]; ok {
		return len(r.buf)
	}
	return 0
}

func (s *Session) reassembly(c *Chunker) *reassembly {
	if s.chunks == nil {
		s.chunks = make(map[*Chunker]*reassembly)
	}
	r, ok := s.chunks[c]
	if !ok {
		r = &reassembly{}
		s.chunks[c] = r
	}
	return r
}

// Stack is a byte-oriented stack under a *Session.
type Stack = pipe.Stack[*Session, []byte, []byte]

// Options configures Build.
type Options struct {
	// ChunkSize is the data size of each chunk produced by the "chunk"
	// layer.
	ChunkSize int
}

// DefaultOptions returns the options Build uses when none are given.
func DefaultOptions() Options {
	return Options{ChunkSize: 512}
}

// Names lists the layer names Build understands.
var Names = []string{"upper", "base64", "crc32", "chunk"}

// Build pushes the layers named in names on top of bottom, so that
// names[0] is the topmost layer. bottom becomes owned by the result.
func Build(names []string, bottom *Stack, opts Options) (*Stack, error) {
	if bottom == nil {
		return nil, errors.New("codec: nil bottom stack")
	}
	// Validate first so that bottom is not claimed on error.
	for _, name := range names {
		switch name {
		case "upper", "base64", "crc32":
		case "chunk":
			if opts.ChunkSize <= 0 {
				return nil, fmt.Errorf("codec: chunk size must be positive, got %d", opts.ChunkSize)
			}
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownLayer, name)
		}
	}

	s := bottom
	for i := len(names) - 1; i >= 0; i-- {
		switch names[i] {
		case "upper":
			s = pipe.On[*Upper, *Session, *Session, []byte, []byte, []byte](&Upper{}, s)
		case "base64":
			s = pipe.On[*Base64, *Session, *Session, []byte, []byte, []byte](NewBase64(), s)
		case "crc32":
			s = pipe.On[*Checksum, *Session, *Session, []byte, []byte, []byte](NewChecksum(), s)
		case "chunk":
			s = pipe.On[*Chunker, *Session, *Session, []byte, []byte, []byte](&Chunker{Size: opts.ChunkSize}, s)
		}
	}
	return s, nil
}

// one returns a producer yielding it.
func one[C any](it pipe.Item[[]byte]) pipe.Producer[C, *Session, pipe.Item[[]byte]] {
	return pipe.Items[C, *Session](it)
}
