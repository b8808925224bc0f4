// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// Direction names the operation an error crossed a layer boundary in.
type Direction uint8

const (
	// Sending: the error came from the next layer's send.
	Sending Direction = iota
	// Receiving: the error came from the next layer's receive.
	Receiving
)

func (d Direction) String() string {
	if d == Sending {
		return "send"
	}
	return "receive"
}

// LayerError is an error of the layer below, translated into the
// vocabulary of the layer named Layer. It unwraps to the original error,
// so errors.Is and errors.As see through any number of layers.
//
// Middleware implementations that have no vocabulary of their own can
// return a LayerError from WrapError and UnwrapError, e.g. via Translate.
type LayerError struct {
	Layer string
	Dir   Direction
	Err   error
}

func (e *LayerError) Error() string {
	return e.Layer + ": " + e.Dir.String() + ": " + e.Err.Error()
}

func (e *LayerError) Unwrap() error {
	return e.Err
}

// Translate wraps err in a LayerError for layer. A nil err stays nil.
func Translate(layer string, dir Direction, err error) error {
	if err == nil {
		return nil
	}
	return &LayerError{Layer: layer, Dir: dir, Err: err}
}
