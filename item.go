// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/kont"
)

// Item is one produced element: Right carries a value, Left an error.
// Errors are items like any other and never end production.
type Item[T any] = kont.Either[error, T]

// Ok returns an Item carrying v.
func Ok[T any](v T) Item[T] {
	return kont.Right[error, T](v)
}

// Err returns an Item carrying err.
func Err[T any](err error) Item[T] {
	return kont.Left[error, T](err)
}

// Unpack splits an Item into the usual Go value/error pair.
func Unpack[T any](it Item[T]) (T, error) {
	if err, ok := it.GetLeft(); ok {
		var zero T
		return zero, err
	}
	v, _ := it.GetRight()
	return v, nil
}

// mapErr rewrites the error of a Left item. Right items pass through
// unchanged.
func mapErr[T any](it Item[T], f func(error) error) Item[T] {
	if err, ok := it.GetLeft(); ok {
		return Err[T](f(err))
	}
	return it
}
