// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"errors"
)

// Collect drives s to completion and returns every item in order.
func Collect[T any](s *Stream[T]) []Item[T] {
	var items []Item[T]
	for it := range s.All() {
		items = append(items, it)
	}
	return items
}

// Values drives s to completion and returns its values in order.
// Error items do not stop the drive; they are joined into the returned
// error in the order they were yielded.
func Values[T any](s *Stream[T]) ([]T, error) {
	var (
		values []T
		errs   []error
	)
	for it := range s.All() {
		v, err := Unpack(it)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, v)
	}
	return values, errors.Join(errs...)
}
