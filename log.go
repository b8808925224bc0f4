// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"github.com/rs/zerolog"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

func defaultOptions() options {
	return options{logger: zerolog.Nop()}
}

// WithLogger makes the pipeline trace every produced item to l.
// Items are logged at trace level, error items at debug level, each
// tagged with the pipeline serial, the stack depth, the operation and
// the item's position. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
