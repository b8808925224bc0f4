// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"code.hybscloud.com/iox"
)

// Source is where wire units arrive from. Recv is non-blocking and
// returns iox.ErrWouldBlock when nothing is waiting. *Port implements it.
type Source[W any] interface {
	Recv() (W, error)
}

// Relay passes every wire unit waiting on src up through p and hands each
// produced item to yield, in order. It returns the number of wire units
// taken from src.
//
// Relay returns iox.ErrWouldBlock if nothing was waiting. If yield returns
// false, the current receive is discarded and Relay stops; wire units
// still waiting on src stay there.
//
// yield must not start another operation on p: that retires the current
// receive, whose remaining items are dropped. Relay then stops and returns
// ErrRetired.
func Relay[X, P, W any](src Source[W], p *Pipeline[X, P, W], yield func(Item[P]) bool) (int, error) {
	n := 0
	for {
		w, err := src.Recv()
		if err != nil {
			if iox.IsWouldBlock(err) {
				if n == 0 {
					return 0, iox.ErrWouldBlock
				}
				return n, nil
			}
			return n, err
		}
		n++
		s := p.Receive(w)
		for it := range s.All() {
			if !yield(it) {
				s.Discard()
				return n, nil
			}
		}
		if s.retired {
			return n, ErrRetired
		}
	}
}

// RelayWait is Relay that waits until at least one wire unit has been
// relayed, backing off on iox.ErrWouldBlock with iox.Backoff.
// It does not spawn goroutines or create channels.
func RelayWait[X, P, W any](src Source[W], p *Pipeline[X, P, W], yield func(Item[P]) bool) (int, error) {
	var bo iox.Backoff
	for {
		n, err := Relay(src, p, yield)
		if err == nil || !iox.IsWouldBlock(err) {
			return n, err
		}
		bo.Wait()
	}
}
