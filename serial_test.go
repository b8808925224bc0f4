// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"testing"

	"code.hybscloud.com/pipe"
)

func TestSerialMonotonic(t *testing.T) {
	newPipeline := func() *pipe.Pipeline[*session, string, string] {
		return pipe.New(pipe.Bottom[*lazy, *session, string, string](&lazy{}), &session{})
	}
	s1 := newPipeline().Serial()
	s2 := newPipeline().Serial()
	a, _ := pipe.NewLink[*session, []byte]()
	s3 := a.Serial()

	if s1 >= s2 {
		t.Fatalf("serials not increasing: %d >= %d", s1, s2)
	}
	if s2 >= s3 {
		t.Fatalf("serials not increasing: %d >= %d", s2, s3)
	}
}

func TestLinkSerial(t *testing.T) {
	a, b := pipe.NewLink[*session, []byte]()

	if a.Serial() != b.Serial() {
		t.Fatalf("pair serials differ: %d != %d", a.Serial(), b.Serial())
	}
}
