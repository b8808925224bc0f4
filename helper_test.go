// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"encoding/base64"
	"errors"
	"strings"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/pipe"
)

// session is the top-level context of the test stacks.
// Layers below the top see only the projection of inner.
type session struct {
	mark  int
	frag  strings.Builder
	inner inner
}

type inner struct {
	mark     int
	observed []int
}

var (
	errBoom  = errors.New("boom")
	errWrap  = errors.New("wrap failed")
	errBelow = errors.New("below failed")
)

// collect drains s and renders every item in order, as "v:<value>" or
// "e:<error>".
func collect[T any](s *pipe.Stream[T], format func(T) string) []string {
	var out []string
	for it := range s.All() {
		v, err := pipe.Unpack(it)
		if err != nil {
			out = append(out, "e:"+err.Error())
			continue
		}
		out = append(out, "v:"+format(v))
	}
	return out
}

func str(s string) string      { return s }
func bytesStr(b []byte) string { return string(b) }

// upper upper-cases on wrap and lower-cases on unwrap.
type upper struct {
	caps []bool
}

func (u *upper) Wrap(p string, c pipe.Cap) pipe.Producer[*upper, *session, pipe.Item[string]] {
	u.caps = append(u.caps, c.Valid())
	return pipe.Items[*upper, *session](pipe.Ok(strings.ToUpper(p)))
}

func (u *upper) Unwrap(m string, c pipe.Cap) pipe.Producer[*upper, *session, pipe.Item[string]] {
	u.caps = append(u.caps, c.Valid())
	return pipe.Items[*upper, *session](pipe.Ok(strings.ToLower(m)))
}

func (u *upper) NextCtx(ctx *session, c pipe.Cap) *session {
	u.caps = append(u.caps, c.Valid())
	return ctx
}

func (u *upper) WrapError(err error, c pipe.Cap) error {
	u.caps = append(u.caps, c.Valid())
	return pipe.Translate("upper", pipe.Sending, err)
}

func (u *upper) UnwrapError(err error, c pipe.Cap) error {
	u.caps = append(u.caps, c.Valid())
	return pipe.Translate("upper", pipe.Receiving, err)
}

// b64 encodes strings to base64 bytes.
type b64 struct{}

func (b64) enc() *base64.Encoding { return base64.StdEncoding }

func (b *b64) Wrap(p string, _ pipe.Cap) pipe.Producer[*b64, *session, pipe.Item[[]byte]] {
	return pipe.Items[*b64, *session](pipe.Ok([]byte(b.enc().EncodeToString([]byte(p)))))
}

func (b *b64) Unwrap(m []byte, _ pipe.Cap) pipe.Producer[*b64, *session, pipe.Item[string]] {
	raw, err := b.enc().DecodeString(string(m))
	if err != nil {
		return pipe.Items[*b64, *session](pipe.Err[string](err))
	}
	return pipe.Items[*b64, *session](pipe.Ok(string(raw)))
}

func (*b64) NextCtx(ctx *session, _ pipe.Cap) *session { return ctx }

func (*b64) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("b64", pipe.Sending, err)
}

func (*b64) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("b64", pipe.Receiving, err)
}

// frag splits a payload into pieces of at most size bytes. Every piece
// but the last is prefixed with '+', the last one with '.'. Unwrap
// reassembles in session.frag and yields once the last piece arrives.
type frag struct {
	size int
}

func (f *frag) Wrap(p string, _ pipe.Cap) pipe.Producer[*frag, *session, pipe.Item[string]] {
	var pieces []pipe.Item[string]
	for len(p) > f.size {
		pieces = append(pieces, pipe.Ok("+"+p[:f.size]))
		p = p[f.size:]
	}
	pieces = append(pieces, pipe.Ok("."+p))
	return pipe.GenerateEff[*frag, *session, pipe.Item[string]](pipe.YieldEach[*frag, *session](pieces))
}

func (f *frag) Unwrap(m string, _ pipe.Cap) pipe.Producer[*frag, *session, pipe.Item[string]] {
	return pipe.GenerateEff[*frag, *session, pipe.Item[string]](
		pipe.ScopeBind[*frag, *session](func(env pipe.Env[*frag, *session]) kont.Eff[struct{}] {
			buf := &env.Ctx.frag
			if m == "" {
				buf.Reset()
				return pipe.YieldThen[*frag, *session](pipe.Err[string](errBoom), pipe.Done())
			}
			buf.WriteString(m[1:])
			if m[0] == '+' {
				return pipe.Done()
			}
			full := buf.String()
			buf.Reset()
			return pipe.YieldThen[*frag, *session](pipe.Ok(full), pipe.Done())
		}),
	)
}

func (*frag) NextCtx(ctx *session, _ pipe.Cap) *session { return ctx }

func (*frag) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("frag", pipe.Sending, err)
}

func (*frag) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("frag", pipe.Receiving, err)
}

// fanout yields its scripted wrap/unwrap items for every input, ignoring
// the input itself. Its context projection is session.inner.
type fanout struct {
	wrap   []pipe.Item[string]
	unwrap []pipe.Item[string]
}

func (f *fanout) Wrap(string, pipe.Cap) pipe.Producer[*fanout, *session, pipe.Item[string]] {
	return pipe.Items[*fanout, *session](f.wrap...)
}

func (f *fanout) Unwrap(string, pipe.Cap) pipe.Producer[*fanout, *session, pipe.Item[string]] {
	return pipe.Items[*fanout, *session](f.unwrap...)
}

func (*fanout) NextCtx(ctx *session, _ pipe.Cap) *inner { return &ctx.inner }

func (*fanout) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("fanout", pipe.Sending, err)
}

func (*fanout) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("fanout", pipe.Receiving, err)
}

// script is a terminal connection answering every input with the items
// scripted for it.
type script struct {
	send    map[string][]pipe.Item[string]
	receive map[string][]pipe.Item[string]
}

func (s *script) Send(p string, _ pipe.Cap) pipe.Producer[*script, *inner, pipe.Item[string]] {
	return pipe.Items[*script, *inner](s.send[p]...)
}

func (s *script) Receive(w string, _ pipe.Cap) pipe.Producer[*script, *inner, pipe.Item[string]] {
	return pipe.Items[*script, *inner](s.receive[w]...)
}

// relay is an identity middleware over the inner projection.
type relay struct{}

func (*relay) Wrap(p string, _ pipe.Cap) pipe.Producer[*relay, *inner, pipe.Item[string]] {
	return pipe.Items[*relay, *inner](pipe.Ok(p))
}

func (*relay) Unwrap(m string, _ pipe.Cap) pipe.Producer[*relay, *inner, pipe.Item[string]] {
	return pipe.Items[*relay, *inner](pipe.Ok(m))
}

func (*relay) NextCtx(ctx *inner, _ pipe.Cap) *inner { return ctx }

func (*relay) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("relay", pipe.Sending, err)
}

func (*relay) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("relay", pipe.Receiving, err)
}

// observer is a terminal connection recording the inner mark it sees at
// every resumption of its send producers.
type observer struct{}

func (*observer) Send(p string, _ pipe.Cap) pipe.Producer[*observer, *inner, pipe.Item[string]] {
	fired := false
	return pipe.Func[*observer, *inner, pipe.Item[string]](func(_ *observer, ctx *inner) (pipe.Item[string], bool) {
		if fired {
			var zero pipe.Item[string]
			return zero, false
		}
		fired = true
		ctx.observed = append(ctx.observed, ctx.mark)
		return pipe.Ok(p), true
	})
}

func (*observer) Receive(w string, _ pipe.Cap) pipe.Producer[*observer, *inner, pipe.Item[string]] {
	return pipe.Items[*observer, *inner](pipe.Ok(w))
}

// marker mutates the context before each of the two messages it yields.
type marker struct{}

func (*marker) Wrap(p string, _ pipe.Cap) pipe.Producer[*marker, *session, pipe.Item[string]] {
	return pipe.Generate[*marker, *session, pipe.Item[string]](
		pipe.ExprScopeBind[*marker, *session](func(env pipe.Env[*marker, *session]) kont.Expr[struct{}] {
			env.Ctx.inner.mark = 1
			return pipe.ExprYieldBind[*marker, *session](pipe.Ok(p+"1"), func(env pipe.Env[*marker, *session]) kont.Expr[struct{}] {
				env.Ctx.inner.mark = 2
				return pipe.ExprYieldThen[*marker, *session](pipe.Ok(p+"2"), pipe.ExprDone())
			})
		}),
	)
}

func (*marker) Unwrap(m string, _ pipe.Cap) pipe.Producer[*marker, *session, pipe.Item[string]] {
	return pipe.Items[*marker, *session](pipe.Ok(m))
}

func (*marker) NextCtx(ctx *session, _ pipe.Cap) *inner { return &ctx.inner }

func (*marker) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("marker", pipe.Sending, err)
}

func (*marker) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("marker", pipe.Receiving, err)
}

// counted wraps a producer and counts Discard calls.
type counted[C, X, T any] struct {
	pipe.Producer[C, X, T]
	discards *int
}

func (c counted[C, X, T]) Discard() {
	*c.discards++
}

// lazy is a terminal connection yielding n copies of every payload, and
// counting abandoned send producers.
type lazy struct {
	n         int
	discarded int
}

func (l *lazy) Send(p string, _ pipe.Cap) pipe.Producer[*lazy, *session, pipe.Item[string]] {
	return counted[*lazy, *session, pipe.Item[string]]{
		Producer: pipe.Items[*lazy, *session](repeat(p, l.n)...),
		discards: &l.discarded,
	}
}

func (l *lazy) Receive(w string, _ pipe.Cap) pipe.Producer[*lazy, *session, pipe.Item[string]] {
	return pipe.Items[*lazy, *session](pipe.Ok(w))
}

// repeat returns n Ok items carrying v.
func repeat(v string, n int) []pipe.Item[string] {
	items := make([]pipe.Item[string], n)
	for i := range items {
		items[i] = pipe.Ok(v)
	}
	return items
}

// tally is an identity middleware fanning every input out into n copies,
// and counting abandoned wrap and unwrap producers.
type tally struct {
	n              int
	wrapDiscards   int
	unwrapDiscards int
}

func (t *tally) Wrap(p string, _ pipe.Cap) pipe.Producer[*tally, *session, pipe.Item[string]] {
	return counted[*tally, *session, pipe.Item[string]]{
		Producer: pipe.Items[*tally, *session](repeat(p, t.n)...),
		discards: &t.wrapDiscards,
	}
}

func (t *tally) Unwrap(m string, _ pipe.Cap) pipe.Producer[*tally, *session, pipe.Item[string]] {
	return counted[*tally, *session, pipe.Item[string]]{
		Producer: pipe.Items[*tally, *session](repeat(m, t.n)...),
		discards: &t.unwrapDiscards,
	}
}

func (*tally) NextCtx(ctx *session, _ pipe.Cap) *session { return ctx }

func (*tally) WrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("tally", pipe.Sending, err)
}

func (*tally) UnwrapError(err error, _ pipe.Cap) error {
	return pipe.Translate("tally", pipe.Receiving, err)
}

// stackUpperB64 builds the upper → b64 → buffer stack.
func stackUpperB64(up *upper, buf *pipe.Buffer[*session, []byte]) *pipe.Stack[*session, string, []byte] {
	return pipe.On[*upper, *session, *session, string, string, []byte](up,
		pipe.On[*b64, *session, *session, string, []byte, []byte](&b64{},
			pipe.Bottom[*pipe.Buffer[*session, []byte], *session, []byte, []byte](buf)))
}

// stackFragB64 builds the frag → b64 → buffer stack.
func stackFragB64(size int, buf *pipe.Buffer[*session, []byte]) *pipe.Stack[*session, string, []byte] {
	return pipe.On[*frag, *session, *session, string, string, []byte](&frag{size: size},
		pipe.On[*b64, *session, *session, string, []byte, []byte](&b64{},
			pipe.Bottom[*pipe.Buffer[*session, []byte], *session, []byte, []byte](buf)))
}

// stackFanout builds the fanout → script stack.
func stackFanout(f *fanout, s *script) *pipe.Stack[*session, string, string] {
	return pipe.On[*fanout, *session, *inner, string, string, string](f,
		pipe.Bottom[*script, *inner, string, string](s))
}
