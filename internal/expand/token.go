package expand

import "context"

// token is captured when a request is issued and consulted when its
// response arrives. A response whose token is no longer live is dropped.
type token struct {
	ctx context.Context
	cb  Callback
}

func newToken(ctx context.Context, cb Callback) token {
	return token{ctx: ctx, cb: cb}
}

func (t token) live() bool {
	return t.ctx.Err() == nil && t.cb.IsInitialized()
}
