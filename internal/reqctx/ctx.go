// Package reqctx carries the authenticated identity of one request.
package reqctx

import (
	"context"
	"errors"
)

// ErrCannotNewRootCtx is returned when New is asked for the root identity.
var ErrCannotNewRootCtx = errors.New("cannot create root ctx from a request")

// Ctx is the authenticated request context. It is built after the token
// was validated and lives for a single request.
type Ctx struct {
	userID int64
}

// Root returns the ctx used by bootstrap code acting as the system itself.
func Root() Ctx {
	return Ctx{userID: 0}
}

// New returns the ctx of an authenticated user. userID 0 is reserved for Root.
func New(userID int64) (Ctx, error) {
	if userID == 0 {
		return Ctx{}, ErrCannotNewRootCtx
	}
	return Ctx{userID: userID}, nil
}

// UserID returns the authenticated user id.
func (c Ctx) UserID() int64 { return c.userID }

type ctxKey string

const reqCtxKey ctxKey = "zs.reqctx"

// WithCtx stores c in ctx.
func WithCtx(ctx context.Context, c Ctx) context.Context {
	return context.WithValue(ctx, reqCtxKey, c)
}

// FromContext fetches the Ctx stored by WithCtx.
func FromContext(ctx context.Context) (Ctx, bool) {
	c, ok := ctx.Value(reqCtxKey).(Ctx)
	return c, ok
}
