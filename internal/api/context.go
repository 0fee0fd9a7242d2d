package api

import (
	"context"

	"eventpro/internal/account"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

func WithUser(ctx context.Context, u *account.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, u)
}

// UserFromContext returns the session's user, or nil when the request is anonymous.
func UserFromContext(ctx context.Context) *account.User {
	v := ctx.Value(ctxKeyUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*account.User)
	return u
}
