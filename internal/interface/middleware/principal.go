package middleware

import (
	"context"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

// CtxUserIDKey holds the caller id in the gin context for rate-limit keys and logs.
const CtxUserIDKey = "userID"

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached by Auth, if any.
func PrincipalFrom(ctx context.Context) (entity.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(entity.Principal)
	return p, ok
}
