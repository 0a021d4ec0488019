package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.UserID, true
	}
	return uuid.Nil, false
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.Role, true
	}
	return "", false
}
