package auth

import (
	"context"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

type userCtxKey struct{}

func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userCtxKey{}).(*domain.User)
	return u
}

// Gate reads the caller identity placed on the context by the transport
// layer.
type Gate struct{}

func (Gate) CurrentUser(ctx context.Context) *domain.User {
	return UserFromContext(ctx)
}

func (Gate) IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}
