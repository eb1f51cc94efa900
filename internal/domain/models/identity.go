package models

import (
	"context"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// Identity is the authenticated caller taken from the access token.
type Identity struct {
	Subject string
	Role    types.UserRole
}

func (i *Identity) IsAnonymous() bool {
	return i == nil || i.Subject == ""
}

// Actor converts the identity into a ride actor.
func (i *Identity) Actor() Actor {
	if i == nil {
		return Actor{}
	}
	return Actor{ID: i.Subject, Role: i.Role}
}

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*Identity)
	return id
}
