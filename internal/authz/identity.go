package authz

import (
	"context"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	Role    model.PortalRole
	TokenID string
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller or an AuthenticationError.
func IdentityFrom(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || id == nil || id.UserID == uuid.Nil {
		return nil, &AuthenticationError{Reason: "no session"}
	}
	return id, nil
}
