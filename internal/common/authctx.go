package common

import "context"

type ctxKey string

const identityKey ctxKey = "auth/identity"

// Identity is the resolved caller identity extracted from the external
// auth provider's access token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Phone  string
	Role   string
}

// WithIdentity stores the authenticated identity on the provided context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// UserID is a shorthand returning just the authenticated user identifier.
func UserID(ctx context.Context) (string, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID == "" {
		return "", false
	}
	return id.UserID, true
}
