package auth

import "context"

type identityContextKey string

const identityKey identityContextKey = "auth_identity"

// Identity is a credential-verified actor. It is only ever placed in
// the context by the auth middleware after token validation.
type Identity struct {
	UserID string
	Role   string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
