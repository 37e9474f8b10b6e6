package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrIdentityMismatch = errors.New("identity mismatch")
)

// Service is the authorization gate. It resolves the acting user once,
// before any engine runs; engines receive the actor id by value and
// never read identity from ambient state.
type Service struct {
	jwt *JWTManager

	// legacyActorParam accepts a caller-supplied actor id on requests
	// without a verified credential. Deliberately weaker trust mode,
	// kept for clients that predate the token flow.
	legacyActorParam bool
}

func NewService(jwtManager *JWTManager, legacyActorParam bool) *Service {
	return &Service{
		jwt:              jwtManager,
		legacyActorParam: legacyActorParam,
	}
}

func (s *Service) ValidateAccessToken(_ context.Context, raw string) (Identity, error) {
	if s.jwt == nil {
		return Identity{}, ErrUnauthorized
	}
	return s.jwt.ParseAccessToken(raw)
}

// ResolveActor picks the actor id for a request. A verified credential
// always wins; a supplied id that disagrees with it is spoofing. With no
// credential the supplied id is honored only in legacy trust mode.
func (s *Service) ResolveActor(ctx context.Context, suppliedID string) (string, error) {
	suppliedID = strings.TrimSpace(suppliedID)

	if identity, ok := IdentityFromContext(ctx); ok {
		if suppliedID != "" && suppliedID != identity.UserID {
			return "", ErrIdentityMismatch
		}
		return identity.UserID, nil
	}

	if s.legacyActorParam && suppliedID != "" {
		return suppliedID, nil
	}

	return "", ErrUnauthorized
}
