package auth

import (
	"context"
	"errors"

	"github.com/wolfeidau/interviewnotes/internal/models"
)

// ErrUnauthenticated is returned when an operation requires a principal and none is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// Principal is the authenticated identity resolved for a request.
// It is a snapshot loaded per request and is never mutated after creation.
type Principal struct {
	ID             int64
	Username       string
	CredentialHash string
	Enabled        bool
	Role           models.Role
}

// NewPrincipal builds a principal snapshot from a user record.
func NewPrincipal(u *models.User) *Principal {
	return &Principal{
		ID:             u.ID,
		Username:       u.Username,
		CredentialHash: u.PasswordHash,
		Enabled:        u.Enabled,
		Role:           u.Role,
	}
}

type principalContextKey struct{}

// WithPrincipal returns a context carrying the principal. The value travels with the
// request context into any goroutine the handler starts with that context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext extracts the authenticated principal from the request context.
// Returns nil if no principal is present (anonymous request).
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey{}).(*Principal)
	return principal
}

// RequirePrincipal returns the principal or ErrUnauthenticated.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	principal := PrincipalFromContext(ctx)
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	return principal, nil
}
