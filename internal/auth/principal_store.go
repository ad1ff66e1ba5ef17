package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// ErrPrincipalNotFound is returned when no enabled user matches a username.
var ErrPrincipalNotFound = errors.New("principal not found")

// UserDirectory is the subset of store.UserStore needed to resolve principals.
type UserDirectory interface {
	FindEnabledByUsername(ctx context.Context, username string) (*models.User, error)
}

// PrincipalStore loads principals for authentication. Principals are not cached;
// each call reads the directory.
type PrincipalStore struct {
	users UserDirectory
}

// NewPrincipalStore creates a principal store over the user directory.
func NewPrincipalStore(users UserDirectory) *PrincipalStore {
	return &PrincipalStore{users: users}
}

// FindEnabledPrincipal looks up an enabled user by username with a single directory query.
// Unknown and disabled accounts both return ErrPrincipalNotFound.
func (s *PrincipalStore) FindEnabledPrincipal(ctx context.Context, username string) (*Principal, error) {
	if username == "" {
		return nil, ErrPrincipalNotFound
	}

	user, err := s.users.FindEnabledByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}

	// the directory query already filters on enabled; guard against implementations that don't
	if !user.Enabled {
		return nil, ErrPrincipalNotFound
	}

	return NewPrincipal(user), nil
}
