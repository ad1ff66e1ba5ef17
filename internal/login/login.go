package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/interviewnotes/internal/auth"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
	"github.com/wolfeidau/interviewnotes/internal/telemetry"
)

var (
	ErrBadCredentials  = errors.New("bad credentials")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrEmailInUse      = errors.New("email is already in use")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthenticated = auth.ErrUnauthenticated
)

// TokenIssuer issues bearer tokens for a username.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Request is the login payload.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the self registration payload.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

// UserView is the API representation of a user. The password hash is never included.
type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserView maps a user record to its API form.
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Response is returned by login and register.
type Response struct {
	Token string   `json:"token"`
	Type  string   `json:"type"`
	User  UserView `json:"user"`
}

// Service handles password login and self registration.
type Service struct {
	users    store.UserStore
	tokens   TokenIssuer
	hasher   *auth.PasswordHasher
	validate *validator.Validate

	// compared against when the username is unknown so both paths cost a bcrypt check
	decoyHash string
}

// NewService creates a login service.
func NewService(users store.UserStore, tokens TokenIssuer, hasher *auth.PasswordHasher) (*Service, error) {
	decoy, err := hasher.Hash("decoy-password-for-unknown-users")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare decoy hash: %w", err)
	}

	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		decoyHash: decoy,
	}, nil
}

// Login verifies the credentials of an enabled account and issues a token.
// Unknown, disabled and wrong-password attempts all return ErrBadCredentials.
func (s *Service) Login(ctx context.Context, req Request) (*Response, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	user, err := s.users.FindEnabledByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		s.hasher.Verify(req.Password, s.decoyHash)
		return nil, s.rejected(ctx, req.Username)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, s.rejected(ctx, req.Username)
	}

	return s.respond(ctx, user)
}

// Register creates an enabled INTERVIEWER account and issues a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	inUse, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if inUse {
		return nil, ErrEmailInUse
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleInterviewer,
		Enabled:      true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user registered")

	return s.respond(ctx, user)
}

// CurrentUser returns the account of the authenticated caller.
func (s *Service) CurrentUser(ctx context.Context) (*UserView, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	view := NewUserView(user)
	return &view, nil
}

func (s *Service) respond(ctx context.Context, user *models.User) (*Response, error) {
	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	telemetry.GetMetrics().TokensIssuedTotal.Add(ctx, 1)

	return &Response{
		Token: token,
		Type:  "Bearer",
		User:  NewUserView(user),
	}, nil
}

func (s *Service) rejected(ctx context.Context, username string) error {
	zerolog.Ctx(ctx).Debug().Str("username", username).Msg("login rejected")
	telemetry.GetMetrics().LoginFailures.Add(ctx, 1)
	return ErrBadCredentials
}
