package login

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/interviewnotes/internal/auth"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store/memory"
)

var testSecret = []byte(strings.Repeat("0123456789abcdef", 4))

type testEnv struct {
	svc    *Service
	users  *memory.UserStore
	codec  *auth.TokenCodec
	hasher *auth.PasswordHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserStore()
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	hasher := auth.NewPasswordHasher(4)

	svc, err := NewService(users, codec, hasher)
	require.NoError(t, err)

	return &testEnv{svc: svc, users: users, codec: codec, hasher: hasher}
}

func (e *testEnv) addUser(t *testing.T, username, password string, role models.Role, enabled bool) *models.User {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)

	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Smith",
		Role:         role,
		Enabled:      enabled,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "s3cret-pass", models.RoleHRManager, true)
	env.addUser(t, "dave", "s3cret-pass", models.RoleInterviewer, false)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := env.svc.Login(context.Background(), Request{Username: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)
		require.Equal(t, "Bearer", resp.Type)
		require.Equal(t, "alice", resp.User.Username)
		require.Equal(t, "HR_MANAGER", resp.User.Role)

		subject, err := env.codec.DecodeSubject(resp.Token)
		require.NoError(t, err)
		require.Equal(t, "alice", subject)
	})

	rejected := []struct {
		name string
		req  Request
	}{
		{name: "wrong password", req: Request{Username: "alice", Password: "nope"}},
		{name: "unknown user", req: Request{Username: "mallory", Password: "s3cret-pass"}},
		{name: "disabled user", req: Request{Username: "dave", Password: "s3cret-pass"}},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.svc.Login(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrBadCredentials)
			require.Nil(t, resp)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.svc.Login(context.Background(), Request{Username: "alice"})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", "s3cret-pass", models.RoleAdmin, true)

	valid := RegisterRequest{
		Username:  "newbie",
		Email:     "newbie@example.com",
		Password:  "hunter22",
		FirstName: "New",
		LastName:  "Bie",
	}

	resp, err := env.svc.Register(context.Background(), valid)
	require.NoError(t, err)
	require.Equal(t, "INTERVIEWER", resp.User.Role)
	require.True(t, resp.User.Enabled)
	require.NotZero(t, resp.User.ID)

	stored, err := env.users.FindByUsername(context.Background(), "newbie")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", stored.PasswordHash)
	require.True(t, env.hasher.Verify("hunter22", stored.PasswordHash))

	tests := []struct {
		name string
		mod  func(r *RegisterRequest)
		err  error
	}{
		{name: "username taken", mod: func(r *RegisterRequest) { r.Username = "alice"; r.Email = "other@example.com" }, err: ErrUsernameTaken},
		{name: "email in use", mod: func(r *RegisterRequest) { r.Username = "other"; r.Email = "ALICE@example.com" }, err: ErrEmailInUse},
		{name: "invalid email", mod: func(r *RegisterRequest) { r.Username = "other"; r.Email = "not-an-email" }, err: ErrInvalidRequest},
		{name: "short password", mod: func(r *RegisterRequest) { r.Username = "other"; r.Email = "other@example.com"; r.Password = "abc" }, err: ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mod(&req)
			_, err := env.svc.Register(context.Background(), req)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice", "s3cret-pass", models.RoleInterviewer, true)

	_, err := env.svc.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)

	ctx := auth.WithPrincipal(context.Background(), auth.NewPrincipal(alice))
	view, err := env.svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, alice.ID, view.ID)
	require.Equal(t, "Alice", view.FirstName)
	require.Equal(t, "INTERVIEWER", view.Role)
}
