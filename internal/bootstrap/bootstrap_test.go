package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store/memory"
)

const seedYAML = `
users:
  - username: admin
    email: admin@example.com
    password: admin123
    firstName: Ada
    lastName: Admin
    role: ADMIN
  - username: retired
    email: retired@example.com
    password: retired123
    role: interviewer
    enabled: false
candidates:
  - firstName: Jane
    lastName: Doe
    email: jane@example.com
    position: Backend Engineer
`

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Users, 2)
	require.Len(t, cfg.Candidates, 1)

	stores := Stores{Users: memory.NewUserStore(), Candidates: memory.NewCandidateStore()}

	res, err := Bootstrap(ctx, stores, plainHasher{}, cfg)
	require.NoError(t, err)
	require.Equal(t, &Result{UsersCreated: 2, CandidatesCreated: 1}, res)

	admin, err := stores.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.True(t, admin.Enabled)
	require.Equal(t, "hashed:admin123", admin.PasswordHash)

	retired, err := stores.Users.FindByUsername(ctx, "retired")
	require.NoError(t, err)
	require.Equal(t, models.RoleInterviewer, retired.Role)
	require.False(t, retired.Enabled)

	// applying again only skips
	res, err = Bootstrap(ctx, stores, plainHasher{}, cfg)
	require.NoError(t, err)
	require.Equal(t, &Result{UsersSkipped: 2, CandidatesSkipped: 1}, res)
}

func TestBootstrapRejectsUnknownRole(t *testing.T) {
	cfg, err := Parse([]byte("users:\n  - username: x\n    email: x@example.com\n    password: pw\n    role: JANITOR\n"))
	require.NoError(t, err)

	stores := Stores{Users: memory.NewUserStore(), Candidates: memory.NewCandidateStore()}
	_, err = Bootstrap(context.Background(), stores, plainHasher{}, cfg)
	require.ErrorContains(t, err, "unknown role")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("users:\n  - username: x\n    admin: true\n"))
	require.Error(t, err)
}
