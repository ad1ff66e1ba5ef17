package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// Hasher hashes seed passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Stores are the stores seeded at startup.
type Stores struct {
	Users      store.UserStore
	Candidates store.CandidateStore
}

// Result counts what a seed run created and skipped.
type Result struct {
	UsersCreated      int
	UsersSkipped      int
	CandidatesCreated int
	CandidatesSkipped int
}

// Bootstrap creates the seeded users and candidates. Existing usernames and candidate
// emails are skipped so the seed can be applied on every start.
func Bootstrap(ctx context.Context, stores Stores, hasher Hasher, cfg *Config) (*Result, error) {
	if stores.Users == nil || stores.Candidates == nil {
		return nil, fmt.Errorf("user and candidate stores are required")
	}

	res := &Result{}
	if cfg == nil {
		return res, nil
	}

	for _, seed := range cfg.Users {
		role := models.ParseRole(seed.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %q: unknown role %q", seed.Username, seed.Role)
		}
		if seed.Username == "" || seed.Email == "" || seed.Password == "" {
			return nil, fmt.Errorf("seed user %q: username, email and password are required", seed.Username)
		}

		exists, err := stores.Users.ExistsByUsername(ctx, seed.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check seed user %q: %w", seed.Username, err)
		}
		if exists {
			res.UsersSkipped++
			continue
		}

		hash, err := hasher.Hash(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %q: %w", seed.Username, err)
		}

		enabled := true
		if seed.Enabled != nil {
			enabled = *seed.Enabled
		}

		user := &models.User{
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hash,
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			Role:         role,
			Enabled:      enabled,
		}
		if err := stores.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create seed user %q: %w", seed.Username, err)
		}
		res.UsersCreated++
	}

	for _, seed := range cfg.Candidates {
		exists, err := stores.Candidates.ExistsByEmail(ctx, seed.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check seed candidate %q: %w", seed.Email, err)
		}
		if exists {
			res.CandidatesSkipped++
			continue
		}

		candidate := &models.Candidate{
			FirstName: seed.FirstName,
			LastName:  seed.LastName,
			Email:     seed.Email,
			Phone:     seed.Phone,
			Position:  seed.Position,
		}
		if err := stores.Candidates.Create(ctx, candidate); err != nil {
			return nil, fmt.Errorf("failed to create seed candidate %q: %w", seed.Email, err)
		}
		res.CandidatesCreated++
	}

	log.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("candidates_created", res.CandidatesCreated).
		Int("candidates_skipped", res.CandidatesSkipped).
		Msg("Seed data applied")

	return res, nil
}
