package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// CandidateStore implements store.CandidateStore using PostgreSQL.
type CandidateStore struct {
	pool *pgxpool.Pool
}

// NewCandidateStore creates a new PostgreSQL-backed candidate store.
func NewCandidateStore(pool *pgxpool.Pool) *CandidateStore {
	return &CandidateStore{pool: pool}
}

// Create inserts a candidate, assigning its ID and timestamps.
func (s *CandidateStore) Create(ctx context.Context, c *models.Candidate) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO candidates (first_name, last_name, email, phone, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Position).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", mapPostgresError(err))
	}
	return nil
}

// Get retrieves a candidate by ID.
func (s *CandidateStore) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	var c models.Candidate
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone, position, created_at, updated_at
		FROM candidates
		WHERE id = $1
	`, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", mapPostgresError(err))
	}
	return &c, nil
}

// ExistsByEmail reports whether a candidate with the email exists, ignoring case.
func (s *CandidateStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query candidates: %w", mapPostgresError(err))
	}
	return exists, nil
}
