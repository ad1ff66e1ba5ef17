package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// CandidateStore implements store.CandidateStore using in-memory storage.
type CandidateStore struct {
	mu sync.RWMutex

	nextID     int64
	candidates map[int64]*models.Candidate
}

// NewCandidateStore creates a new in-memory candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: make(map[int64]*models.Candidate),
	}
}

// Create stores a new candidate, assigning its ID.
func (s *CandidateStore) Create(ctx context.Context, candidate *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	candidate.ID = s.nextID
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	clone := *candidate
	s.candidates[clone.ID] = &clone

	return nil
}

// Get retrieves a candidate by ID.
func (s *CandidateStore) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate, exists := s.candidates[id]
	if !exists {
		return nil, store.ErrCandidateNotFound
	}

	clone := *candidate
	return &clone, nil
}

// ExistsByEmail reports whether a candidate with the email exists, ignoring case.
func (s *CandidateStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.candidates {
		if strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
