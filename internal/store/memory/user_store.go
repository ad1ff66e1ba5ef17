package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// UserStore implements store.UserStore using in-memory storage.
// This implementation is for testing and development only - data is lost on restart.
type UserStore struct {
	mu sync.RWMutex

	nextID     int64
	users      map[int64]*models.User // id -> User
	byUsername map[string]int64       // username -> id
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:      make(map[int64]*models.User),
		byUsername: make(map[string]int64),
	}
}

// Create stores a new user, assigning its ID.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return store.ErrUserAlreadyExists
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrUserAlreadyExists
		}
	}

	s.nextID++
	now := time.Now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	// Clone to avoid external modifications
	clone := *user
	s.users[clone.ID] = &clone
	s.byUsername[clone.Username] = clone.ID

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// FindByUsername retrieves a user by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUsername[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *s.users[id]
	return &clone, nil
}

// FindEnabledByUsername retrieves an enabled user by username in a single lookup.
func (s *UserStore) FindEnabledByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUsername[username]
	if !exists || !s.users[id].Enabled {
		return nil, store.ErrUserNotFound
	}

	clone := *s.users[id]
	return &clone, nil
}

// ExistsByUsername reports whether the username is taken.
func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byUsername[username]
	return exists, nil
}

// ExistsByEmail reports whether the email is in use (case-insensitive).
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// SetEnabled toggles the enabled flag. Used to disable accounts in tests and tooling.
func (s *UserStore) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return store.ErrUserNotFound
	}
	user.Enabled = enabled
	user.UpdatedAt = time.Now()
	return nil
}
