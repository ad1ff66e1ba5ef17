package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/interviewnotes/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrInterviewNotFound    = errors.New("interview not found")
	ErrInvalidPageRequest   = errors.New("invalid page request")
	ErrUnsupportedSortField = errors.New("unsupported sort field")
)

// UserStore is the user directory.
type UserStore interface {
	// Create inserts a user and assigns its ID and timestamps.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (*models.User, error)

	// FindByUsername retrieves a user by username regardless of the enabled flag.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindEnabledByUsername retrieves a user by username only if the account is enabled.
	// Disabled and unknown accounts both return ErrUserNotFound.
	FindEnabledByUsername(ctx context.Context, username string) (*models.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CandidateStore holds candidates referenced by interviews.
type CandidateStore interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// InterviewStore defines the interface for interview storage operations
type InterviewStore interface {
	// Create inserts an interview and assigns its ID and timestamps.
	Create(ctx context.Context, interview *models.Interview) error

	// Get retrieves an interview by ID, returning ErrInterviewNotFound if absent.
	Get(ctx context.Context, id int64) (*models.Interview, error)

	// Update replaces a stored interview and refreshes UpdatedAt.
	Update(ctx context.Context, interview *models.Interview) error

	// Delete removes an interview by ID, returning ErrInterviewNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// Paginated queries
	List(ctx context.Context, req PageRequest) (*Page, error)
	ListByInterviewerPage(ctx context.Context, interviewerID int64, req PageRequest) (*Page, error)

	// Unpaginated queries, ordered by ID
	ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Interview, error)
	ListByInterviewer(ctx context.Context, interviewerID int64) ([]*models.Interview, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Interview, error)
	ListByPosition(ctx context.Context, position string) ([]*models.Interview, error)
}
