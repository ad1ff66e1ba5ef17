package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// InterviewStore implements store.InterviewStore using in-memory storage.
// This implementation is for testing and development only - data is lost on restart.
type InterviewStore struct {
	mu sync.RWMutex

	nextID     int64
	interviews map[int64]*models.Interview
}

// NewInterviewStore creates a new in-memory interview store.
func NewInterviewStore() *InterviewStore {
	return &InterviewStore{
		interviews: make(map[int64]*models.Interview),
	}
}

// Create stores a new interview, assigning its ID and timestamps.
func (s *InterviewStore) Create(ctx context.Context, interview *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now()
	interview.ID = s.nextID
	interview.CreatedAt = now
	interview.UpdatedAt = now

	s.interviews[interview.ID] = interview.Clone()
	return nil
}

// Get retrieves an interview by ID.
func (s *InterviewStore) Get(ctx context.Context, id int64) (*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interview, exists := s.interviews[id]
	if !exists {
		return nil, store.ErrInterviewNotFound
	}
	return interview.Clone(), nil
}

// Update replaces an existing interview.
func (s *InterviewStore) Update(ctx context.Context, interview *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.interviews[interview.ID]
	if !exists {
		return store.ErrInterviewNotFound
	}

	interview.CreatedAt = existing.CreatedAt
	interview.UpdatedAt = time.Now()
	s.interviews[interview.ID] = interview.Clone()
	return nil
}

// Delete removes an interview.
func (s *InterviewStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interviews[id]; !exists {
		return store.ErrInterviewNotFound
	}
	delete(s.interviews, id)
	return nil
}

// List returns a page of all interviews.
func (s *InterviewStore) List(ctx context.Context, req store.PageRequest) (*store.Page, error) {
	return s.page(req, func(*models.Interview) bool { return true })
}

// ListByInterviewerPage returns a page of interviews assigned to the interviewer.
func (s *InterviewStore) ListByInterviewerPage(ctx context.Context, interviewerID int64, req store.PageRequest) (*store.Page, error) {
	return s.page(req, func(i *models.Interview) bool { return i.AssignedTo(interviewerID) })
}

// ListByCandidate returns all interviews of a candidate.
func (s *InterviewStore) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Interview, error) {
	return s.filter(func(i *models.Interview) bool { return i.CandidateID == candidateID }), nil
}

// ListByInterviewer returns all interviews assigned to the interviewer.
func (s *InterviewStore) ListByInterviewer(ctx context.Context, interviewerID int64) ([]*models.Interview, error) {
	return s.filter(func(i *models.Interview) bool { return i.AssignedTo(interviewerID) }), nil
}

// ListByStatus returns all interviews with the given status.
func (s *InterviewStore) ListByStatus(ctx context.Context, status string) ([]*models.Interview, error) {
	return s.filter(func(i *models.Interview) bool { return i.Status == status }), nil
}

// ListByPosition returns interviews whose position contains the text, ignoring case.
func (s *InterviewStore) ListByPosition(ctx context.Context, position string) ([]*models.Interview, error) {
	needle := strings.ToLower(position)
	return s.filter(func(i *models.Interview) bool {
		return strings.Contains(strings.ToLower(i.Position), needle)
	}), nil
}

// filter returns clones of matching interviews ordered by ID.
func (s *InterviewStore) filter(match func(*models.Interview) bool) []*models.Interview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*models.Interview{}
	for _, i := range s.interviews {
		if match(i) {
			result = append(result, i.Clone())
		}
	}
	slices.SortFunc(result, func(a, b *models.Interview) int { return cmp.Compare(a.ID, b.ID) })
	return result
}

func (s *InterviewStore) page(req store.PageRequest, match func(*models.Interview) bool) (*store.Page, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := s.filter(match)
	slices.SortStableFunc(items, func(a, b *models.Interview) int {
		c := compareBy(req.SortBy, a, b)
		if req.Descending {
			return -c
		}
		return c
	})

	page := &store.Page{Page: req.Page, Size: req.Size, Total: int64(len(items))}
	start := min(req.Offset(), len(items))
	end := min(start+req.Size, len(items))
	page.Items = items[start:end]

	return page, nil
}

func compareBy(field store.SortField, a, b *models.Interview) int {
	switch field {
	case store.SortByID:
		return cmp.Compare(a.ID, b.ID)
	case store.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case store.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case store.SortByScheduledDate:
		return a.ScheduledDate.Compare(b.ScheduledDate)
	case store.SortByPosition:
		return strings.Compare(a.Position, b.Position)
	case store.SortByStatus:
		return strings.Compare(a.Status, b.Status)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}
