package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/interviewnotes/internal/auth"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
	"github.com/wolfeidau/interviewnotes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Service applies the access policy around interview reads. The caller's principal is
// taken from the context. Denied reads look exactly like missing data.
type Service struct {
	interviews store.InterviewStore
	candidates store.CandidateStore
	users      store.UserStore
}

// NewService creates an interview access service.
func NewService(interviews store.InterviewStore, candidates store.CandidateStore, users store.UserStore) *Service {
	return &Service{
		interviews: interviews,
		candidates: candidates,
		users:      users,
	}
}

// ListAll returns one page of the interviews visible to the caller.
func (s *Service) ListAll(ctx context.Context, req store.PageRequest) (*store.Page, error) {
	principal := auth.PrincipalFromContext(ctx)

	switch auth.ScopeOf(principal) {
	case auth.ScopeAll:
		page, err := s.interviews.List(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to list interviews: %w", err)
		}
		recordListed(ctx, "list", len(page.Items))
		return page, nil
	case auth.ScopeAssigned:
		page, err := s.interviews.ListByInterviewerPage(ctx, principal.ID, req)
		if err != nil {
			return nil, fmt.Errorf("failed to list interviews: %w", err)
		}
		recordListed(ctx, "list", len(page.Items))
		return page, nil
	default:
		recordDenied(ctx, "list")
		return store.EmptyPage(req), nil
	}
}

// GetByID returns the interview when it exists and the caller may read it.
// The boolean is false for both missing and unreadable interviews.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.Interview, bool, error) {
	interview, err := s.interviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrInterviewNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get interview: %w", err)
	}

	if !auth.CanRead(auth.PrincipalFromContext(ctx), interview) {
		zerolog.Ctx(ctx).Debug().Int64("interview_id", id).Msg("interview read denied")
		recordDenied(ctx, "get")
		return nil, false, nil
	}

	return interview, true, nil
}

// ListByCandidate returns the candidate's interviews visible to the caller.
func (s *Service) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Interview, error) {
	interviews, err := s.interviews.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews by candidate: %w", err)
	}
	return s.filter(ctx, "candidate", interviews), nil
}

// ListByInterviewer returns the interviewer's interviews. Only admins, HR managers and
// the interviewer themselves may ask; anyone else gets an empty list without a store read.
func (s *Service) ListByInterviewer(ctx context.Context, interviewerID int64) ([]*models.Interview, error) {
	if !auth.CanListInterviewer(auth.PrincipalFromContext(ctx), interviewerID) {
		recordDenied(ctx, "interviewer")
		return []*models.Interview{}, nil
	}

	interviews, err := s.interviews.ListByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews by interviewer: %w", err)
	}
	recordListed(ctx, "interviewer", len(interviews))
	return interviews, nil
}

// ListByStatus returns interviews with the exact status visible to the caller.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]*models.Interview, error) {
	interviews, err := s.interviews.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews by status: %w", err)
	}
	return s.filter(ctx, "status", interviews), nil
}

// ListByPosition returns interviews whose position contains the text, ignoring case,
// narrowed to those visible to the caller.
func (s *Service) ListByPosition(ctx context.Context, position string) ([]*models.Interview, error) {
	interviews, err := s.interviews.ListByPosition(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews by position: %w", err)
	}
	return s.filter(ctx, "position", interviews), nil
}

// Create schedules a new interview. An unknown interviewer id leaves the interview unassigned.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Interview, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.requireCandidate(ctx, *req.CandidateID); err != nil {
		return nil, err
	}

	interviewerID, err := s.resolveInterviewer(ctx, req.InterviewerID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.InterviewStatusScheduled
	}

	interview := &models.Interview{
		CandidateID:   *req.CandidateID,
		InterviewerID: interviewerID,
		Position:      req.Position,
		Status:        status,
		Duration:      req.Duration,
		ScheduledDate: *req.ScheduledDate,
		OverallScore:  req.OverallScore,
		Notes:         req.Notes,
	}

	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	recordMutation(ctx, "create")
	zerolog.Ctx(ctx).Info().Int64("interview_id", interview.ID).Msg("interview created")

	return interview, nil
}

// Update applies the non-nil fields of the request. The boolean is false when the
// interview does not exist.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*models.Interview, bool, error) {
	if err := validateRequest(req); err != nil {
		return nil, false, err
	}

	interview, err := s.interviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrInterviewNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get interview: %w", err)
	}

	if req.CandidateID != nil {
		if err := s.requireCandidate(ctx, *req.CandidateID); err != nil {
			return nil, false, err
		}
		interview.CandidateID = *req.CandidateID
	}
	if req.Position != nil {
		interview.Position = *req.Position
	}
	if req.Status != nil {
		interview.Status = *req.Status
	}
	if req.Notes != nil {
		interview.Notes = req.Notes
	}
	if req.Duration != nil {
		interview.Duration = *req.Duration
	}
	if req.ScheduledDate != nil {
		interview.ScheduledDate = *req.ScheduledDate
	}
	if req.OverallScore != nil {
		interview.OverallScore = req.OverallScore
	}
	if req.InterviewerID != nil {
		interview.InterviewerID, err = s.resolveInterviewer(ctx, req.InterviewerID)
		if err != nil {
			return nil, false, err
		}
	}

	if err := s.interviews.Update(ctx, interview); err != nil {
		if errors.Is(err, store.ErrInterviewNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to update interview: %w", err)
	}

	recordMutation(ctx, "update")

	return interview, true, nil
}

// Delete removes the interview, reporting false when it does not exist.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.interviews.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrInterviewNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete interview: %w", err)
	}

	recordMutation(ctx, "delete")
	zerolog.Ctx(ctx).Info().Int64("interview_id", id).Msg("interview deleted")

	return true, nil
}

func (s *Service) filter(ctx context.Context, operation string, interviews []*models.Interview) []*models.Interview {
	visible := auth.FilterForCaller(auth.PrincipalFromContext(ctx), interviews)
	if len(visible) < len(interviews) {
		recordDenied(ctx, operation)
	}
	recordListed(ctx, operation, len(visible))
	return visible
}

func (s *Service) requireCandidate(ctx context.Context, candidateID int64) error {
	if _, err := s.candidates.Get(ctx, candidateID); err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return fmt.Errorf("%w: candidate %d not found", ErrInvalidInterview, candidateID)
		}
		return fmt.Errorf("failed to get candidate: %w", err)
	}
	return nil
}

// resolveInterviewer returns the id when the user exists, nil otherwise.
func (s *Service) resolveInterviewer(ctx context.Context, id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}

	user, err := s.users.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			zerolog.Ctx(ctx).Warn().Int64("interviewer_id", *id).Msg("unknown interviewer, leaving interview unassigned")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interviewer: %w", err)
	}

	resolved := user.ID
	return &resolved, nil
}

func recordDenied(ctx context.Context, operation string) {
	telemetry.GetMetrics().InterviewAccessDeniedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)))
}

func recordListed(ctx context.Context, operation string, n int) {
	telemetry.GetMetrics().InterviewsListedTotal.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("operation", operation)))
}

func recordMutation(ctx context.Context, operation string) {
	telemetry.GetMetrics().InterviewMutationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)))
}
