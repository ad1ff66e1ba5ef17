package interview

import (
	"context"
	"errors"
	"time"

	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

// View is the API representation of an interview with resolved names.
type View struct {
	ID              int64     `json:"id"`
	CandidateID     *int64    `json:"candidateId"`
	CandidateName   *string   `json:"candidateName"`
	Position        string    `json:"position"`
	Status          string    `json:"status"`
	Duration        int       `json:"duration"`
	ScheduledDate   time.Time `json:"scheduledDate"`
	OverallScore    *float64  `json:"overallScore"`
	Notes           *string   `json:"notes"`
	InterviewerID   *int64    `json:"interviewerId"`
	InterviewerName *string   `json:"interviewerName"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PageView is a page of interview views.
type PageView struct {
	Content       []View `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

// Describe resolves candidate and interviewer names for the interviews.
// Lookups are memoised per call. Dangling references render without a name.
func (s *Service) Describe(ctx context.Context, interviews []*models.Interview) ([]View, error) {
	candidates := make(map[int64]*string)
	interviewers := make(map[int64]*string)

	views := make([]View, 0, len(interviews))
	for _, i := range interviews {
		v := View{
			ID:            i.ID,
			Position:      i.Position,
			Status:        i.Status,
			Duration:      i.Duration,
			ScheduledDate: i.ScheduledDate,
			OverallScore:  i.OverallScore,
			Notes:         i.Notes,
			CreatedAt:     i.CreatedAt,
			UpdatedAt:     i.UpdatedAt,
		}

		if i.CandidateID != 0 {
			id := i.CandidateID
			name, ok := candidates[id]
			if !ok {
				var err error
				name, err = s.candidateName(ctx, id)
				if err != nil {
					return nil, err
				}
				candidates[id] = name
			}
			v.CandidateID = &id
			v.CandidateName = name
		}

		if i.InterviewerID != nil {
			id := *i.InterviewerID
			name, ok := interviewers[id]
			if !ok {
				var err error
				name, err = s.interviewerName(ctx, id)
				if err != nil {
					return nil, err
				}
				interviewers[id] = name
			}
			v.InterviewerID = &id
			v.InterviewerName = name
		}

		views = append(views, v)
	}

	return views, nil
}

// DescribePage converts a store page into its view.
func (s *Service) DescribePage(ctx context.Context, page *store.Page) (*PageView, error) {
	content, err := s.Describe(ctx, page.Items)
	if err != nil {
		return nil, err
	}

	return &PageView{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.Total,
		TotalPages:    page.TotalPages(),
	}, nil
}

func (s *Service) candidateName(ctx context.Context, id int64) (*string, error) {
	c, err := s.candidates.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return nil, nil
		}
		return nil, err
	}
	name := c.FullName()
	return &name, nil
}

func (s *Service) interviewerName(ctx context.Context, id int64) (*string, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	name := u.FullName()
	return &name, nil
}
