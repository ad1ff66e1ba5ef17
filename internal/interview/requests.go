package interview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInterview is returned when a create or update request fails validation.
var ErrInvalidInterview = errors.New("invalid interview")

// CreateRequest is the payload for scheduling a new interview.
type CreateRequest struct {
	CandidateID   *int64     `json:"candidateId" validate:"required"`
	Position      string     `json:"position" validate:"required,max=255"`
	Status        string     `json:"status" validate:"omitempty,max=50"`
	Duration      int        `json:"duration" validate:"gt=0"`
	ScheduledDate *time.Time `json:"scheduledDate" validate:"required"`
	OverallScore  *float64   `json:"overallScore" validate:"omitempty,gte=0,lte=10"`
	Notes         *string    `json:"notes"`
	InterviewerID *int64     `json:"interviewerId"`
}

// UpdateRequest carries the fields to change. Nil fields are left untouched.
type UpdateRequest struct {
	CandidateID   *int64     `json:"candidateId"`
	Position      *string    `json:"position" validate:"omitempty,min=1,max=255"`
	Status        *string    `json:"status" validate:"omitempty,min=1,max=50"`
	Duration      *int       `json:"duration" validate:"omitempty,gt=0"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	OverallScore  *float64   `json:"overallScore" validate:"omitempty,gte=0,lte=10"`
	Notes         *string    `json:"notes"`
	InterviewerID *int64     `json:"interviewerId"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInterview, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", lowerFirst(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInterview, strings.Join(fields, ", "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
