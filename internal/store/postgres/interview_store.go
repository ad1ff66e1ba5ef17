package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

const interviewColumns = `id, candidate_id, interviewer_id, position, status, duration,
	scheduled_date, overall_score, notes, created_at, updated_at`

// InterviewStore implements store.InterviewStore using PostgreSQL.
type InterviewStore struct {
	pool *pgxpool.Pool
}

// NewInterviewStore creates a new PostgreSQL-backed interview store.
func NewInterviewStore(pool *pgxpool.Pool) *InterviewStore {
	return &InterviewStore{pool: pool}
}

// Create inserts an interview, assigning its ID and timestamps.
func (s *InterviewStore) Create(ctx context.Context, i *models.Interview) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO interviews (
			candidate_id, interviewer_id, position, status, duration,
			scheduled_date, overall_score, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		i.CandidateID,
		i.InterviewerID,
		i.Position,
		i.Status,
		i.Duration,
		i.ScheduledDate,
		i.OverallScore,
		i.Notes,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", mapPostgresError(err))
	}

	log.Debug().Int64("interview_id", i.ID).Int64("candidate_id", i.CandidateID).Msg("Created interview")

	return nil
}

// Get retrieves an interview by ID.
func (s *InterviewStore) Get(ctx context.Context, id int64) (*models.Interview, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", mapPostgresError(err))
	}

	interview, err := pgx.CollectExactlyOneRow(rows, scanInterview)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", mapPostgresError(err))
	}
	return interview, nil
}

// Update replaces the mutable fields of an interview and refreshes updated_at.
func (s *InterviewStore) Update(ctx context.Context, i *models.Interview) error {
	err := s.pool.QueryRow(ctx, `
		UPDATE interviews SET
			candidate_id = $2,
			interviewer_id = $3,
			position = $4,
			status = $5,
			duration = $6,
			scheduled_date = $7,
			overall_score = $8,
			notes = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		i.ID,
		i.CandidateID,
		i.InterviewerID,
		i.Position,
		i.Status,
		i.Duration,
		i.ScheduledDate,
		i.OverallScore,
		i.Notes,
	).Scan(&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrInterviewNotFound
		}
		return fmt.Errorf("failed to update interview: %w", mapPostgresError(err))
	}
	return nil
}

// Delete removes an interview.
func (s *InterviewStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrInterviewNotFound
	}
	return nil
}

// List returns a page of all interviews.
func (s *InterviewStore) List(ctx context.Context, req store.PageRequest) (*store.Page, error) {
	return s.page(ctx, req, "TRUE")
}

// ListByInterviewerPage returns a page of interviews assigned to the interviewer.
func (s *InterviewStore) ListByInterviewerPage(ctx context.Context, interviewerID int64, req store.PageRequest) (*store.Page, error) {
	return s.page(ctx, req, "interviewer_id = $1", interviewerID)
}

// ListByCandidate returns all interviews of a candidate ordered by ID.
func (s *InterviewStore) ListByCandidate(ctx context.Context, candidateID int64) ([]*models.Interview, error) {
	return s.list(ctx, "candidate_id = $1", candidateID)
}

// ListByInterviewer returns all interviews assigned to the interviewer ordered by ID.
func (s *InterviewStore) ListByInterviewer(ctx context.Context, interviewerID int64) ([]*models.Interview, error) {
	return s.list(ctx, "interviewer_id = $1", interviewerID)
}

// ListByStatus returns all interviews with the status ordered by ID.
func (s *InterviewStore) ListByStatus(ctx context.Context, status string) ([]*models.Interview, error) {
	return s.list(ctx, "status = $1", status)
}

// ListByPosition returns interviews whose position contains the text, ignoring case.
func (s *InterviewStore) ListByPosition(ctx context.Context, position string) ([]*models.Interview, error) {
	return s.list(ctx, "strpos(lower(position), lower($1)) > 0", position)
}

// list runs a filtered query. where is always a constant from this file.
func (s *InterviewStore) list(ctx context.Context, where string, args ...any) ([]*models.Interview, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", mapPostgresError(err))
	}

	interviews, err := pgx.CollectRows(rows, scanInterview)
	if err != nil {
		return nil, fmt.Errorf("failed to scan interviews: %w", mapPostgresError(err))
	}
	if interviews == nil {
		interviews = []*models.Interview{}
	}
	return interviews, nil
}

func (s *InterviewStore) page(ctx context.Context, req store.PageRequest, where string, args ...any) (*store.Page, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	column, err := req.SortBy.Column()
	if err != nil {
		return nil, err
	}
	direction := "ASC"
	if req.Descending {
		direction = "DESC"
	}

	page := &store.Page{Page: req.Page, Size: req.Size}

	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM interviews WHERE `+where, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count interviews: %w", mapPostgresError(err))
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		interviewColumns, where, column, direction, n+1, n+2)

	rows, err := s.pool.Query(ctx, query, append(args, req.Size, req.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", mapPostgresError(err))
	}

	page.Items, err = pgx.CollectRows(rows, scanInterview)
	if err != nil {
		return nil, fmt.Errorf("failed to scan interviews: %w", mapPostgresError(err))
	}
	if page.Items == nil {
		page.Items = []*models.Interview{}
	}

	return page, nil
}

func scanInterview(row pgx.CollectableRow) (*models.Interview, error) {
	var i models.Interview
	err := row.Scan(
		&i.ID,
		&i.CandidateID,
		&i.InterviewerID,
		&i.Position,
		&i.Status,
		&i.Duration,
		&i.ScheduledDate,
		&i.OverallScore,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
