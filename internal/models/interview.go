package models

import "time"

// InterviewStatusScheduled is the status assigned to new interviews when none is given.
const InterviewStatusScheduled = "SCHEDULED"

// Candidate is a person being interviewed.
type Candidate struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "First Last".
func (c *Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Interview is a scheduled or completed interview of a candidate.
// InterviewerID is nil when no interviewer has been assigned.
type Interview struct {
	ID            int64
	CandidateID   int64
	InterviewerID *int64

	Position      string
	Status        string
	Duration      int // minutes
	ScheduledDate time.Time
	OverallScore  *float64
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssignedTo reports whether the interview is assigned to the given user.
func (i *Interview) AssignedTo(userID int64) bool {
	return i.InterviewerID != nil && *i.InterviewerID == userID
}

// Clone returns a deep copy of the interview.
func (i *Interview) Clone() *Interview {
	clone := *i
	if i.InterviewerID != nil {
		id := *i.InterviewerID
		clone.InterviewerID = &id
	}
	if i.OverallScore != nil {
		score := *i.OverallScore
		clone.OverallScore = &score
	}
	if i.Notes != nil {
		notes := *i.Notes
		clone.Notes = &notes
	}
	return &clone
}
