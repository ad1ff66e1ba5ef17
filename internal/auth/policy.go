package auth

import (
	"github.com/wolfeidau/interviewnotes/internal/models"
)

// Scope is how much of the interview set a principal may read.
type Scope int

const (
	ScopeNone     Scope = iota // nothing
	ScopeAll                   // every interview
	ScopeAssigned              // interviews assigned to the principal
)

// ScopeOf decides the read scope from the principal's role alone.
// Absent, disabled and unknown-role principals read nothing.
func ScopeOf(p *Principal) Scope {
	if p == nil || !p.Enabled {
		return ScopeNone
	}

	switch p.Role {
	case models.RoleAdmin, models.RoleHRManager:
		return ScopeAll
	case models.RoleInterviewer:
		return ScopeAssigned
	default:
		return ScopeNone
	}
}

// IsAdminOrHR reports whether the principal reads every interview.
func IsAdminOrHR(p *Principal) bool {
	return ScopeOf(p) == ScopeAll
}

// IsOwner reports whether the principal is an interviewer assigned to the interview.
func IsOwner(p *Principal, i *models.Interview) bool {
	if i == nil || ScopeOf(p) != ScopeAssigned {
		return false
	}
	return i.AssignedTo(p.ID)
}

// CanRead reports whether the principal may see the interview.
func CanRead(p *Principal, i *models.Interview) bool {
	if i == nil {
		return false
	}
	return IsAdminOrHR(p) || IsOwner(p, i)
}

// CanListInterviewer reports whether the principal may list interviews for the interviewer.
func CanListInterviewer(p *Principal, interviewerID int64) bool {
	switch ScopeOf(p) {
	case ScopeAll:
		return true
	case ScopeAssigned:
		return p.ID == interviewerID
	default:
		return false
	}
}

// FilterForCaller narrows interviews to those the principal may read, preserving order.
// The result is never nil.
func FilterForCaller(p *Principal, interviews []*models.Interview) []*models.Interview {
	switch ScopeOf(p) {
	case ScopeAll:
		out := make([]*models.Interview, len(interviews))
		copy(out, interviews)
		return out
	case ScopeAssigned:
		out := make([]*models.Interview, 0, len(interviews))
		for _, i := range interviews {
			if i != nil && i.AssignedTo(p.ID) {
				out = append(out, i)
			}
		}
		return out
	default:
		return []*models.Interview{}
	}
}
