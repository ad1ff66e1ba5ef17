package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/interviewnotes/internal/models"
)

func interviewerID(id int64) *int64 {
	return &id
}

func TestScopeOf(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		want      Scope
	}{
		{name: "absent", principal: nil, want: ScopeNone},
		{name: "admin", principal: &Principal{ID: 1, Enabled: true, Role: models.RoleAdmin}, want: ScopeAll},
		{name: "hr manager", principal: &Principal{ID: 2, Enabled: true, Role: models.RoleHRManager}, want: ScopeAll},
		{name: "interviewer", principal: &Principal{ID: 7, Enabled: true, Role: models.RoleInterviewer}, want: ScopeAssigned},
		{name: "unknown role", principal: &Principal{ID: 8, Enabled: true, Role: models.RoleUnknown}, want: ScopeNone},
		{name: "out of range role", principal: &Principal{ID: 8, Enabled: true, Role: models.Role(42)}, want: ScopeNone},
		{name: "disabled admin", principal: &Principal{ID: 1, Enabled: false, Role: models.RoleAdmin}, want: ScopeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ScopeOf(tt.principal))
		})
	}
}

func TestCanRead(t *testing.T) {
	admin := &Principal{ID: 1, Enabled: true, Role: models.RoleAdmin}
	hr := &Principal{ID: 2, Enabled: true, Role: models.RoleHRManager}
	interviewer := &Principal{ID: 7, Enabled: true, Role: models.RoleInterviewer}
	unknown := &Principal{ID: 7, Enabled: true, Role: models.RoleUnknown}

	owned := &models.Interview{ID: 1, InterviewerID: interviewerID(7)}
	other := &models.Interview{ID: 2, InterviewerID: interviewerID(9)}
	unassigned := &models.Interview{ID: 3}

	tests := []struct {
		name      string
		principal *Principal
		interview *models.Interview
		owner     bool
		canRead   bool
	}{
		{name: "admin reads any", principal: admin, interview: other, canRead: true},
		{name: "admin reads unassigned", principal: admin, interview: unassigned, canRead: true},
		{name: "hr reads any", principal: hr, interview: other, canRead: true},
		{name: "interviewer reads own", principal: interviewer, interview: owned, owner: true, canRead: true},
		{name: "interviewer denied other", principal: interviewer, interview: other},
		{name: "interviewer denied unassigned", principal: interviewer, interview: unassigned},
		{name: "unknown role with matching id", principal: unknown, interview: owned},
		{name: "anonymous", principal: nil, interview: owned},
		{name: "nil interview", principal: admin, interview: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.owner, IsOwner(tt.principal, tt.interview))
			require.Equal(t, tt.canRead, CanRead(tt.principal, tt.interview))
		})
	}
}

func TestFilterForCaller(t *testing.T) {
	interviews := []*models.Interview{
		{ID: 1, InterviewerID: interviewerID(7)},
		{ID: 2, InterviewerID: interviewerID(9)},
		{ID: 3, InterviewerID: interviewerID(7)},
		{ID: 4},
	}

	ids := func(in []*models.Interview) []int64 {
		out := make([]int64, 0, len(in))
		for _, i := range in {
			out = append(out, i.ID)
		}
		return out
	}

	tests := []struct {
		name      string
		principal *Principal
		want      []int64
	}{
		{name: "admin sees all", principal: &Principal{ID: 1, Enabled: true, Role: models.RoleAdmin}, want: []int64{1, 2, 3, 4}},
		{name: "hr sees all", principal: &Principal{ID: 2, Enabled: true, Role: models.RoleHRManager}, want: []int64{1, 2, 3, 4}},
		{name: "interviewer sees own in order", principal: &Principal{ID: 7, Enabled: true, Role: models.RoleInterviewer}, want: []int64{1, 3}},
		{name: "other interviewer", principal: &Principal{ID: 9, Enabled: true, Role: models.RoleInterviewer}, want: []int64{2}},
		{name: "interviewer with nothing assigned", principal: &Principal{ID: 11, Enabled: true, Role: models.RoleInterviewer}, want: []int64{}},
		{name: "unknown role", principal: &Principal{ID: 7, Enabled: true, Role: models.RoleUnknown}, want: []int64{}},
		{name: "anonymous", principal: nil, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterForCaller(tt.principal, interviews)
			require.NotNil(t, got)
			require.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("empty input", func(t *testing.T) {
		got := FilterForCaller(&Principal{ID: 1, Enabled: true, Role: models.RoleAdmin}, nil)
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}

func TestCanListInterviewer(t *testing.T) {
	require.True(t, CanListInterviewer(&Principal{ID: 1, Enabled: true, Role: models.RoleAdmin}, 9))
	require.True(t, CanListInterviewer(&Principal{ID: 2, Enabled: true, Role: models.RoleHRManager}, 9))
	require.True(t, CanListInterviewer(&Principal{ID: 7, Enabled: true, Role: models.RoleInterviewer}, 7))
	require.False(t, CanListInterviewer(&Principal{ID: 7, Enabled: true, Role: models.RoleInterviewer}, 9))
	require.False(t, CanListInterviewer(nil, 7))
}
