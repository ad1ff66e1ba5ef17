package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

func ptr[T any](v T) *T { return &v }

func seedInterviews(t *testing.T, st *InterviewStore) []*models.Interview {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	interviews := []*models.Interview{
		{CandidateID: 1, InterviewerID: ptr(int64(7)), Position: "Backend Engineer", Status: "SCHEDULED", Duration: 60, ScheduledDate: base.Add(48 * time.Hour)},
		{CandidateID: 1, InterviewerID: ptr(int64(9)), Position: "Frontend Engineer", Status: "COMPLETED", Duration: 45, ScheduledDate: base},
		{CandidateID: 2, InterviewerID: ptr(int64(7)), Position: "Platform engineer", Status: "SCHEDULED", Duration: 30, ScheduledDate: base.Add(24 * time.Hour)},
		{CandidateID: 3, Position: "Designer", Status: "CANCELLED", Duration: 30, ScheduledDate: base.Add(72 * time.Hour)},
	}
	for _, i := range interviews {
		require.NoError(t, st.Create(ctx, i))
	}
	return interviews
}

func TestMemoryInterviewStore_CRUD(t *testing.T) {
	st := NewInterviewStore()
	ctx := context.Background()
	seeded := seedInterviews(t, st)

	t.Run("get", func(t *testing.T) {
		got, err := st.Get(ctx, seeded[0].ID)
		require.NoError(t, err)
		require.Equal(t, "Backend Engineer", got.Position)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := st.Get(ctx, 100)
		require.Equal(t, store.ErrInterviewNotFound, err)
	})

	t.Run("update keeps created at", func(t *testing.T) {
		got, err := st.Get(ctx, seeded[0].ID)
		require.NoError(t, err)
		created := got.CreatedAt

		got.Status = "COMPLETED"
		got.CreatedAt = time.Time{}
		require.NoError(t, st.Update(ctx, got))

		again, err := st.Get(ctx, seeded[0].ID)
		require.NoError(t, err)
		require.Equal(t, "COMPLETED", again.Status)
		require.Equal(t, created, again.CreatedAt)
	})

	t.Run("update missing", func(t *testing.T) {
		err := st.Update(ctx, &models.Interview{ID: 100})
		require.Equal(t, store.ErrInterviewNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, seeded[3].ID))
		require.Equal(t, store.ErrInterviewNotFound, st.Delete(ctx, seeded[3].ID))
	})
}

func TestMemoryInterviewStore_Queries(t *testing.T) {
	st := NewInterviewStore()
	ctx := context.Background()
	seeded := seedInterviews(t, st)

	byCandidate, err := st.ListByCandidate(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byCandidate, 2)
	require.Equal(t, seeded[0].ID, byCandidate[0].ID)
	require.Equal(t, seeded[1].ID, byCandidate[1].ID)

	byInterviewer, err := st.ListByInterviewer(ctx, 7)
	require.NoError(t, err)
	require.Len(t, byInterviewer, 2)

	byStatus, err := st.ListByStatus(ctx, "SCHEDULED")
	require.NoError(t, err)
	require.Len(t, byStatus, 2)

	byPosition, err := st.ListByPosition(ctx, "ENGINEER")
	require.NoError(t, err)
	require.Len(t, byPosition, 3)

	none, err := st.ListByCandidate(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestMemoryInterviewStore_Paging(t *testing.T) {
	st := NewInterviewStore()
	ctx := context.Background()
	seedInterviews(t, st)

	t.Run("sorted by scheduled date ascending", func(t *testing.T) {
		page, err := st.List(ctx, store.PageRequest{Page: 0, Size: 2, SortBy: store.SortByScheduledDate})
		require.NoError(t, err)
		require.Equal(t, int64(4), page.Total)
		require.Equal(t, 2, page.TotalPages())
		require.Len(t, page.Items, 2)
		require.Equal(t, "Frontend Engineer", page.Items[0].Position)
		require.Equal(t, "Platform engineer", page.Items[1].Position)
	})

	t.Run("second page descending", func(t *testing.T) {
		page, err := st.List(ctx, store.PageRequest{Page: 1, Size: 3, SortBy: store.SortByScheduledDate, Descending: true})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, "Frontend Engineer", page.Items[0].Position)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := st.List(ctx, store.PageRequest{Page: 5, Size: 10})
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.Equal(t, int64(4), page.Total)
	})

	t.Run("by interviewer", func(t *testing.T) {
		page, err := st.ListByInterviewerPage(ctx, 7, store.PageRequest{Size: 10, SortBy: store.SortByID})
		require.NoError(t, err)
		require.Equal(t, int64(2), page.Total)
		for _, i := range page.Items {
			require.True(t, i.AssignedTo(7))
		}
	})

	t.Run("page whose offset overflows", func(t *testing.T) {
		for _, pageNo := range []int{math.MaxInt/20 + 1, math.MaxInt / 4, math.MaxInt} {
			_, err := st.List(ctx, store.PageRequest{Page: pageNo, Size: 20})
			require.ErrorIs(t, err, store.ErrInvalidPageRequest)

			_, err = st.ListByInterviewerPage(ctx, 7, store.PageRequest{Page: pageNo, Size: 20})
			require.ErrorIs(t, err, store.ErrInvalidPageRequest)
		}
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := st.List(ctx, store.PageRequest{Size: 10, SortBy: "password"})
		require.ErrorIs(t, err, store.ErrUnsupportedSortField)
	})
}
