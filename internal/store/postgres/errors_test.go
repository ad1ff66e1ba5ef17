package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

func TestMapPostgresError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name string
		err  error
		is   error
	}{
		{name: "nil", err: nil, is: nil},
		{name: "not a postgres error", err: plain, is: plain},
		{name: "duplicate username", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"}, is: store.ErrUserAlreadyExists},
		{name: "duplicate email", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}, is: store.ErrUserAlreadyExists},
		{name: "missing candidate", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "interviews_candidate_id_fkey"}, is: store.ErrCandidateNotFound},
		{name: "missing interviewer", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "interviews_interviewer_id_fkey"}, is: store.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPostgresError(tt.err)
			if tt.is == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.is)
		})
	}

	t.Run("other unique violation keeps pg error", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "candidates_email_key"}
		got := mapPostgresError(pgErr)
		var target *pgconn.PgError
		require.ErrorAs(t, got, &target)
		require.NotErrorIs(t, got, store.ErrUserAlreadyExists)
	})
}

func TestIsRetryable(t *testing.T) {
	require.True(t, isRetryable(errors.New("dial tcp: connection refused")))
	require.True(t, isRetryable(&pgconn.PgError{Code: pgerrcode.CannotConnectNow}))
	require.True(t, isRetryable(&pgconn.PgError{Code: pgerrcode.ConnectionFailure}))
	require.False(t, isRetryable(&pgconn.PgError{Code: pgerrcode.InvalidPassword}))
}
