package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("0123456789abcdef", 4))

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	for _, subject := range []string{"alice", "bob.smith", "user@example.com", "名前"} {
		t.Run(subject, func(t *testing.T) {
			token, err := codec.Issue(subject)
			require.NoError(t, err)
			require.Len(t, strings.Split(token, "."), 3)

			got, err := codec.DecodeSubject(token)
			require.NoError(t, err)
			require.Equal(t, subject, got)
			require.True(t, codec.IsValid(token))

			outcome := codec.Validate(token)
			require.True(t, outcome.OK())
			require.Equal(t, subject, outcome.Subject)
		})
	}
}

func TestTokenCodecClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	codec := NewTokenCodec(testSecret, 0, WithClock(fixedClock(now)))
	require.Equal(t, DefaultTokenTTL, codec.TTL())

	token, err := codec.Issue("alice")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.Equal(t, "HS512", parsed.Method.Alg())
	require.Equal(t, now, claims.IssuedAt.Time.UTC())
	require.Equal(t, now.Add(24*time.Hour), claims.ExpiresAt.Time.UTC())
	require.NotEmpty(t, claims.ID)

	other, err := codec.Issue("alice")
	require.NoError(t, err)
	require.NotEqual(t, token, other, "each token carries a unique id")
}

func TestTokenCodecExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := issuedAt
	codec := NewTokenCodec(testSecret, time.Hour, WithClock(func() time.Time { return now }))

	token, err := codec.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{name: "just issued", at: issuedAt, valid: true},
		{name: "one second before expiry", at: issuedAt.Add(time.Hour - time.Second), valid: true},
		{name: "at expiry", at: issuedAt.Add(time.Hour), valid: false},
		{name: "after expiry", at: issuedAt.Add(2 * time.Hour), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = tt.at
			require.Equal(t, tt.valid, codec.IsValid(token))

			_, err := codec.DecodeSubject(token)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrExpiredToken)
			require.Equal(t, ReasonExpired, codec.Validate(token).Reason)
		})
	}
}

func TestTokenCodecTamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue("alice")
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		require.False(t, codec.IsValid(tampered), "position %d", i)
		_, err := codec.DecodeSubject(tampered)
		require.Error(t, err, "position %d", i)
	}
}

func TestTokenCodecTamperedPayload(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	token, err := codec.Issue("alice")
	require.NoError(t, err)

	forged, err := codec.Issue("mallory")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = codec.DecodeSubject(spliced)
	require.ErrorIs(t, err, ErrInvalidSignature)
	require.False(t, codec.IsValid(spliced))
}

func TestTokenCodecRejects(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	otherSecret := []byte(strings.Repeat("fedcba9876543210", 4))
	foreign, err := NewTokenCodec(otherSecret, time.Hour).Issue("alice")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		err    error
		reason FailureReason
	}{
		{name: "empty", token: "", err: ErrInvalidInput, reason: ReasonEmpty},
		{name: "garbage", token: "not-a-token", err: ErrMalformedToken, reason: ReasonMalformed},
		{name: "two segments", token: "abc.def", err: ErrMalformedToken, reason: ReasonMalformed},
		{name: "foreign secret", token: foreign, err: ErrInvalidSignature, reason: ReasonInvalidSignature},
		{name: "alg none", token: unsigned, err: ErrInvalidSignature, reason: ReasonInvalidSignature},
		{name: "wrong algorithm", token: hs256, err: ErrInvalidSignature, reason: ReasonInvalidSignature},
		{name: "missing expiry", token: noExpiry, err: ErrMalformedToken, reason: ReasonMalformed},
		{name: "missing subject", token: noSubject, err: ErrMalformedToken, reason: ReasonMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecodeSubject(tt.token)
			require.ErrorIs(t, err, tt.err)

			require.False(t, codec.IsValid(tt.token))
			outcome := codec.Validate(tt.token)
			require.Equal(t, tt.reason, outcome.Reason)
			require.Empty(t, outcome.Subject)
		})
	}
}

func TestTokenCodecEmptySubject(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)

	_, err := codec.Issue("")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTokenCodecWeakSecret(t *testing.T) {
	strong := NewTokenCodec(testSecret, time.Hour)
	token, err := strong.Issue("alice")
	require.NoError(t, err)

	weak := NewTokenCodec([]byte("too-short"), time.Hour)

	_, err = weak.Issue("alice")
	require.ErrorIs(t, err, ErrWeakSecret)

	_, err = weak.DecodeSubject(token)
	require.ErrorIs(t, err, ErrWeakSecret)

	require.False(t, weak.IsValid(token))
	require.Equal(t, ReasonWeakSecret, weak.Validate(token).Reason)
}

func TestReasonFor(t *testing.T) {
	require.Equal(t, ReasonNone, ReasonFor(nil))
	require.Equal(t, ReasonUnknownSubject, ReasonFor(ErrPrincipalNotFound))
	require.Equal(t, ReasonInternal, ReasonFor(jwt.ErrTokenMalformed))
}
