package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTokenTTL is the lifetime of issued tokens when none is configured (86,400,000 ms).
const DefaultTokenTTL = 24 * time.Hour

// MinSecretLength is the smallest HMAC secret accepted for HS512 signing (512 bits).
const MinSecretLength = 64

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMalformedToken   = errors.New("malformed token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWeakSecret       = errors.New("token signing secret is too weak")
)

// FailureReason tags why a token was rejected.
type FailureReason string

const (
	ReasonNone             FailureReason = ""
	ReasonEmpty            FailureReason = "empty"
	ReasonMalformed        FailureReason = "malformed"
	ReasonExpired          FailureReason = "expired"
	ReasonInvalidSignature FailureReason = "invalid_signature"
	ReasonWeakSecret       FailureReason = "weak_secret"
	ReasonUnknownSubject   FailureReason = "unknown_subject"
	ReasonInternal         FailureReason = "internal"
)

// ReasonFor maps a codec or lookup error to its FailureReason.
func ReasonFor(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrInvalidInput):
		return ReasonEmpty
	case errors.Is(err, ErrExpiredToken):
		return ReasonExpired
	case errors.Is(err, ErrInvalidSignature):
		return ReasonInvalidSignature
	case errors.Is(err, ErrWeakSecret):
		return ReasonWeakSecret
	case errors.Is(err, ErrMalformedToken):
		return ReasonMalformed
	case errors.Is(err, ErrPrincipalNotFound):
		return ReasonUnknownSubject
	default:
		return ReasonInternal
	}
}

// AuthOutcome is the result of validating a token without raising an error.
type AuthOutcome struct {
	Subject string
	Reason  FailureReason
	Err     error
}

// OK reports whether the token validated.
func (o AuthOutcome) OK() bool {
	return o.Reason == ReasonNone
}

// TokenCodec issues and verifies HS512 signed bearer tokens carrying a username subject.
// A codec is read-only after construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenCodecOption configures a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec. A weak secret is accepted here; every issue and decode
// then fails with ErrWeakSecret and IsValid reports false.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenCodecOption) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given subject.
func (c *TokenCodec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if len(c.secret) < MinSecretLength {
		return "", ErrWeakSecret
	}

	now := c.now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(c.secret)
}

// DecodeSubject verifies the token and returns its subject.
func (c *TokenCodec) DecodeSubject(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", fmt.Errorf("%w: token is empty", ErrInvalidInput)
	}
	if len(c.secret) < MinSecretLength {
		return "", ErrWeakSecret
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	return claims.Subject, nil
}

// Validate checks the token and reports the outcome. It never returns an error or panics.
func (c *TokenCodec) Validate(tokenStr string) (outcome AuthOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = AuthOutcome{Reason: ReasonInternal, Err: fmt.Errorf("token validation panic: %v", r)}
		}
	}()

	subject, err := c.DecodeSubject(tokenStr)
	if err != nil {
		log.Debug().Err(err).Msg("JWT validation failed")
		return AuthOutcome{Reason: ReasonFor(err), Err: err}
	}

	return AuthOutcome{Subject: subject}
}

// IsValid reports whether the token verifies and has not expired.
func (c *TokenCodec) IsValid(tokenStr string) bool {
	return c.Validate(tokenStr).OK()
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
}
