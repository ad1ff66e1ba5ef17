package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/interviewnotes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const bearerPrefix = "Bearer "

// TokenVerifier is the subset of TokenCodec used by the authenticator.
type TokenVerifier interface {
	IsValid(token string) bool
	DecodeSubject(token string) (string, error)
}

// PrincipalFinder resolves an enabled principal by username.
type PrincipalFinder interface {
	FindEnabledPrincipal(ctx context.Context, username string) (*Principal, error)
}

// Authenticator resolves bearer tokens into principals on each request.
type Authenticator struct {
	tokens     TokenVerifier
	principals PrincipalFinder
}

// NewAuthenticator creates a request authenticator.
func NewAuthenticator(tokens TokenVerifier, principals PrincipalFinder) *Authenticator {
	return &Authenticator{tokens: tokens, principals: principals}
}

// Middleware establishes the caller's principal from the Authorization header.
// It never rejects a request: failures leave the request anonymous and the
// route's own checks decide the response.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				recordOutcome(ctx, "anonymous")
				next.ServeHTTP(w, r)
				return
			}

			principal, reason := a.authenticate(ctx, token)
			if principal == nil {
				zerolog.Ctx(ctx).Debug().Str("reason", string(reason)).Msg("bearer token rejected, continuing anonymously")
				recordOutcome(ctx, string(reason))
				next.ServeHTTP(w, r)
				return
			}

			recordOutcome(ctx, "authenticated")
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// authenticate turns a token into a principal. Any failure, including a panic from
// a collaborator, yields a nil principal and the reason.
func (a *Authenticator) authenticate(ctx context.Context, token string) (principal *Principal, reason FailureReason) {
	defer func() {
		if rec := recover(); rec != nil {
			zerolog.Ctx(ctx).Error().Err(fmt.Errorf("panic: %v", rec)).Msg("authentication panicked")
			principal, reason = nil, ReasonInternal
		}
	}()

	if !a.tokens.IsValid(token) {
		_, err := a.tokens.DecodeSubject(token)
		if err == nil {
			return nil, ReasonInternal
		}
		return nil, ReasonFor(err)
	}

	username, err := a.tokens.DecodeSubject(token)
	if err != nil {
		return nil, ReasonFor(err)
	}

	principal, err = a.principals.FindEnabledPrincipal(ctx, username)
	if err != nil {
		return nil, ReasonFor(err)
	}

	return principal, ReasonNone
}

// bearerToken extracts the token following the literal "Bearer " prefix.
// A missing header, another scheme or an empty token all count as absent.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}

	return token, true
}

func recordOutcome(ctx context.Context, outcome string) {
	telemetry.GetMetrics().AuthOutcomesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
