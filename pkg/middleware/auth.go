package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
	"github.com/falahatiali/MoneyMentor/pkg/httputil"
	"github.com/falahatiali/MoneyMentor/pkg/logger"
)

type contextKeyType string

const principalKey contextKeyType = "principal"

// Principal is the caller identity taken from a verified access token.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Role     string
}

// TokenVerifier checks a raw bearer token and returns its principal. It must
// reject tokens that are not access tokens.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*Principal, error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(token string) (*Principal, error)

// VerifyAccessToken calls f.
func (f TokenVerifierFunc) VerifyAccessToken(token string) (*Principal, error) {
	return f(token)
}

// Auth requires a valid "Authorization: Bearer <access token>" header and
// stores the principal in the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("Missing or malformed authorization header"), nil)
				return
			}

			p, err := verifier.VerifyAccessToken(strings.TrimSpace(token))
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("Invalid or expired token"), nil)
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			ctx = logger.WithUserID(ctx, strconv.FormatInt(p.UserID, 10))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by Auth.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}
