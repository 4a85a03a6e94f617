package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/pkg/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*user.User, error)
}

type JWTAuth struct {
	auth Authenticator
	log  logger.Logger
}

type contextKey int

const (
	userKey contextKey = iota
)

func NewJWTAuth(auth Authenticator, log logger.Logger) *JWTAuth {
	return &JWTAuth{auth: auth, log: log}
}

// Middleware resolves the bearer token to an active user and stores it in
// the request context. Requests without a valid token are rejected.
func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		current, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), current)
		ctx = logger.IntoContext(ctx, logger.FromContext(ctx, a.log).With("user_id", current.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, current *user.User) context.Context {
	return context.WithValue(ctx, userKey, current)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	current, ok := ctx.Value(userKey).(*user.User)
	if !ok || current == nil || current.ID == "" {
		return nil, false
	}
	return current, true
}

// PrincipalFromContext returns the authenticated actor without credentials.
func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	current, ok := UserFromContext(ctx)
	if !ok {
		return user.Principal{}, false
	}
	return current.Principal(), true
}
