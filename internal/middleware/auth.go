package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
)

// Cookie names carrying the session tokens
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor
func WithActor(ctx context.Context, actor service.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the authenticated actor stored in ctx
func ActorFrom(ctx context.Context) (service.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(service.Actor)
	return actor, ok
}

// BearerToken extracts the token from the Authorization header, falling
// back to the named cookie
func BearerToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate rejects requests without a valid access token and stores
// the resolved actor in the request context
func Authenticate(auth service.Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r, AccessTokenCookie)
			if token == "" {
				writeError(w, http.StatusUnauthorized, service.ErrCodeUnauthenticated, "missing access token")
				return
			}

			actor, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if service.ErrorCode(err) == service.ErrCodeUnauthenticated {
					writeError(w, http.StatusUnauthorized, service.ErrCodeUnauthenticated, err.Error())
					return
				}
				logger.Error("failed to authenticate request", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, service.ErrCodeInternalError, "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), *actor)))
		})
	}
}

// RequireRole rejects authenticated actors holding none of roles
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, service.ErrCodeUnauthenticated, "missing access token")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				writeError(w, http.StatusForbidden, service.ErrCodeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
