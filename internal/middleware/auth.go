package middleware

import (
	"context"
	"errors"
	"net/http"

	"gamevault/internal/auth"
	"gamevault/internal/auth/resolver"
	"gamevault/internal/kvstore"
	"gamevault/internal/logger"
	"gamevault/internal/session"
)

// unexported, collision-proof context key
type authContextKeyType struct{}

var authContextKey = authContextKeyType{}

// FromContext extracts the resolved auth context from a request context.
func FromContext(ctx context.Context) (*resolver.Context, bool) {
	rc, ok := ctx.Value(authContextKey).(*resolver.Context)
	return rc, ok
}

// statusFor maps core error kinds onto their fixed HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, kvstore.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		// Includes session.ErrCorrupt: an operational fault, not a
		// user mistake.
		return http.StatusInternalServerError
	}
}

type AuthMiddleware struct {
	Resolver   *resolver.Resolver
	CookieName string
}

func NewAuthMiddleware(r *resolver.Resolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{Resolver: r, CookieName: cookieName}
}

// resolve runs the cookie → session → principal pipeline and writes the
// failure response itself. Returns nil when the response is finished.
func (a *AuthMiddleware) resolve(w http.ResponseWriter, r *http.Request) *resolver.Context {
	var sessionID string
	if cookie, err := r.Cookie(a.CookieName); err == nil {
		sessionID = cookie.Value
	}

	rc, err := a.Resolver.Resolve(r.Context(), sessionID)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, session.ErrCorrupt) {
			logger.Error("corrupt session encountered", map[string]any{
				"path": r.URL.Path,
			})
		}
		http.Error(w, http.StatusText(status), status)
		return nil
	}
	return rc
}

// RequireAuth rejects unauthenticated requests and attaches the
// resolved context for downstream handlers.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := a.resolve(w, r)
		if rc == nil {
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole is RequireAuth plus a minimum-role check. Insufficient
// role maps to 403, distinct from 401.
func (a *AuthMiddleware) RequireRole(min auth.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := a.resolve(w, r)
		if rc == nil {
			return
		}
		if err := rc.RequireRole(min); err != nil {
			status := statusFor(err)
			http.Error(w, http.StatusText(status), status)
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
