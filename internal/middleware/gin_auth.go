package middleware

import (
	"net/http"

	"gamevault/internal/auth"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http auth middleware to gin, so the
// auth decision stays transport-agnostic.
func GinRequireAuth(a *AuthMiddleware) gin.HandlerFunc {
	return ginBridge(func(next http.Handler) http.Handler {
		return a.RequireAuth(next)
	})
}

// GinRequireRole is the role-gated variant.
func GinRequireRole(a *AuthMiddleware, min auth.Role) gin.HandlerFunc {
	return ginBridge(func(next http.Handler) http.Handler {
		return a.RequireRole(min, next)
	})
}

func ginBridge(wrap func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		wrap(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already answered, stop the gin chain.
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
