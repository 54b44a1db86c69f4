package handler

import (
	"errors"
	"net/http"

	"gamevault/internal/auth"
	"gamevault/internal/auth/credentials"
	"gamevault/internal/auth/provider"
	"gamevault/internal/kvstore"
	"gamevault/internal/logger"
	"gamevault/internal/middleware"
	"gamevault/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	credentials *credentials.Service
	sessions    *session.Manager
	providers   *provider.Registry
	cookieOpts  session.CookieOptions
}

func NewHandler(
	creds *credentials.Service,
	sessions *session.Manager,
	providers *provider.Registry,
	cookieOpts session.CookieOptions,
) *Handler {
	return &Handler{
		credentials: creds,
		sessions:    sessions,
		providers:   providers,
		cookieOpts:  cookieOpts,
	}
}

// RegisterRoutes mounts the public auth surface.
func (h *Handler) RegisterRoutes(r *gin.Engine, limit gin.HandlerFunc) {
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", limit, h.Login)
	r.POST("/auth/logout", h.Logout)

	if h.providers != nil {
		r.GET("/oauth/login/:provider", h.oauthLogin)
		r.GET("/oauth/callback/:provider", h.oauthCallback)
	}
}

// failStatus maps store-layer failures reaching a handler directly.
func failStatus(err error) int {
	if errors.Is(err, kvstore.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// startSession creates a session for the principal and issues the
// cookie. Shared by signup, login, and the OAuth callback.
func (h *Handler) startSession(c *gin.Context, p *auth.Principal) bool {
	sess, err := h.sessions.Create(c.Request.Context(), p.ID)
	if err != nil {
		c.JSON(failStatus(err), gin.H{"error": "session error"})
		return false
	}

	session.SetCookie(c.Writer, sess.ID, h.sessions.TTL(), h.cookieOpts)
	return true
}

func (h *Handler) Logout(c *gin.Context) {

	// Best-effort delete; logout succeeds even if the session already
	// expired or the cookie is missing.
	cookie, err := c.Request.Cookie(h.cookieOpts.Name)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request.Context(), cookie.Value); err != nil {
			logger.Warn("logout delete failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.cookieOpts)
	c.Status(http.StatusNoContent)
}

// LogoutAll revokes every session of the authenticated principal and
// clears the caller's cookie.
func (h *Handler) LogoutAll(c *gin.Context) {
	rc, ok := middleware.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.sessions.DeleteAllForPrincipal(c.Request.Context(), rc.Principal.ID); err != nil {
		c.JSON(failStatus(err), gin.H{"error": "session error"})
		return
	}

	session.ClearCookie(c.Writer, h.cookieOpts)
	c.Status(http.StatusNoContent)
}

// Me reports who the caller is.
func (h *Handler) Me(c *gin.Context) {
	rc, ok := middleware.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  rc.Principal.ID,
		"username": rc.Principal.Username,
		"email":    rc.Principal.Email,
		"role":     rc.Principal.Role,
	})
}

// IssueCSRF mints a CSRF token bound to the caller's session.
func (h *Handler) IssueCSRF(c *gin.Context) {
	rc, ok := middleware.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, err := h.sessions.IssueCSRFToken(c.Request.Context(), rc.Session)
	if err != nil {
		c.JSON(failStatus(err), gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}

// AdminSessions reports live session counts. Mounted behind a
// superuser role gate. Ids are truncated before leaving the process:
// a full id is a bearer token, and even an admin response must not
// carry usable ones.
func (h *Handler) AdminSessions(c *gin.Context) {
	ids, err := h.sessions.ActiveSessionIDs(c.Request.Context())
	if err != nil {
		c.JSON(failStatus(err), gin.H{"error": "store error"})
		return
	}

	redacted := make([]string, 0, len(ids))
	for _, id := range ids {
		redacted = append(redacted, redactSessionID(id))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(ids),
		"sessions": redacted,
	})
}

func redactSessionID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
