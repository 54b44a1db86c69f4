package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The state nonce and PKCE verifier ride short-lived cookies between
// the redirect and the callback. They follow the session cookie's
// Secure policy instead of a hardcoded one, so local development over
// plain HTTP still completes the flow.
const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	flowCookieTTL   = 5 * time.Minute
)

func (h *Handler) setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieOpts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowCookieTTL.Seconds()),
	})
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// newState issues the anti-CSRF state nonce for the authorization
// redirect.
func (h *Handler) newState(c *gin.Context) string {
	state := randomToken()
	h.setFlowCookie(c, stateCookieName, state)
	return state
}

// validateState compares the callback's state query against the nonce
// issued at redirect time.
func (h *Handler) validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(stateQuery)) == 1
}

// newPKCE issues the code verifier cookie and returns the S256
// challenge for the authorization URL.
func (h *Handler) newPKCE(c *gin.Context) (verifier, challenge string) {
	verifier = randomToken()

	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])

	h.setFlowCookie(c, pkceCookieName, verifier)
	return verifier, challenge
}

func (h *Handler) pkceVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
