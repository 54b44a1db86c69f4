package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamevault/internal/session"

	"github.com/gin-gonic/gin"
)

func flowCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestFlowCookiesFollowCookiePolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, secure := range []bool{false, true} {
		h := &Handler{cookieOpts: session.CookieOptions{Name: testCookie, Secure: secure}}

		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/google", nil)

		h.newState(c)
		h.newPKCE(c)

		for _, name := range []string{stateCookieName, pkceCookieName} {
			cookie := flowCookies(rec)[name]
			if cookie == nil {
				t.Fatalf("secure=%v: cookie %s not set", secure, name)
			}
			if cookie.Secure != secure {
				t.Errorf("secure=%v: cookie %s has Secure=%v", secure, name, cookie.Secure)
			}
			if !cookie.HttpOnly {
				t.Errorf("cookie %s is not HttpOnly", name)
			}
			if cookie.MaxAge <= 0 {
				t.Errorf("cookie %s has no expiry: MaxAge=%d", name, cookie.MaxAge)
			}
		}
	}
}

func TestPKCEChallengeMatchesVerifier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/google", nil)

	verifier, challenge := h.newPKCE(c)

	sum := sha256.Sum256([]byte(verifier))
	if want := base64.RawURLEncoding.EncodeToString(sum[:]); challenge != want {
		t.Fatalf("challenge is not S256 of verifier: got %q, want %q", challenge, want)
	}

	cookie := flowCookies(rec)[pkceCookieName]
	if cookie == nil || cookie.Value != verifier {
		t.Fatalf("verifier cookie does not carry the verifier")
	}
}

func TestStateRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/google", nil)
	state := h.newState(c)

	callback, _ := gin.CreateTestContext(httptest.NewRecorder())
	callback.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/google?state="+state, nil)
	callback.Request.AddCookie(&http.Cookie{Name: stateCookieName, Value: state})
	if !h.validateState(callback) {
		t.Fatalf("matching state rejected")
	}

	tampered, _ := gin.CreateTestContext(httptest.NewRecorder())
	tampered.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/google?state=forged", nil)
	tampered.Request.AddCookie(&http.Cookie{Name: stateCookieName, Value: state})
	if h.validateState(tampered) {
		t.Fatalf("forged state accepted")
	}
}
