package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appliancestore/internal/http/handlers"
)

func loginForm(csrf, user, pass string) string {
	return url.Values{"csrf": {csrf}, "username": {user}, "password": {pass}}.Encode()
}

func TestFormLoginSuccessSetsSession(t *testing.T) {
	env := newTestApp(t)
	csrf := env.csrfToken(t)

	resp := env.do(t, formRequest("POST", "/admin/login", loginForm(csrf, testAdmin, testPassword), csrf))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	session := cookieValue(resp, handlers.SessionCookie)
	require.NotEmpty(t, session)
	user, ok := env.deps.Auth.Verify(session)
	assert.True(t, ok)
	assert.Equal(t, testAdmin, user)

	// the cookie opens the dashboard
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: session})
	dash := env.do(t, req)
	assert.Equal(t, http.StatusOK, dash.StatusCode)
	assert.Contains(t, readBody(t, dash), "Панель управления")
}

func TestFormLoginFailureAndThrottle(t *testing.T) {
	env := newTestApp(t)
	csrf := env.csrfToken(t)

	for i := 0; i < 5; i++ {
		resp := env.do(t, formRequest("POST", "/admin/login", loginForm(csrf, testAdmin, "wrong"), csrf))
		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
		assert.Empty(t, cookieValue(resp, handlers.SessionCookie))
	}
	// even the right password is throttled now
	resp := env.do(t, formRequest("POST", "/admin/login", loginForm(csrf, testAdmin, testPassword), csrf))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestFormLoginRequiresCSRF(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, formRequest("POST", "/admin/login", loginForm("", testAdmin, testPassword), ""))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, cookieValue(resp, handlers.SessionCookie))
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestApp(t)
	csrf := env.csrfToken(t)

	req := formRequest("POST", "/admin/logout", "csrf="+csrf, csrf)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: env.token(t)})
	resp := env.do(t, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	for _, c := range resp.Cookies() {
		if c.Name == handlers.SessionCookie {
			assert.Empty(t, c.Value)
		}
	}
}

func TestAPILoginAndVerify(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, jsonRequest("POST", "/api/auth/login", `{"username":"admin","password":"nope"}`, ""))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var fail map[string]any
	decodeJSON(t, resp, &fail)
	assert.Equal(t, "Invalid credentials", fail["error"])

	resp = env.do(t, jsonRequest("POST", "/api/auth/login", `{"username":"admin","password":"`+testPassword+`"}`, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decodeJSON(t, resp, &ok)
	require.True(t, ok.Success)
	require.NotEmpty(t, ok.Token)

	resp = env.do(t, jsonRequest("GET", "/api/auth/verify", "", ok.Token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var who map[string]any
	decodeJSON(t, resp, &who)
	assert.Equal(t, testAdmin, who["username"])

	resp = env.do(t, jsonRequest("GET", "/api/auth/verify", "", ok.Token+"x"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, jsonRequest("GET", "/api/auth/verify", "", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// verify only honours the Authorization header, not the page cookie
	req := jsonRequest("GET", "/api/auth/verify", "", "")
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: ok.Token})
	resp = env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPILoginRejectsMalformedBody(t *testing.T) {
	env := newTestApp(t)

	resp := env.do(t, jsonRequest("POST", "/api/auth/login", `{"username":`, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminPagesRedirectAnonymous(t *testing.T) {
	env := newTestApp(t)

	for _, path := range []string{"/admin", "/admin/sliders", "/admin/import", "/admin/categories/3/filters"} {
		resp := env.do(t, httptest.NewRequest("GET", path, nil))
		assert.Equalf(t, http.StatusFound, resp.StatusCode, "path %s", path)
		assert.Equalf(t, "/admin/login", resp.Header.Get("Location"), "path %s", path)
	}

	// a forged cookie is rejected too
	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: "YWRtaW46OTk5OTk5OTk5OTk5OTk6ZGVhZGJlZWY="})
	resp := env.do(t, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAdminAPIRequiresToken(t *testing.T) {
	env := newTestApp(t)

	cases := []struct{ method, path string }{
		{"POST", "/api/admin/import-products"},
		{"POST", "/api/sliders"},
		{"PUT", "/api/sliders/1"},
		{"DELETE", "/api/sliders/1"},
		{"DELETE", "/api/filters/1"},
		{"DELETE", "/api/filters/1/options/1"},
		{"DELETE", "/api/products/1"},
		{"POST", "/api/upload"},
	}
	for _, tc := range cases {
		resp := env.do(t, jsonRequest(tc.method, tc.path, `{}`, ""))
		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.True(t, strings.Contains(readBody(t, resp), "Unauthorized"))
	}
}

func TestAdminAPIAcceptsSessionCookie(t *testing.T) {
	env := newTestApp(t)

	req := jsonRequest("DELETE", "/api/sliders/1", "", "")
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: env.token(t)})
	resp := env.do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
