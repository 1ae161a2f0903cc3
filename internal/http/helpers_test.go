package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"appliancestore/internal/config"
	"appliancestore/internal/http/handlers"
	applog "appliancestore/internal/log"
	"appliancestore/internal/repos"
)

const (
	testAdmin    = "admin"
	testPassword = "s3cret-pass"
)

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	cfg  config.Config
}

// newTestApp wires the full application against an in-memory database.
func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		DBPath:        ":memory:",
		MediaDir:      t.TempDir(),
		TemplatesDir:  "../../web/templates",
		StaticDir:     "../../web/static",
		AdminUsername: testAdmin,
		AdminPassword: testPassword,
		SessionSecret: "test-secret",
	}
	db, err := repos.OpenDB(cfg.DBPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg)
	return &testEnv{app: handlers.NewApp(cfg, deps), deps: deps, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

// token logs in through the service and returns a bearer token.
func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, err := e.deps.Auth.Login(testAdmin, testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return tok
}

// csrfToken fetches a page and returns the token from the csrf_ cookie.
func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	resp := e.do(t, httptest.NewRequest("GET", "/admin/login", nil))
	tok := cookieValue(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func formRequest(method, target, body, csrf string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrf})
	}
	return req
}

func jsonRequest(method, target, body, bearer string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	User   string         `json:"user"`
	Err    string         `json:"err"`
	Status int            `json:"status"`
	Fields map[string]any `json:"fields"`
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// captureLogs redirects the application log while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var lb lockedBuffer
	applog.SetOutput(&lb)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(lb.buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }
