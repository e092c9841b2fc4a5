package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"petcare/internal/config"
	"petcare/internal/http/handlers"
	"petcare/internal/repos"
)

type sent struct{ to, subject, body string }

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []sent
}

func (r *recordingDispatcher) Dispatch(to, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, sent{to, subject, body})
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

type testApp struct {
	app    *fiber.App
	db     *sqlx.DB
	cfg    config.Config
	notify *recordingDispatcher
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DBDSN:           ":memory:",
		MediaDir:        t.TempDir(),
		RateLimitPerMin: 1000,
		LoginLimit:      100,
		MaxUploadBytes:  1 << 20,
	}
}

func newTestAppWith(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	db, err := repos.OpenDB(cfg.DBDSN, true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	rec := &recordingDispatcher{}
	return &testApp{app: handlers.NewApp(cfg, db, rec), db: db, cfg: cfg, notify: rec}
}

func newTestApp(t *testing.T) *testApp { return newTestAppWith(t, testConfig(t)) }

func (ta *testApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrf fetches a token the way a browser would, from the login form.
func (ta *testApp) csrf(t *testing.T) string {
	t.Helper()
	resp := ta.do(t, httptest.NewRequest("GET", "/login", nil))
	tok := cookieValue(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// session binds a fresh sid to a seeded user.
func (ta *testApp) session(t *testing.T, userID string) string {
	t.Helper()
	sid := "sid-" + userID
	if err := repos.NewUserRepo(ta.db).BindSession(context.Background(), sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return sid
}

func withCookies(req *http.Request, csrf, sid string) *http.Request {
	if csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrf})
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return req
}

func (ta *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	return ta.do(t, withCookies(httptest.NewRequest("GET", path, nil), "", sid))
}

func (ta *testApp) postForm(t *testing.T, path string, form url.Values, csrf, sid string) *http.Response {
	t.Helper()
	if csrf != "" {
		form.Set("csrf", csrf)
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ta.do(t, withCookies(req, csrf, sid))
}

func (ta *testApp) postMultipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, file []byte, csrf, sid string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields["csrf"] = csrf
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(file)
	}
	_ = w.Close()
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ta.do(t, withCookies(req, csrf, sid))
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// ---------- log capture ----------

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	oldW, oldFlags := log.Writer(), log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
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
