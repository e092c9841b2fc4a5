package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"petcare/internal/repos"
)

func TestPasswordsSeededAreHashed(t *testing.T) {
	ta := newTestApp(t)
	var hashes []string
	if err := ta.db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoginLimit = 2
	ta := newTestAppWith(t, cfg)
	tok := ta.csrf(t)

	bad := ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"wrongpass!"}}, tok, "")
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", bad.StatusCode)
	}

	good := ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"Passw0rd!"}, "next": {"/account"}}, tok, "")
	if good.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", good.StatusCode)
	}
	if loc := good.Header.Get("Location"); loc != "/account" {
		t.Fatalf("expected redirect to next path, got %q", loc)
	}
	sid := cookieValue(good, "sid")
	if sid == "" {
		t.Fatal("login must issue a session cookie")
	}
	if resp := ta.get(t, "/account", sid); resp.StatusCode != http.StatusOK {
		t.Fatalf("session should be logged in, got %d", resp.StatusCode)
	}

	third := ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"wrongpass!"}}, tok, "")
	if third.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", third.StatusCode)
	}
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	resp := ta.postForm(t, "/login", url.Values{"username": {"bob"}, "password": {"Passw0rd!"}, "next": {"//evil.test/x"}}, tok, "")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("want redirect to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestSignupCreatesProfileAndLogsIn(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	form := url.Values{
		"username":     {"carol"},
		"email":        {"carol@petcare.test"},
		"phone_number": {"555-0102"},
		"password1":    {"Str0ng!pass"},
		"password2":    {"Str0ng!pass"},
	}
	resp := ta.postForm(t, "/signup", form, tok, "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect after signup, got %d: %s", resp.StatusCode, body(t, resp))
	}
	sid := cookieValue(resp, "sid")
	if acct := ta.get(t, "/account", sid); acct.StatusCode != http.StatusOK || !strings.Contains(body(t, acct), "555-0102") {
		t.Fatalf("signup must auto-login and create the profile, got %d", acct.StatusCode)
	}

	dup := ta.postForm(t, "/signup", form, tok, "")
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", dup.StatusCode)
	}

	form.Set("username", "dave")
	form.Set("email", "dave@petcare.test")
	form.Set("password2", "Other1!pass")
	if mismatch := ta.postForm(t, "/signup", form, tok, ""); mismatch.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched passwords, got %d", mismatch.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	sid := ta.session(t, "u-alice")

	resp := ta.postForm(t, "/logout", url.Values{}, tok, sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if _, err := repos.NewUserRepo(ta.db).SessionUser(context.Background(), sid); err == nil {
		t.Fatal("session must be unbound after logout")
	}
}

func TestAuthLogging(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)

	entries := captureLogs(t, func() {
		ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, tok, "")
		ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"Passw0rd!"}}, tok, "")
	})
	fail, ok := findLog(entries, "auth.login.fail")
	if !ok || fail.Level != "warn" {
		t.Fatalf("expected warn-level auth.login.fail, got %+v", entries)
	}
	if strings.Contains(fail.Fields["username"].(string), "Passw0rd") {
		t.Fatal("password leaked into log")
	}
	success, ok := findLog(entries, "auth.login.success")
	if !ok || success.Level != "audit" || success.UserID != "u-alice" {
		t.Fatalf("expected audit auth.login.success with user id, got %+v", success)
	}
}

func TestLoginIssuesFreshSession(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	planted := ta.session(t, "u-bob")

	resp := ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"Passw0rd!"}}, tok, planted)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}

	sid := cookieValue(resp, "sid")
	if sid == "" || sid == planted {
		t.Fatalf("login must issue a new sid, got %q", sid)
	}
	users := repos.NewUserRepo(ta.db)
	if u, err := users.SessionUser(context.Background(), sid); err != nil || u.ID != "u-alice" {
		t.Fatalf("new sid should belong to alice, got %v %v", u, err)
	}
	if _, err := users.SessionUser(context.Background(), planted); err == nil {
		t.Fatal("the session the browser arrived with must be dropped")
	}
}

func TestSignupIssuesFreshSession(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	form := url.Values{
		"username":     {"erin"},
		"email":        {"erin@petcare.test"},
		"phone_number": {"555-0103"},
		"password1":    {"Str0ng!pass"},
		"password2":    {"Str0ng!pass"},
	}
	resp := ta.postForm(t, "/signup", form, tok, "chosen-by-someone-else")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	sid := cookieValue(resp, "sid")
	if sid == "" || sid == "chosen-by-someone-else" {
		t.Fatalf("signup must issue a new sid, got %q", sid)
	}
	if _, err := repos.NewUserRepo(ta.db).SessionUser(context.Background(), "chosen-by-someone-else"); err == nil {
		t.Fatal("client supplied sid must not be bound")
	}
}

func TestFailedLoginBindsNothing(t *testing.T) {
	ta := newTestApp(t)
	resp := ta.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, ta.csrf(t), "")
	if sid := cookieValue(resp, "sid"); sid != "" {
		t.Fatalf("failed login must not set a session cookie, got %q", sid)
	}
	var n int
	_ = ta.db.Get(&n, `SELECT COUNT(*) FROM sessions`)
	if n != 0 {
		t.Fatalf("failed login created %d sessions", n)
	}
}

func TestLogoutLogsUserNotSession(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)
	sid := ta.session(t, "u-alice")

	entries := captureLogs(t, func() {
		ta.postForm(t, "/logout", url.Values{}, tok, sid)
	})
	e, ok := findLog(entries, "auth.logout")
	if !ok || e.UserID != "u-alice" {
		t.Fatalf("expected auth.logout with user id, got %+v", e)
	}
	if _, leaked := e.Fields["sid"]; leaked {
		t.Fatal("session id must not be logged")
	}
}
