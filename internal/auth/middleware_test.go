package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			t.Error("handler reached without userID in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireLogin_AnonymousRedirectsWithNext(t *testing.T) {
	ts := newTestTokens(t, time.Hour)
	h := RequireLogin(ts)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/notes/add", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing Location: %v", err)
	}
	if loc.Path != LoginPath {
		t.Errorf("redirect path = %q, want %q", loc.Path, LoginPath)
	}
	if got := loc.Query().Get("next"); got != "/notes/add" {
		t.Errorf("next = %q, want %q", got, "/notes/add")
	}
}

func TestRequireLogin_InvalidTokenRedirects(t *testing.T) {
	ts := newTestTokens(t, time.Hour)
	h := RequireLogin(ts)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("status = %d, want redirect %d", rr.Code, http.StatusFound)
	}
}

func TestRequireLogin_ValidTokenPasses(t *testing.T) {
	ts := newTestTokens(t, time.Hour)

	token, err := ts.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var seenID string
	h := RequireLogin(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if seenID != "user-1" {
		t.Errorf("userID in context = %q, want %q", seenID, "user-1")
	}
}

func TestOptionalAuth_AnonymousPassesWithoutIdentity(t *testing.T) {
	ts := newTestTokens(t, time.Hour)

	var anonymous bool
	h := OptionalAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := UserIDFromContext(r.Context())
		anonymous = !ok
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 — OptionalAuth must never block", rr.Code)
	}
	if !anonymous {
		t.Error("anonymous request should carry no identity")
	}
}

func TestLoginRedirectURL_EscapesNext(t *testing.T) {
	got := LoginRedirectURL("/news/abc?x=1")
	want := LoginPath + "?next=" + url.QueryEscape("/news/abc?x=1")
	if got != want {
		t.Errorf("LoginRedirectURL() = %q, want %q", got, want)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	ts := newTestTokens(t, time.Hour)

	rr := httptest.NewRecorder()
	SetSessionCookie(rr, ts, "token-value")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookie || c.Value != "token-value" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr)
	cleared := rr.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("ClearSessionCookie() should expire the cookie immediately")
	}
}
