package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"courseportal/internal/api"
	"courseportal/internal/config"
	"courseportal/internal/session"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer returned error: %v", err)
	}
	return rd
}

// withSessions runs handler behind the session middleware, as the portal does.
func withSessions(handler http.HandlerFunc) http.Handler {
	cfg := config.DefaultConfig()
	cfg.SessionSecret = strings.Repeat("w", 32)
	m := session.NewManager(api.NewClient("http://127.0.0.1:1", time.Second), session.NewCookieStore(cfg), cfg.SessionCookieName)
	return m.Middleware(handler)
}

func TestAllPagesAreLoaded(t *testing.T) {
	rd := newRenderer(t)
	for _, name := range []string{"landing", "home", "auth", "courses", "course_detail", "course_form", "confirm", "profile", "admin", "error"} {
		if !rd.Has(name) {
			t.Errorf("Expected page %q to be loaded", name)
		}
	}
}

func TestRenderShowsFlashesOnce(t *testing.T) {
	rd := newRenderer(t)
	data := struct {
		Status  int
		Message string
	}{http.StatusTeapot, "short and stout"}

	var flashes []string
	handler := withSessions(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromRequest(r)
		s.AddFlash(session.FlashSuccess, "Saved", "All good.")
		rd.Render(w, r, http.StatusTeapot, "error", "Teapot", data)
		for _, f := range s.Flashes() {
			flashes = append(flashes, f.Title)
		}
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML, got %q", ct)
	}
	body := rec.Body.String()
	for _, s := range []string{"<title>Teapot | Course Portal</title>", "short and stout", "flash-success", "Saved", "Sign in"} {
		if !strings.Contains(body, s) {
			t.Errorf("Expected body to contain %q", s)
		}
	}
	if len(flashes) != 0 {
		t.Errorf("Expected flashes to be consumed by the render, still had %v", flashes)
	}
}

func TestRenderEscapesContent(t *testing.T) {
	rd := newRenderer(t)
	data := struct {
		Status  int
		Message string
	}{http.StatusOK, "<script>alert(1)</script>"}

	rec := httptest.NewRecorder()
	withSessions(func(w http.ResponseWriter, r *http.Request) {
		rd.Render(w, r, http.StatusOK, "error", "", data)
	}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Errorf("Expected page content to be escaped")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	rd := newRenderer(t)

	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for an unknown page, got %d", rec.Code)
	}
}
