package router

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"courseportal/internal/api"
	"courseportal/internal/session"
	"courseportal/internal/web"

	"github.com/golang/glog"
)

// Handler serves the portal's pages. It holds no per-user state; everything user specific comes from the request's
// session.
type Handler struct {
	sessions *session.Manager
	views    *web.Renderer
}

func NewHandler(sessions *session.Manager, views *web.Renderer) *Handler {
	return &Handler{
		sessions: sessions,
		views:    views,
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusNotFound, "error", "Not found", errorView{
		Status:  http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	})
}

type errorView struct {
	Status  int
	Message string
}

// redirect adds a flash to the session and sends the browser to the given path.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string, kind session.FlashKind, title, message string) {
	if s := session.FromRequest(r); s != nil && title != "" {
		s.AddFlash(kind, title, message)
		if err := s.Save(w, r); err != nil {
			glog.Errorf("failed to save session: %v\n", err)
		}
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// fail reports a failed backend call as an error flash and redirects. Requests abandoned by the browser are dropped
// without a response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, to, title string, err error) {
	if errors.Is(err, context.Canceled) {
		glog.Infof("request canceled: %s %s\n", r.Method, r.URL.Path)
		return
	}
	glog.Warningf("%s: %v\n", title, err)
	h.redirect(w, r, to, session.FlashError, title, errorMessage(err))
}

// flashError queues an error flash for the page rendered by the current request.
func flashError(r *http.Request, title string, err error) {
	glog.Warningf("%s: %v\n", title, err)
	if s := session.FromRequest(r); s != nil {
		s.AddFlash(session.FlashError, title, errorMessage(err))
	}
}

// errorMessage returns the text shown to users for err. Backend errors carry the server's own message.
func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// localPath returns p if it is a path on this site, fallback otherwise.
func localPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return fallback
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] == 0x7f {
			return fallback
		}
	}
	return p
}
