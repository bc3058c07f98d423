package router

import (
	"net/http"

	"courseportal/internal/models"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// PageRoutes registers the top level pages on router.
func (h *Handler) PageRoutes(router chi.Router) {
	router.Get("/", h.landingHandler)
	router.With(session.RequireAuth(false)).Get("/home", h.homeHandler)
	router.Get("/session", h.sessionHandler)
}

type feature struct {
	Title       string
	Description string
}

var features = []feature{
	{"Varied courses", "A wide range of courses taught by qualified instructors."},
	{"Active community", "Connect with other students and share what you know."},
	{"Certificates", "Receive a certificate when you complete a course."},
	{"Track your progress", "Follow your development over time."},
}

var benefits = []string{
	"Unlimited access to every course",
	"Learn at your own pace",
	"Recognized certificates",
	"Support from expert instructors",
	"Regularly updated content",
	"A collaborative learning community",
}

type landingView struct {
	Features []feature
	Benefits []string
}

type homeView struct {
	Features []feature
}

// GET: /
func (h *Handler) landingHandler(w http.ResponseWriter, r *http.Request) {
	if session.FromRequest(r).IsAuthenticated() {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	h.views.Render(w, r, http.StatusOK, "landing", "", landingView{Features: features, Benefits: benefits})
}

// GET: /home
func (h *Handler) homeHandler(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "home", "Home", homeView{Features: features})
}

// GET: /session
func (h *Handler) sessionHandler(w http.ResponseWriter, r *http.Request) {
	s := session.FromRequest(r)

	var user *models.User
	if s.IsAuthenticated() {
		user = s.User
	}

	render.JSON(w, r, struct {
		Authenticated bool         `json:"authenticated"`
		User          *models.User `json:"user"`
	}{s.IsAuthenticated(), user})
}
