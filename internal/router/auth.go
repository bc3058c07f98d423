package router

import (
	"net/http"
	"strings"

	"courseportal/internal/models"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
)

func (h *Handler) AuthRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/", h.authPageHandler)

	// Alter the current session
	router.Post("/login", h.loginHandler)
	router.Post("/register", h.registerHandler)
	router.Post("/logout", h.logoutHandler)

	return router
}

type authView struct {
	Name  string
	Email string
}

// GET: /auth
func (h *Handler) authPageHandler(w http.ResponseWriter, r *http.Request) {
	if session.FromRequest(r).IsAuthenticated() {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	h.views.Render(w, r, http.StatusOK, "auth", "Sign in", authView{
		Email: r.URL.Query().Get("email"),
	})
}

// POST: /login
func (h *Handler) loginHandler(w http.ResponseWriter, r *http.Request) {
	req := &models.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	user, err := h.sessions.Login(r.Context(), w, r, req)
	if err != nil {
		h.fail(w, r, "/auth", "Login failed", err)
		return
	}

	glog.Infof("user %d logged in\n", user.ID)
	h.redirect(w, r, "/home", session.FlashSuccess, "Welcome back", "You are logged in as "+user.Name+".")
}

// POST: /register
func (h *Handler) registerHandler(w http.ResponseWriter, r *http.Request) {
	req := &models.RegisterRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	user, err := h.sessions.Register(r.Context(), w, r, req)
	if err != nil {
		h.fail(w, r, "/auth", "Registration failed", err)
		return
	}

	glog.Infof("user %d registered\n", user.ID)
	h.redirect(w, r, "/home", session.FlashSuccess, "Account created", "Welcome, "+user.Name+"!")
}

// POST: /logout
func (h *Handler) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		glog.Errorf("failed to clear session: %v\n", err)
	}

	h.redirect(w, r, "/", session.FlashSuccess, "Logged out", "See you soon.")
}
