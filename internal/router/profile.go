package router

import (
	"net/http"

	"courseportal/internal/forms"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ProfileRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(session.RequireAuth(false))

	router.Get("/", h.profileHandler)
	router.Post("/", h.updateProfileHandler)

	return router
}

type profileView struct {
	Form    *forms.ProfileForm
	Editing bool
}

// GET: /profile
func (h *Handler) profileHandler(w http.ResponseWriter, r *http.Request) {
	s := session.FromRequest(r)

	h.views.Render(w, r, http.StatusOK, "profile", "Profile", profileView{
		Form:    forms.NewProfileForm(s.User),
		Editing: r.URL.Query().Get("edit") == "1",
	})
}

// POST: /profile
func (h *Handler) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	s := session.FromRequest(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := forms.ParseProfileForm(r.PostForm)
	if !form.Valid() {
		h.views.Render(w, r, http.StatusUnprocessableEntity, "profile", "Profile", profileView{Form: form, Editing: true})
		return
	}

	updated, err := h.sessions.Client(r).UpdateUser(r.Context(), s.UserID(), form.Request())
	if err != nil {
		flashError(r, "Could not update profile", err)
		h.views.Render(w, r, http.StatusUnprocessableEntity, "profile", "Profile", profileView{Form: form, Editing: true})
		return
	}

	// Role and id are only ever taken from the profile endpoint.
	if s.User != nil {
		u := *s.User
		u.Name, u.Email = form.Name, form.Email
		if updated != nil {
			u.Name, u.Email = updated.Name, updated.Email
		}
		s.SetUser(&u)
	}

	h.redirect(w, r, "/profile", session.FlashSuccess, "Profile updated", "Your information was saved.")
}
