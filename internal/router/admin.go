package router

import (
	"fmt"
	"net/http"
	"sort"

	"courseportal/internal/api"
	mw "courseportal/internal/middleware"
	"courseportal/internal/models"
	"courseportal/internal/qerrors"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
)

func (h *Handler) AdminRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(session.RequireAuth(true))

	router.Get("/", h.adminHandler)

	// User management
	router.Route("/users/{userID}", func(r chi.Router) {
		r.Use(mw.UserCtx(h.NotFound))
		r.Get("/delete", h.confirmDeleteUserHandler)
		r.Post("/delete", h.deleteUserHandler)
	})

	return router
}

type summaryEntry struct {
	Key   string
	Value string
}

type adminView struct {
	Users   []models.User
	Summary []summaryEntry
}

// GET: /admin
func (h *Handler) adminHandler(w http.ResponseWriter, r *http.Request) {
	client := h.sessions.Client(r)

	users, err := client.ListUsers(r.Context())
	if err != nil {
		flashError(r, "Could not load users", err)
		users = []models.User{}
	}

	// The summary is informational only.
	var summary []summaryEntry
	data, err := client.AdminData(r.Context())
	if err != nil {
		glog.Warningf("failed to load admin summary: %v\n", err)
	} else {
		summary = summarize(data)
	}

	h.views.Render(w, r, http.StatusOK, "admin", "Administration", adminView{Users: users, Summary: summary})
}

// GET: /users/{userID}/delete
func (h *Handler) confirmDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserIDFromContext(r.Context())

	user, err := h.sessions.Client(r).GetUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "/admin", "Could not load user", userError(err))
		return
	}

	h.views.Render(w, r, http.StatusOK, "confirm", "Delete user", confirmView{
		Heading: "Delete user",
		Message: fmt.Sprintf("Do you really want to delete %s (%s)?", user.Name, user.Email),
		Action:  fmt.Sprintf("/admin/users/%d/delete", userID),
		Cancel:  "/admin",
	})
}

// POST: /users/{userID}/delete
func (h *Handler) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserIDFromContext(r.Context())

	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if err := h.sessions.Client(r).DeleteUser(r.Context(), userID); err != nil {
		h.fail(w, r, "/admin", "Could not delete user", userError(err))
		return
	}

	glog.Infof("user %d deleted by admin %d\n", userID, session.FromRequest(r).UserID())
	h.redirect(w, r, "/admin", session.FlashSuccess, "User deleted", "The user was removed.")
}

// summarize flattens the backend's admin payload into sorted rows. Non-object payloads become a single row.
func summarize(data interface{}) []summaryEntry {
	switch v := data.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]summaryEntry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, summaryEntry{Key: k, Value: fmt.Sprint(v[k])})
		}
		return entries
	default:
		return []summaryEntry{{Key: "message", Value: fmt.Sprint(v)}}
	}
}

func userError(err error) error {
	if api.IsStatus(err, http.StatusNotFound) {
		return qerrors.UserNotFoundError
	}
	return err
}
