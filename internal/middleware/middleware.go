package middleware

import (
	"context"
	"net/http"
	"strconv"

	"courseportal/internal/qerrors"

	"github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	courseIDKey ctxKey = "courseID"
	userIDKey   ctxKey = "userID"
)

// CourseCtx parses the {courseID} URL parameter and stores it in the request context. Non-numeric ids are handed to
// notFound, or answered with a plain 404 when notFound is nil.
func CourseCtx(notFound http.HandlerFunc) func(handler http.Handler) http.Handler {
	return idCtx("courseID", courseIDKey, qerrors.InvalidCourseIDError, notFound)
}

// UserCtx parses the {userID} URL parameter the same way.
func UserCtx(notFound http.HandlerFunc) func(handler http.Handler) http.Handler {
	return idCtx("userID", userIDKey, qerrors.InvalidUserIDError, notFound)
}

func CourseIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(courseIDKey).(int)
	return id
}

func UserIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(userIDKey).(int)
	return id
}

func idCtx(param string, key ctxKey, invalid error, notFound http.HandlerFunc) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(r, param))
			if err != nil || id < 1 {
				if notFound != nil {
					notFound(w, r)
					return
				}
				http.Error(w, invalid.Error(), http.StatusNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), key, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
