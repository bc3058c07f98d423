package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"courseportal/internal/models"
)

// fakeBackend is an in-memory stand-in for the course API. admin-token belongs to user 1 (ADMIN), user-token to
// user 2 (USER). A non-empty loginError makes every login fail with that message.
type fakeBackend struct {
	mu         sync.Mutex
	courses    map[int]*models.Course
	users      map[int]*models.User
	nextID     int
	calls      []string
	loginError string
}

var tokens = map[string]int{
	"admin-token": 1,
	"user-token":  2,
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		courses: map[int]*models.Course{
			1: {
				ID:            1,
				Code:          "GO101",
				Name:          "Intro to Go",
				Description:   "Types and interfaces",
				HoursTotal:    40,
				Level:         "BASIC",
				Type:          "REQUIRED",
				Prerequisites: []string{"Logic"},
				CreatedBy:     &models.CourseCreator{Name: "Admin", Email: "admin@x.com"},
			},
		},
		users: map[int]*models.User{
			1: {ID: 1, Name: "Admin", Email: "admin@x.com", Role: models.RoleAdmin},
			2: {ID: 2, Name: "Bea", Email: "bea@x.com", Role: models.RoleUser},
		},
		nextID: 2,
	}
}

func (b *fakeBackend) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv
}

func (b *fakeBackend) course(id int) *models.Course {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.courses[id]
}

func (b *fakeBackend) user(id int) *models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[id]
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/auth/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if b.loginError != "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": b.loginError})
			return
		}
		for token, id := range tokens {
			if b.users[id] != nil && b.users[id].Email == req.Email {
				writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token})
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	case r.URL.Path == "/auth/register":
		writeJSON(w, http.StatusCreated, models.AuthResponse{AccessToken: "user-token"})
		return
	}

	userID, ok := tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok || b.users[userID] == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	switch {
	case r.URL.Path == "/auth/perfil":
		u := b.users[userID]
		// User 2 comes back in the flat shape with a string id.
		if userID == 2 {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"userId": strconv.Itoa(u.ID), "name": u.Name, "email": u.Email, "role": u.Role,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
	case r.URL.Path == "/admin":
		writeJSON(w, http.StatusOK, map[string]int{"totalUsers": len(b.users), "totalCourses": len(b.courses)})
	case parts[0] == "courses":
		b.serveCourses(w, r, parts, userID)
	case parts[0] == "users":
		b.serveUsers(w, r, parts)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (b *fakeBackend) serveCourses(w http.ResponseWriter, r *http.Request, parts []string, userID int) {
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			list := make([]models.Course, 0, len(b.courses))
			for id := 1; id <= b.nextID; id++ {
				if c, ok := b.courses[id]; ok {
					list = append(list, *c)
				}
			}
			writeJSON(w, http.StatusOK, list)
		case http.MethodPost:
			var req models.CreateCourseRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			b.nextID++
			c := courseFromRequest(b.nextID, &req)
			b.courses[c.ID] = c
			writeJSON(w, http.StatusCreated, c)
		}
		return
	}

	id, _ := strconv.Atoi(parts[1])
	c, ok := b.courses[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Course not found"})
		return
	}

	if len(parts) == 3 {
		switch parts[2] {
		case "enroll":
			c.Enrollments = append(c.Enrollments, models.Enrollment{
				User: &models.EnrollmentUser{ID: models.FlexibleID(userID), Name: b.users[userID].Name, Email: b.users[userID].Email},
			})
		case "unenroll":
			kept := c.Enrollments[:0]
			for _, e := range c.Enrollments {
				if member, _ := e.MemberID(); member != userID {
					kept = append(kept, e)
				}
			}
			c.Enrollments = kept
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var req models.CreateCourseRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		updated := courseFromRequest(id, &req)
		updated.Enrollments = c.Enrollments
		b.courses[id] = updated
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		delete(b.courses, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (b *fakeBackend) serveUsers(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 1 {
		list := make([]models.User, 0, len(b.users))
		for id := 1; id <= 10; id++ {
			if u, ok := b.users[id]; ok {
				list = append(list, *u)
			}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	id, _ := strconv.Atoi(parts[1])
	u, ok := b.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, u)
	case http.MethodPut:
		var req models.UpdateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u.Name, u.Email = req.Name, req.Email
		writeJSON(w, http.StatusOK, u)
	case http.MethodDelete:
		delete(b.users, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func courseFromRequest(id int, req *models.CreateCourseRequest) *models.Course {
	return &models.Course{
		ID:            id,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		HoursTotal:    req.HoursTotal,
		Level:         req.Level,
		Type:          req.Type,
		Prerequisites: req.Prerequisites,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
