package api

import (
	"context"
	"fmt"
	"net/http"

	"courseportal/internal/models"
)

// Auth

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile returns the user that owns the client's token.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var raw interface{}
	if err := c.do(ctx, "profile", http.MethodGet, "/auth/perfil", nil, &raw); err != nil {
		return nil, err
	}
	return models.DecodeUser(raw)
}

// Courses

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, "list_courses", http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, "get_course", http.MethodGet, coursePath(id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, "create_course", http.MethodPost, "/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id int, req *models.CreateCourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, "update_course", http.MethodPut, coursePath(id), req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	return c.do(ctx, "delete_course", http.MethodDelete, coursePath(id), nil, nil)
}

func (c *Client) Enroll(ctx context.Context, courseID int) error {
	return c.do(ctx, "enroll", http.MethodPost, coursePath(courseID)+"/enroll", nil, nil)
}

func (c *Client) Unenroll(ctx context.Context, courseID int) error {
	return c.do(ctx, "unenroll", http.MethodDelete, coursePath(courseID)+"/unenroll", nil, nil)
}

// Users

// ListUsers returns every user. Each element goes through the same decoding as the profile, so string ids are
// accepted.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var raw []interface{}
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(raw))
	for i, item := range raw {
		user, err := models.DecodeUser(item)
		if err != nil {
			return nil, fmt.Errorf("failed to decode user %d of list_users response: %w", i, err)
		}
		users = append(users, *user)
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	var raw interface{}
	if err := c.do(ctx, "get_user", http.MethodGet, userPath(id), nil, &raw); err != nil {
		return nil, err
	}
	return models.DecodeUser(raw)
}

// UpdateUser sends the edited fields. The returned user is nil when the backend does not echo a recognizable user.
func (c *Client) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	var raw interface{}
	if err := c.do(ctx, "update_user", http.MethodPut, userPath(id), req, &raw); err != nil {
		return nil, err
	}
	user, err := models.DecodeUser(raw)
	if err != nil {
		return nil, nil
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, "delete_user", http.MethodDelete, userPath(id), nil, nil)
}

// Admin

// AdminData returns the decoded body of GET /admin. Its shape is owned by the backend.
func (c *Client) AdminData(ctx context.Context) (interface{}, error) {
	var data interface{}
	if err := c.do(ctx, "admin", http.MethodGet, "/admin", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func coursePath(id int) string {
	return fmt.Sprintf("/courses/%d", id)
}

func userPath(id int) string {
	return fmt.Sprintf("/users/%d", id)
}
