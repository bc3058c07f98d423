package models

import (
	"courseportal/internal/qerrors"

	"github.com/mitchellh/mapstructure"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
)

// Label returns the name of the role as shown to users.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleInstructor:
		return "Instructor"
	default:
		return "User"
	}
}

// User represents a registered user as returned by the backend.
type User struct {
	ID    int    `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
	Role  Role   `json:"role" mapstructure:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsInstructor() bool {
	return u != nil && u.Role == RoleInstructor
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateUserRequest is the body of PUT /users/{id}. Only name and email are editable from the portal.
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// profilePayload lists every field name the backend uses for a user in /auth/perfil responses.
type profilePayload struct {
	UserID   *int   `mapstructure:"userId"`
	ID       *int   `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	FullName string `mapstructure:"fullName"`
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Role     string `mapstructure:"role"`
}

// DecodeUser converts a decoded JSON profile into a User. The payload is either the user object itself or an
// envelope of the form {"user": {...}}. The id is taken from "userId", then "id", and may be a number or a numeric
// string. A payload without an id is rejected.
func DecodeUser(payload interface{}) (*User, error) {
	raw, ok := payload.(map[string]interface{})
	if !ok {
		return nil, qerrors.MalformedUserError
	}
	if inner, ok := raw["user"].(map[string]interface{}); ok {
		raw = inner
	}

	var p profilePayload
	config := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, qerrors.MalformedUserError
	}

	id := p.UserID
	if id == nil {
		id = p.ID
	}
	if id == nil {
		return nil, qerrors.MalformedUserError
	}

	user := &User{
		ID:    *id,
		Name:  firstNonEmpty(p.Name, p.FullName, p.Username, p.Email),
		Email: p.Email,
		Role:  Role(p.Role),
	}
	if user.Role == "" {
		user.Role = RoleUser
	}

	return user, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
