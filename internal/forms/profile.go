package forms

import (
	"net/url"
	"strings"

	"courseportal/internal/models"
)

// ProfileForm holds the editable part of the user's profile.
type ProfileForm struct {
	Name  string
	Email string

	Errors map[string]string
}

func NewProfileForm(user *models.User) *ProfileForm {
	f := &ProfileForm{Errors: map[string]string{}}
	if user != nil {
		f.Name = user.Name
		f.Email = user.Email
	}
	return f
}

func ParseProfileForm(values url.Values) *ProfileForm {
	f := &ProfileForm{
		Name:   strings.TrimSpace(values.Get("name")),
		Email:  strings.TrimSpace(values.Get("email")),
		Errors: map[string]string{},
	}

	required(f.Errors, "name", f.Name)
	required(f.Errors, "email", f.Email)
	if _, ok := f.Errors["email"]; !ok && !strings.Contains(f.Email, "@") {
		f.Errors["email"] = "Enter a valid email address."
	}

	return f
}

func (f *ProfileForm) Valid() bool {
	return len(f.Errors) == 0
}

func (f *ProfileForm) Request() *models.UpdateUserRequest {
	return &models.UpdateUserRequest{
		Name:  f.Name,
		Email: f.Email,
	}
}
