package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"courseportal/internal/qerrors"
)

func decodeJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return v
}

func TestDecodeUser(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		expected *User
	}{
		{"flat", `{"id": 4, "name": "Ana", "email": "ana@x.com", "role": "ADMIN"}`,
			&User{ID: 4, Name: "Ana", Email: "ana@x.com", Role: RoleAdmin}},
		{"envelope", `{"message": "ok", "user": {"id": 4, "name": "Ana", "email": "ana@x.com"}}`,
			&User{ID: 4, Name: "Ana", Email: "ana@x.com", Role: RoleUser}},
		{"userId wins over id", `{"userId": 7, "id": 99, "email": "b@x.com", "role": "INSTRUCTOR"}`,
			&User{ID: 7, Name: "b@x.com", Email: "b@x.com", Role: RoleInstructor}},
		{"string id", `{"id": "15", "fullName": "Bea Full"}`,
			&User{ID: 15, Name: "Bea Full", Role: RoleUser}},
		{"username fallback", `{"id": 1, "username": "bea"}`,
			&User{ID: 1, Name: "bea", Role: RoleUser}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := DecodeUser(decodeJSON(t, tc.payload))
			if err != nil {
				t.Fatalf("DecodeUser returned error: %v", err)
			}
			if !reflect.DeepEqual(user, tc.expected) {
				t.Errorf("Expected %+v, got %+v", tc.expected, user)
			}
		})
	}
}

func TestDecodeUserRejectsMissingID(t *testing.T) {
	for _, payload := range []string{`{"name": "no id"}`, `null`, `[1, 2]`, `{"id": "abc"}`} {
		_, err := DecodeUser(decodeJSON(t, payload))
		if !errors.Is(err, qerrors.MalformedUserError) {
			t.Errorf("Expected MalformedUserError for %s, got %v", payload, err)
		}
	}
}

func TestRoleFlags(t *testing.T) {
	var anonymous *User
	if anonymous.IsAdmin() || anonymous.IsInstructor() {
		t.Errorf("nil user must not have role flags")
	}

	admin := &User{Role: RoleAdmin}
	if !admin.IsAdmin() || admin.IsInstructor() {
		t.Errorf("Expected admin flags for %+v", admin)
	}

	instructor := &User{Role: RoleInstructor}
	if instructor.IsAdmin() || !instructor.IsInstructor() {
		t.Errorf("Expected instructor flags for %+v", instructor)
	}
}

func TestCourseIsEnrolled(t *testing.T) {
	var course Course
	payload := `{
		"id": 1,
		"code": "GO101",
		"Enrollment": [
			{"user": {"id": 3, "name": "A", "email": "a@x.com"}},
			{"user": {"id": "8", "name": "B", "email": "b@x.com"}},
			{"userId": 11}
		]
	}`
	if err := json.Unmarshal([]byte(payload), &course); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	for _, id := range []int{3, 8, 11} {
		if !course.IsEnrolled(id) {
			t.Errorf("Expected user %d to be enrolled", id)
		}
	}
	for _, id := range []int{0, 4, 80} {
		if course.IsEnrolled(id) {
			t.Errorf("Expected user %d not to be enrolled", id)
		}
	}
	if course.EnrollmentCount() != 3 {
		t.Errorf("Expected 3 enrollments, got %d", course.EnrollmentCount())
	}
}

func TestCourseWithoutEnrollments(t *testing.T) {
	var course *Course
	if course.IsEnrolled(1) || course.EnrollmentCount() != 0 {
		t.Errorf("nil course must report no enrollments")
	}

	course = &Course{ID: 2}
	if course.IsEnrolled(1) {
		t.Errorf("course without enrollment list must report no enrollment")
	}
}

func TestFlexibleIDRejectsGarbage(t *testing.T) {
	var id FlexibleID
	if err := json.Unmarshal([]byte(`"not-a-number"`), &id); err == nil {
		t.Errorf("Expected error for non-numeric id")
	}
	if err := json.Unmarshal([]byte(`null`), &id); err != nil || id != 0 {
		t.Errorf("Expected null to decode to 0, got %d (%v)", id, err)
	}
}
