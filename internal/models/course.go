package models

import (
	"encoding/json"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	CourseLevels = []string{"BASIC", "INTERMEDIATE", "ADVANCED"}
	CourseTypes  = []string{"REQUIRED", "ELECTIVE", "FREE"}
)

// FlexibleID is an integer id that the backend may send either as a JSON number or as a numeric string.
type FlexibleID int

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*id = 0
		return nil
	}

	var n int
	if err := mapstructure.WeakDecode(raw, &n); err != nil {
		return err
	}
	*id = FlexibleID(n)
	return nil
}

type CourseCreator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EnrollmentUser struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// Enrollment links a user to a course. It is only ever seen embedded in a Course.
type Enrollment struct {
	UserID FlexibleID      `json:"userId,omitempty"`
	User   *EnrollmentUser `json:"user,omitempty"`
}

// MemberID returns the id of the enrolled user, preferring the embedded user record.
func (e Enrollment) MemberID() (int, bool) {
	if e.User != nil && e.User.ID != 0 {
		return int(e.User.ID), true
	}
	if e.UserID != 0 {
		return int(e.UserID), true
	}
	return 0, false
}

type Course struct {
	ID            int            `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	HoursTotal    int            `json:"hoursTotal"`
	Level         string         `json:"level"`
	Type          string         `json:"type"`
	Prerequisites []string       `json:"prerequisites"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	CreatedByID   int            `json:"createdById"`
	CreatedBy     *CourseCreator `json:"createdBy,omitempty"`
	Enrollments   []Enrollment   `json:"Enrollment,omitempty"`
}

// IsEnrolled reports whether the user with the given id appears in the course's enrollment list.
func (c *Course) IsEnrolled(userID int) bool {
	if c == nil || userID == 0 {
		return false
	}
	for _, e := range c.Enrollments {
		if id, ok := e.MemberID(); ok && id == userID {
			return true
		}
	}
	return false
}

func (c *Course) EnrollmentCount() int {
	if c == nil {
		return 0
	}
	return len(c.Enrollments)
}

// CreateCourseRequest is the body of POST /courses and PUT /courses/{id}.
type CreateCourseRequest struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	HoursTotal    int      `json:"hoursTotal"`
	Level         string   `json:"level"`
	Type          string   `json:"type"`
	Prerequisites []string `json:"prerequisites"`
}
