package forms

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"courseportal/internal/models"
)

// CourseSaver is the part of the API client the course form submits through.
type CourseSaver interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int, req *models.CreateCourseRequest) (*models.Course, error)
}

// CourseForm holds the state of the create/edit course form. Prerequisites are edited as one comma-separated string.
type CourseForm struct {
	Code          string
	Name          string
	Description   string
	HoursTotal    string
	Level         string
	Type          string
	Prerequisites string

	Errors map[string]string
}

// NewCourseForm seeds the form from an existing course, or resets it to defaults when course is nil.
func NewCourseForm(course *models.Course) *CourseForm {
	if course == nil {
		return &CourseForm{
			HoursTotal: "1",
			Level:      models.CourseLevels[0],
			Type:       models.CourseTypes[0],
			Errors:     map[string]string{},
		}
	}

	return &CourseForm{
		Code:          course.Code,
		Name:          course.Name,
		Description:   course.Description,
		HoursTotal:    strconv.Itoa(course.HoursTotal),
		Level:         course.Level,
		Type:          course.Type,
		Prerequisites: strings.Join(course.Prerequisites, ", "),
		Errors:        map[string]string{},
	}
}

// ParseCourseForm reads submitted values. Field problems are collected in Errors rather than returned.
func ParseCourseForm(values url.Values) *CourseForm {
	f := &CourseForm{
		Code:          strings.TrimSpace(values.Get("code")),
		Name:          strings.TrimSpace(values.Get("name")),
		Description:   strings.TrimSpace(values.Get("description")),
		HoursTotal:    strings.TrimSpace(values.Get("hoursTotal")),
		Level:         strings.TrimSpace(values.Get("level")),
		Type:          strings.TrimSpace(values.Get("type")),
		Prerequisites: values.Get("prerequisites"),
		Errors:        map[string]string{},
	}

	required(f.Errors, "code", f.Code)
	required(f.Errors, "name", f.Name)
	required(f.Errors, "description", f.Description)
	required(f.Errors, "level", f.Level)
	required(f.Errors, "type", f.Type)

	if hours, err := strconv.Atoi(f.HoursTotal); err != nil || hours < 1 {
		f.Errors["hoursTotal"] = "Must be a whole number of at least 1."
	}

	return f
}

func (f *CourseForm) Valid() bool {
	return len(f.Errors) == 0
}

// Request converts the form into the backend DTO. Only call on a valid form.
func (f *CourseForm) Request() *models.CreateCourseRequest {
	hours, _ := strconv.Atoi(f.HoursTotal)
	return &models.CreateCourseRequest{
		Code:          f.Code,
		Name:          f.Name,
		Description:   f.Description,
		HoursTotal:    hours,
		Level:         f.Level,
		Type:          f.Type,
		Prerequisites: SplitPrerequisites(f.Prerequisites),
	}
}

// Submit updates course when it is non-nil and creates a new course otherwise.
func (f *CourseForm) Submit(ctx context.Context, saver CourseSaver, course *models.Course) (*models.Course, error) {
	if course != nil {
		return saver.UpdateCourse(ctx, course.ID, f.Request())
	}
	return saver.CreateCourse(ctx, f.Request())
}

// SplitPrerequisites turns "a, b,,c" into ["a" "b" "c"], keeping order.
func SplitPrerequisites(s string) []string {
	prereqs := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			prereqs = append(prereqs, trimmed)
		}
	}
	return prereqs
}

func required(errs map[string]string, field, value string) {
	if value == "" {
		errs[field] = "This field is required."
	}
}
