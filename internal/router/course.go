package router

import (
	"fmt"
	"net/http"

	"courseportal/internal/api"
	"courseportal/internal/forms"
	mw "courseportal/internal/middleware"
	"courseportal/internal/models"
	"courseportal/internal/qerrors"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CourseRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(session.RequireAuth(false))

	router.Get("/", h.listCoursesHandler)

	// Creating courses
	router.With(session.RequireAuth(true)).Get("/new", h.newCourseHandler)
	router.With(session.RequireAuth(true)).Post("/", h.createCourseHandler)

	router.Route("/{courseID}", func(r chi.Router) {
		r.Use(mw.CourseCtx(h.NotFound))

		r.Get("/", h.getCourseHandler)

		// Enrollment of the current user
		r.Post("/enroll", h.enrollHandler)
		r.Post("/unenroll", h.unenrollHandler)

		// Modifying courses themselves
		r.Group(func(r chi.Router) {
			r.Use(session.RequireAuth(true))
			r.Get("/edit", h.editCourseFormHandler)
			r.Post("/", h.editCourseHandler)
			r.Get("/delete", h.confirmDeleteCourseHandler)
			r.Post("/delete", h.deleteCourseHandler)
		})
	})

	return router
}

type courseCard struct {
	*models.Course
	Enrolled bool
}

type coursesView struct {
	Courses []courseCard
}

type courseDetailView struct {
	Course   *models.Course
	Enrolled bool
	Students []enrolledStudent
}

type enrolledStudent struct {
	Name  string
	Email string
	You   bool
}

// roster lists the enrolled students, marking the row of the given user.
func roster(course *models.Course, userID int) []enrolledStudent {
	students := make([]enrolledStudent, 0, len(course.Enrollments))
	for _, e := range course.Enrollments {
		id, ok := e.MemberID()
		student := enrolledStudent{You: ok && userID != 0 && id == userID}
		if e.User != nil {
			student.Name = e.User.Name
			student.Email = e.User.Email
		}
		if student.Name == "" && ok {
			student.Name = fmt.Sprintf("User #%d", id)
		}
		students = append(students, student)
	}
	return students
}

type courseFormView struct {
	Form    *forms.CourseForm
	Editing bool
	Action  string
	Cancel  string
	Levels  []string
	Types   []string
}

type confirmView struct {
	Heading string
	Message string
	Action  string
	Cancel  string
}

// GET: /
func (h *Handler) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	userID := session.FromRequest(r).UserID()

	courses, err := h.sessions.Client(r).ListCourses(r.Context())
	if err != nil {
		flashError(r, "Could not load courses", err)
	}

	cards := make([]courseCard, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		cards = append(cards, courseCard{Course: c, Enrolled: c.IsEnrolled(userID)})
	}

	h.views.Render(w, r, http.StatusOK, "courses", "Courses", coursesView{Courses: cards})
}

// GET: /{courseID}
func (h *Handler) getCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())

	course, err := h.sessions.Client(r).GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, r, "/courses", "Could not load course", courseError(err))
		return
	}

	userID := session.FromRequest(r).UserID()
	h.views.Render(w, r, http.StatusOK, "course_detail", course.Name, courseDetailView{
		Course:   course,
		Enrolled: course.IsEnrolled(userID),
		Students: roster(course, userID),
	})
}

// GET: /new
func (h *Handler) newCourseHandler(w http.ResponseWriter, r *http.Request) {
	h.renderCourseForm(w, r, http.StatusOK, forms.NewCourseForm(nil), 0)
}

// POST: /
func (h *Handler) createCourseHandler(w http.ResponseWriter, r *http.Request) {
	h.submitCourse(w, r, nil)
}

// GET: /{courseID}/edit
func (h *Handler) editCourseFormHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())

	course, err := h.sessions.Client(r).GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, r, "/courses", "Could not load course", courseError(err))
		return
	}

	h.renderCourseForm(w, r, http.StatusOK, forms.NewCourseForm(course), course.ID)
}

// POST: /{courseID}
func (h *Handler) editCourseHandler(w http.ResponseWriter, r *http.Request) {
	h.submitCourse(w, r, &models.Course{ID: mw.CourseIDFromContext(r.Context())})
}

// submitCourse validates the posted form and creates the course, or updates it when course is non-nil. Invalid or
// rejected submissions re-render the form with what the user typed.
func (h *Handler) submitCourse(w http.ResponseWriter, r *http.Request, course *models.Course) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var editingID int
	if course != nil {
		editingID = course.ID
	}

	form := forms.ParseCourseForm(r.PostForm)
	if !form.Valid() {
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, form, editingID)
		return
	}

	_, err := form.Submit(r.Context(), h.sessions.Client(r), course)
	if err != nil {
		flashError(r, "Could not save course", err)
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, form, editingID)
		return
	}

	if course != nil {
		h.redirect(w, r, "/courses", session.FlashSuccess, "Course updated", fmt.Sprintf("%s was saved.", form.Name))
		return
	}
	h.redirect(w, r, "/courses", session.FlashSuccess, "Course created", fmt.Sprintf("%s is now in the catalog.", form.Name))
}

func (h *Handler) renderCourseForm(w http.ResponseWriter, r *http.Request, status int, form *forms.CourseForm, courseID int) {
	view := courseFormView{
		Form:   form,
		Action: "/courses",
		Cancel: "/courses",
		Levels: models.CourseLevels,
		Types:  models.CourseTypes,
	}
	title := "New course"
	if courseID != 0 {
		view.Editing = true
		view.Action = fmt.Sprintf("/courses/%d", courseID)
		view.Cancel = view.Action
		title = "Edit course"
	}

	h.views.Render(w, r, status, "course_form", title, view)
}

// POST: /{courseID}/enroll
func (h *Handler) enrollHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())
	to := localPath(r.PostFormValue("return_to"), fmt.Sprintf("/courses/%d", courseID))

	if err := h.sessions.Client(r).Enroll(r.Context(), courseID); err != nil {
		h.fail(w, r, to, "Enrollment failed", err)
		return
	}

	h.redirect(w, r, to, session.FlashSuccess, "Enrolled", "You are now enrolled in this course.")
}

// POST: /{courseID}/unenroll
func (h *Handler) unenrollHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())
	to := localPath(r.PostFormValue("return_to"), fmt.Sprintf("/courses/%d", courseID))

	if err := h.sessions.Client(r).Unenroll(r.Context(), courseID); err != nil {
		h.fail(w, r, to, "Could not cancel enrollment", err)
		return
	}

	h.redirect(w, r, to, session.FlashSuccess, "Enrollment cancelled", "You are no longer enrolled in this course.")
}

// GET: /{courseID}/delete
func (h *Handler) confirmDeleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())

	course, err := h.sessions.Client(r).GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, r, "/courses", "Could not load course", courseError(err))
		return
	}

	h.views.Render(w, r, http.StatusOK, "confirm", "Delete course", confirmView{
		Heading: "Delete course",
		Message: fmt.Sprintf("Do you really want to delete %s (%s)? This cannot be undone.", course.Name, course.Code),
		Action:  fmt.Sprintf("/courses/%d/delete", courseID),
		Cancel:  "/courses",
	})
}

// POST: /{courseID}/delete
func (h *Handler) deleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mw.CourseIDFromContext(r.Context())

	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
		return
	}

	if err := h.sessions.Client(r).DeleteCourse(r.Context(), courseID); err != nil {
		h.fail(w, r, "/courses", "Could not delete course", courseError(err))
		return
	}

	h.redirect(w, r, "/courses", session.FlashSuccess, "Course deleted", "The course was removed.")
}

// courseError replaces the backend's 404 with a readable message.
func courseError(err error) error {
	if api.IsStatus(err, http.StatusNotFound) {
		return qerrors.CourseNotFoundError
	}
	return err
}
