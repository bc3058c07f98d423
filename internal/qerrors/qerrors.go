package qerrors

import "errors"

var (
	// Session errors
	MissingTokenError     = errors.New("no access token received from the API")
	NotAuthenticatedError = errors.New("you must be logged in to do that")
	InvalidCSRFTokenError = errors.New("invalid or missing form token")

	// User errors
	MalformedUserError = errors.New("the API returned a user without an id")
	UserNotFoundError  = errors.New("user not found")
	InvalidUserIDError = errors.New("invalid user id")

	// Course errors
	CourseNotFoundError  = errors.New("course not found")
	InvalidCourseIDError = errors.New("invalid course id")
)
