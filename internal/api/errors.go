package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is returned for every non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody is the error envelope sent by the backend. message is either a string or a list of validation messages.
type errorBody struct {
	Message interface{} `json:"message"`
	Error   string      `json:"error"`
}

// newError builds an Error from a response body. Bodies that are not JSON, or carry no message, produce a generic
// message naming the status code.
func newError(status int, body []byte) *Error {
	e := &Error{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status %d", status),
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}

	switch msg := eb.Message.(type) {
	case string:
		if msg != "" {
			e.Message = msg
			return e
		}
	case []interface{}:
		parts := make([]string, 0, len(msg))
		for _, m := range msg {
			if s, ok := m.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			e.Message = strings.Join(parts, "; ")
			return e
		}
	}

	if eb.Error != "" {
		e.Message = eb.Error
	}
	return e
}

// IsStatus reports whether err is an Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
