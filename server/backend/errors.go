package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a non-2xx answer of the backend API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// Message returns the message the backend attached to err, or fallback for
// transport failures and errors without one.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func newError(rs *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(rs.Body, 64*1024))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(data, &body); err == nil {
		message = body.Message
		if message == "" {
			message = body.Error
		}
	}
	if message == "" && !strings.HasPrefix(strings.TrimSpace(string(data)), "<") {
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		message = http.StatusText(rs.StatusCode)
	}

	return &Error{
		StatusCode: rs.StatusCode,
		Message:    message,
	}
}
