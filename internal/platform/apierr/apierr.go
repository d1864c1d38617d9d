package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
)

// Error carries the HTTP status and stable code a handler should answer with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:      http.StatusBadRequest,
	domainagg.CodeUnauthenticated: http.StatusUnauthorized,
	domainagg.CodeForbidden:       http.StatusForbidden,
	domainagg.CodeNotFound:        http.StatusNotFound,
	domainagg.CodeConflict:        http.StatusConflict,
	domainagg.CodeRetryable:       http.StatusServiceUnavailable,
	domainagg.CodeInternal:        http.StatusInternalServerError,
}

// FromError classifies err for the HTTP layer. An *Error anywhere in the chain
// wins; coded aggregate errors map by code; anything else is a 500.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	if status, ok := statusByCode[code]; ok {
		return New(status, string(code), err)
	}
	return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
}

// PublicMessage is the message safe to show a client. Internal failures are
// not described.
func (e *Error) PublicMessage() string {
	if e == nil {
		return ""
	}
	if e.Status >= http.StatusInternalServerError {
		return http.StatusText(e.Status)
	}
	var aggErr *domainagg.Error
	if errors.As(e.Err, &aggErr) && aggErr.Message != "" {
		return publicAggregateMessage(aggErr)
	}
	return e.Error()
}

// Aggregate messages carry the tag chain ("aggregate forbidden\n...");
// only the last line is meant for people.
func publicAggregateMessage(e *domainagg.Error) string {
	msg := e.Message
	for i := len(msg) - 1; i >= 0; i-- {
		if msg[i] == '\n' {
			return msg[i+1:]
		}
	}
	return msg
}
