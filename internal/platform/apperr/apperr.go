package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidRequest             = "invalid_request"
	CodeInvalidCredentials         = "invalid_credentials"
	CodeEmailTaken                 = "email_taken"
	CodeNotFound                   = "not_found"
	CodeRecommendationsUnavailable = "recommendations_unavailable"
)

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
		return fmt.Sprintf("app error (%d)", e.Status)
	}
	return "app error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Invalid(format string, args ...interface{}) *Error {
	return &Error{Status: 400, Code: CodeInvalidRequest, Err: fmt.Errorf(format, args...)}
}

func Code(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func IsCode(err error, code string) bool {
	return Code(err) == code
}
