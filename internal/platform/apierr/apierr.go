package apierr

import "fmt"

// Error codes used across services and handlers. Explicit writes surface
// these verbatim; they are never downgraded to a different code.
const (
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeNotFound            = "not_found"
	CodeValidationFailed    = "validation_failed"
	CodePersistenceFailed   = "persistence_failed"
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
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func UpstreamUnavailable(status int, err error) *Error {
	if status < 400 {
		status = 502
	}
	return New(status, CodeUpstreamUnavailable, err)
}

func NotFound(err error) *Error {
	return New(404, CodeNotFound, err)
}

func ValidationFailed(err error) *Error {
	return New(400, CodeValidationFailed, err)
}

func PersistenceFailed(err error) *Error {
	return New(500, CodePersistenceFailed, err)
}
