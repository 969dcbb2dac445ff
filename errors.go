package eventkit

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError is an error with an HTTP status code attached. Handlers return it
// so that the API Gateway wrappers can build a response with the right status
// code, and the extractor raises it for validation failures.
type HTTPError struct {
	Status  int
	Message string
	Data    map[string]any
	Headers map[string]string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// IsRetryable reports whether the error is worth retrying: throttling and
// server-side errors are, other client errors are not
func (e *HTTPError) IsRetryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func (e *HTTPError) WithData(data map[string]any) *HTTPError {
	e.Data = data
	return e
}

func (e *HTTPError) WithHeader(key, value string) *HTTPError {
	if e.Headers == nil {
		e.Headers = map[string]string{}
	}
	e.Headers[key] = value
	return e
}

// NewHTTPError builds an HTTPError for the given status code. Codes outside
// the error range fall back to 500, and an empty message falls back to the
// standard status text.
func NewHTTPError(status int, message string) *HTTPError {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

func BadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

func NotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func Conflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

func UnprocessableEntity(message string) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message)
}

func TooManyRequests(message string) *HTTPError {
	return NewHTTPError(http.StatusTooManyRequests, message)
}

func InternalServerError(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message)
}

func BadGateway(message string) *HTTPError {
	return NewHTTPError(http.StatusBadGateway, message)
}

func ServiceUnavailable(message string) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message)
}

// StatusOf returns the HTTP status code carried by err (unwrapping as
// needed), or 500 for errors with no status attached
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

// Issue is one field-level validation failure. It marshals as the
// [status, message] tuple that API clients receive under data.errors.
type Issue struct {
	Status  int
	Message string
}

func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{i.Status, i.Message})
}

// ValidationIssues returns the per-path issue map attached to an extraction
// error, or nil if err carries none
func ValidationIssues(err error) map[string]Issue {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Data == nil {
		return nil
	}
	issues, _ := httpErr.Data["errors"].(map[string]Issue)
	return issues
}

type RetryableError interface {
	IsRetryable() bool
}

// IsErrorRetryable walks the error chain looking for a RetryableError
func IsErrorRetryable(err error) bool {
	for err != nil {
		if rerr, ok := err.(RetryableError); ok {
			return rerr.IsRetryable()
		}
		// Unwrap the error if possible
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return false
}
