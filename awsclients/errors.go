package awsclients

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrNotFound is returned by lookups when the requested item does not exist
var ErrNotFound = errors.New("item not found")

// ErrConditionFailed is returned when a conditional write is rejected
var ErrConditionFailed = errors.New("condition failed")

// ErrorCode returns the API error code from an AWS SDK error, or an empty
// string when the error did not come from an AWS API response
func ErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}

func ErrorCodeIs(err error, code string) bool {
	return ErrorCode(err) == code
}

func ErrorCodeIn(err error, codes ...string) bool {
	got := ErrorCode(err)
	if got == "" {
		return false
	}
	for _, code := range codes {
		if got == code {
			return true
		}
	}
	return false
}

// ErrorMessage returns the API error message from an AWS SDK error, falling
// back to the plain error string
func ErrorMessage(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorMessage()
	}
	return err.Error()
}
