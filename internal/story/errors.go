package story

import (
	"errors"
	"fmt"

	"github.com/lamim/horrorforge/internal/api"
)

// ValidationError reports user input that cannot be turned into a request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RemoteServiceError reports a failed exchange with the text-generation service
type RemoteServiceError struct {
	Model string
	Err   error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("story generation with %s failed: %v", e.Model, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status the provider answered with, or 0
func (e *RemoteServiceError) StatusCode() int {
	var apiErr *api.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
