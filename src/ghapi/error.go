package ghapi

import (
	"errors"
	"fmt"

	"github.com/google/go-github/v80/github"
)

// SearchAPIError is returned for every failed search: transport errors,
// non-2xx responses, undecodable bodies and payloads failing validation.
type SearchAPIError struct {
	Op  string
	Err error
}

func (e *SearchAPIError) Error() string {
	return fmt.Sprintf("github %s failed: %v", e.Op, e.Err)
}

func (e *SearchAPIError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of the failed response, or 0 when no
// response was received.
func (e *SearchAPIError) StatusCode() int {
	var ghErr *github.ErrorResponse
	if errors.As(e.Err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}

	var rateErr *github.RateLimitError
	if errors.As(e.Err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode
	}

	return 0
}

// FieldError reports a search item key that is missing or mistyped.
type FieldError struct {
	Key    string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key %q: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("key %q: %s", e.Key, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
