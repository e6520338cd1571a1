package lookup

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission did not produce records
type ErrorKind string

const (
	// KindConfigurationMissing means the view's API credential is not configured
	KindConfigurationMissing ErrorKind = "configuration_missing"
	// KindValidationFailed means every query field was blank
	KindValidationFailed ErrorKind = "validation_failed"
	// KindTransportFailed means the request failed or returned a non-2xx status
	KindTransportFailed ErrorKind = "transport_failed"
	// KindEmptyResult means the response was well-formed but held no records
	KindEmptyResult ErrorKind = "empty_result"
)

// MissingCredentialMessage is shown for KindConfigurationMissing
const MissingCredentialMessage = "API key is missing or undefined."

// Error is a user-facing lookup failure
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or "" when err is not a lookup error
func KindOf(err error) ErrorKind {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind
	}
	return ""
}

// StatusError is returned by a Fetcher when the upstream answers with a
// non-2xx status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}
