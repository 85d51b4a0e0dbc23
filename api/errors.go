// ABOUTME: Structured errors surfaced by the REST client
// ABOUTME: Distinguishes network failures, server-reported errors, and bad responses
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes synthesized on the client. Server errors carry the server's own code.
const (
	CodeNetwork         = "NETWORK_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeServer          = "SERVER_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// Error is the structured {message, code, details} error every failed call returns.
type Error struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details,omitempty"`

	// Status is the HTTP status, or 0 when no response arrived.
	Status int `json:"-"`

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "request failed"
	}
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetworkError reports whether err means no response was received.
func IsNetworkError(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeNetwork
}

// IsServerError reports whether the server answered with a failure envelope.
func IsServerError(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status > 0 && apiErr.Code != CodeNetwork && apiErr.Code != CodeInvalidResponse
}

// IsNotFound reports whether the server said the resource does not exist.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && (apiErr.Code == CodeNotFound || apiErr.Status == http.StatusNotFound)
}

func networkError(err error) *Error {
	return &Error{
		Message: fmt.Sprintf("network error: %v", err),
		Code:    CodeNetwork,
		cause:   err,
	}
}

func invalidResponse(status int, detail string) *Error {
	return &Error{
		Message: detail,
		Code:    CodeInvalidResponse,
		Status:  status,
	}
}

// serverError fills in whatever the failure envelope left out.
func serverError(status int, reported *Error) *Error {
	e := &Error{Status: status}
	if reported != nil {
		e.Message = reported.Message
		e.Code = reported.Code
		e.Details = reported.Details
	}
	if e.Code == "" {
		if status == http.StatusNotFound {
			e.Code = CodeNotFound
		} else {
			e.Code = CodeServer
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
		if e.Message == "" {
			e.Message = "request failed"
		}
	}
	return e
}
