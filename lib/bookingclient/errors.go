// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingclient

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportFailureMessage is the user-facing text for every
// *TransportError. The underlying cause is kept for logs only.
const TransportFailureMessage = "Unable to reach the booking service. Check your connection and try again."

// APIError is a non-2xx response from the service. Message is the
// service's own explanation, shown to the user verbatim.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Detail returns the message with the request line and status, for
// logs and --json output.
func (e *APIError) Detail() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// TransportError is a failure to obtain a usable response: the
// connection failed, the context was cancelled, or a 2xx body did not
// decode.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return TransportFailureMessage
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying cause, for logs.
func (e *TransportError) Detail() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, statusCode int) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == statusCode
}

// IsUnauthorized reports whether the service rejected the credential.
// The session should be torn down and the user sent back to login.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
