// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// ErrorCategory classifies command errors so that scripts can make
// decisions (retry, fix input, log in again) from the exit code
// without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unparseable values, fields the service rules
	// out. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced event does not exist.
	// Retrying with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the identity lacks permission for the
	// requested operation, or has no valid session at all.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with service
	// state: an email already registered, seats already taken.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates the service could not be reached. The
	// caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, local I/O
	// failures.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps each category to the process exit status.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryForbidden:  4,
	CategoryConflict:   5,
	CategoryTransient:  6,
	CategoryInternal:   1,
}

// ToolError is a categorized error returned by CLI commands.
//
// ToolError wraps an inner error, preserving the full error chain for
// debugging while adding category metadata. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint, when set, is printed after the message on its own
	// paragraph: the next command to run, the flag to pass.
	Hint string
}

// Error returns the underlying message followed by the hint, if any.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode returns the process exit status for the error's category.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromRemote classifies an error returned by the booking client or the
// catalog controller. The resulting message is the same text the
// interactive client shows; the original error stays in the chain.
// A nil err returns nil.
func FromRemote(err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}

	var validation *booking.ValidationError
	if errors.As(err, &validation) {
		return &ToolError{Category: CategoryValidation, Err: err}
	}
	var denied *catalog.PermissionDeniedError
	if errors.As(err, &denied) {
		if denied.Message == catalog.MessageLoginRequired {
			return (&ToolError{Category: CategoryForbidden, Err: err}).
				WithHint("Run 'eventdesk login <email>' first.")
		}
		return &ToolError{Category: CategoryForbidden, Err: err}
	}
	var transport *bookingclient.TransportError
	if errors.As(err, &transport) {
		return &ToolError{Category: CategoryTransient, Err: err}
	}
	var apiError *bookingclient.APIError
	if errors.As(err, &apiError) {
		switch apiError.StatusCode {
		case http.StatusUnauthorized:
			return (&ToolError{Category: CategoryForbidden, Err: err}).
				WithHint("Your session has expired. Run 'eventdesk login <email>' again.")
		case http.StatusForbidden:
			return &ToolError{Category: CategoryForbidden, Err: err}
		case http.StatusNotFound:
			return &ToolError{Category: CategoryNotFound, Err: err}
		case http.StatusConflict:
			return &ToolError{Category: CategoryConflict, Err: err}
		}
		if apiError.StatusCode >= 500 {
			return &ToolError{Category: CategoryTransient, Err: err}
		}
		return &ToolError{Category: CategoryValidation, Err: err}
	}
	return &ToolError{Category: CategoryInternal, Err: err}
}
