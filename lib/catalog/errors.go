// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import "errors"

// PermissionDeniedError is a locally rejected action: the current
// identity lacks the role, or the last-known snapshot shows the action
// cannot succeed. The request was never sent.
type PermissionDeniedError struct {
	// Action names the operation, for logs ("create event", "book").
	Action string

	// Message is the guidance shown to the user.
	Message string
}

func (e *PermissionDeniedError) Error() string {
	return e.Message
}

// IsPermissionDenied reports whether err is a *PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var denied *PermissionDeniedError
	return errors.As(err, &denied)
}

// Guidance messages for locally rejected actions.
const (
	MessageAdminOnly        = "Only administrators can manage events."
	MessageLoginRequired    = "Log in to continue."
	MessageNoSeatsAvailable = "No seats available for this event."
)

func adminOnly(action string) error {
	return &PermissionDeniedError{Action: action, Message: MessageAdminOnly}
}
