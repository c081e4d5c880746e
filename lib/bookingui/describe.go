// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"context"
	"errors"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// SessionExpiredMessage is shown on the login screen after the service
// rejects the stored credential.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Describe returns the text shown to the user for err. Local
// validation and permission failures carry their own guidance; remote
// rejections show the service's message verbatim; transport failures
// get a generic message so connection details stay in the log.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var validation *booking.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	var denied *catalog.PermissionDeniedError
	if errors.As(err, &denied) {
		return denied.Message
	}
	var apiError *bookingclient.APIError
	if errors.As(err, &apiError) {
		return apiError.Message
	}
	var transportError *bookingclient.TransportError
	if errors.As(err, &transportError) {
		return bookingclient.TransportFailureMessage
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled."
	}
	return err.Error()
}
