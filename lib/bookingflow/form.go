// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingflow

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// FormMode distinguishes creating a new event from editing one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// Title returns the modal heading for the mode.
func (mode FormMode) Title() string {
	if mode == FormEdit {
		return "Edit Event"
	}
	return "Add Event"
}

// Field identifies one input of the event form. The values match the
// field names in [booking.FieldProblem].
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
	FieldLocation    Field = "location"
	FieldCapacity    Field = "capacity"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldTitle, FieldDescription, FieldDate, FieldLocation, FieldCapacity}

// Label returns the input label.
func (field Field) Label() string {
	switch field {
	case FieldTitle:
		return "Title"
	case FieldDescription:
		return "Description"
	case FieldDate:
		return "Date (YYYY-MM-DD)"
	case FieldLocation:
		return "Location"
	case FieldCapacity:
		return "Capacity"
	default:
		return string(field)
	}
}

// Draft is the form's text content, one string per input.
type Draft struct {
	Title       string
	Description string
	Date        string
	Location    string
	Capacity    string
}

// DraftFrom seeds a draft from an event. The date keeps only its
// calendar-date portion.
func DraftFrom(event booking.Event) Draft {
	return Draft{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.DateOnly(),
		Location:    event.Location,
		Capacity:    strconv.Itoa(event.Capacity),
	}
}

// Get returns the text of one input.
func (draft Draft) Get(field Field) string {
	switch field {
	case FieldTitle:
		return draft.Title
	case FieldDescription:
		return draft.Description
	case FieldDate:
		return draft.Date
	case FieldLocation:
		return draft.Location
	case FieldCapacity:
		return draft.Capacity
	default:
		return ""
	}
}

// With returns a copy of the draft with one input replaced.
func (draft Draft) With(field Field, value string) Draft {
	switch field {
	case FieldTitle:
		draft.Title = value
	case FieldDescription:
		draft.Description = value
	case FieldDate:
		draft.Date = value
	case FieldLocation:
		draft.Location = value
	case FieldCapacity:
		draft.Capacity = value
	}
	return draft
}

// EventFields converts and validates the draft. A capacity that is not
// a whole number is reported alongside any other field problems.
func (draft Draft) EventFields() (booking.EventFields, error) {
	fields := booking.EventFields{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Date:        strings.TrimSpace(draft.Date),
		Location:    strings.TrimSpace(draft.Location),
	}

	var problems []booking.FieldProblem
	capacity, err := strconv.Atoi(strings.TrimSpace(draft.Capacity))
	if err != nil {
		problems = append(problems, booking.FieldProblem{
			Field:   string(FieldCapacity),
			Message: "capacity must be a whole number",
		})
		// Any positive value, so Validate reports only the other
		// fields.
		fields.Capacity = 1
	} else {
		fields.Capacity = capacity
	}

	var validation *booking.ValidationError
	if errors.As(fields.Validate(), &validation) {
		problems = append(problems, validation.Problems...)
	}
	if len(problems) > 0 {
		return booking.EventFields{}, &booking.ValidationError{Problems: problems}
	}
	return fields, nil
}

// FormState is the state of an [EventForm]: one of [FormClosed],
// [FormLoading], [FormEditing], or [FormSubmitting].
type FormState interface {
	formState()
}

// FormClosed is the idle state.
type FormClosed struct{}

// FormLoading waits for the current detail of EventID before the edit
// form can be shown. The form is disabled.
type FormLoading struct {
	EventID string
}

// FormEditing accepts input. Problems are the local validation
// failures of the last Submit; Err is the failure of the last
// submission.
type FormEditing struct {
	Mode     FormMode
	EventID  string
	Draft    Draft
	Problems []booking.FieldProblem
	Err      error
}

// Problem returns the validation message for field, or "".
func (editing FormEditing) Problem(field Field) string {
	for _, problem := range editing.Problems {
		if problem.Field == string(field) {
			return problem.Message
		}
	}
	return ""
}

// FormSubmitting has a create or replace request in flight.
type FormSubmitting struct {
	Mode    FormMode
	EventID string
	Draft   Draft
}

func (FormClosed) formState()     {}
func (FormLoading) formState()    {}
func (FormEditing) formState()    {}
func (FormSubmitting) formState() {}

// FormSubmission is the request a submitted EventForm asks the caller
// to send. EventID is empty for FormCreate.
type FormSubmission struct {
	Mode    FormMode
	EventID string
	Fields  booking.EventFields
}

// EventForm creates or edits one event. The zero value is closed.
type EventForm struct {
	state FormState
}

// State returns the current state.
func (form *EventForm) State() FormState {
	if form.state == nil {
		return FormClosed{}
	}
	return form.state
}

// Active reports whether the form is anywhere but closed.
func (form *EventForm) Active() bool {
	_, closed := form.State().(FormClosed)
	return !closed
}

// OpenCreate shows an empty form with a capacity of one.
func (form *EventForm) OpenCreate() bool {
	if form.Active() {
		return false
	}
	form.state = FormEditing{Mode: FormCreate, Draft: Draft{Capacity: "1"}}
	return true
}

// OpenEdit starts loading eventID. The caller fetches the event and
// reports it with Seeded.
func (form *EventForm) OpenEdit(eventID string) bool {
	if form.Active() {
		return false
	}
	form.state = FormLoading{EventID: eventID}
	return true
}

// Seeded delivers the result of fetching eventID for an edit. A result
// for any event other than the one loading is ignored, success or
// failure. A fetch failure for the loading event closes the form and
// is returned for the caller to display.
func (form *EventForm) Seeded(eventID string, event booking.Event, err error) error {
	loading, ok := form.State().(FormLoading)
	if !ok || eventID != loading.EventID {
		return nil
	}
	if err != nil {
		form.state = FormClosed{}
		return err
	}
	form.state = FormEditing{Mode: FormEdit, EventID: eventID, Draft: DraftFrom(event)}
	return nil
}

// SetField replaces one input. Any displayed submission error is
// cleared; field problems stay until the next Submit.
func (form *EventForm) SetField(field Field, value string) bool {
	editing, ok := form.State().(FormEditing)
	if !ok {
		return false
	}
	editing.Draft = editing.Draft.With(field, value)
	editing.Err = nil
	form.state = editing
	return true
}

// Submit validates the draft. On failure the form stays editing with
// per-field problems. On success it moves to submitting and returns
// the one request to send.
func (form *EventForm) Submit() (FormSubmission, bool) {
	editing, ok := form.State().(FormEditing)
	if !ok {
		return FormSubmission{}, false
	}
	fields, err := editing.Draft.EventFields()
	if err != nil {
		var validation *booking.ValidationError
		errors.As(err, &validation)
		editing.Problems = validation.Problems
		editing.Err = nil
		form.state = editing
		return FormSubmission{}, false
	}
	form.state = FormSubmitting{Mode: editing.Mode, EventID: editing.EventID, Draft: editing.Draft}
	return FormSubmission{Mode: editing.Mode, EventID: editing.EventID, Fields: fields}, true
}

// Settle reports the outcome of the submission. Success closes the
// form; failure returns to editing with the draft intact.
func (form *EventForm) Settle(err error) bool {
	submitting, ok := form.State().(FormSubmitting)
	if !ok {
		return false
	}
	if err == nil {
		form.state = FormClosed{}
		return true
	}
	editing := FormEditing{Mode: submitting.Mode, EventID: submitting.EventID, Draft: submitting.Draft, Err: err}
	var validation *booking.ValidationError
	if errors.As(err, &validation) {
		editing.Problems = validation.Problems
	}
	form.state = editing
	return true
}

// Cancel closes the form while loading or editing.
func (form *EventForm) Cancel() bool {
	switch form.State().(type) {
	case FormLoading, FormEditing:
		form.state = FormClosed{}
		return true
	default:
		return false
	}
}
