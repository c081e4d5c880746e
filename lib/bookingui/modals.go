// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/bookingflow"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/tui"
)

// maxSeatsInput bounds the seat count typed into the book modal.
const maxSeatsInput = 9999

// modalMaxWidth is the widest modal inner area.
const modalMaxWidth = 60

// --- Blocking notice ---

func (model Model) handleAlertKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Submit) || key.Matches(message, model.keys.Cancel) {
		model.alert = ""
	}
	return model, nil
}

// --- Book seats ---

func (model Model) openBook(event booking.Event) (tea.Model, tea.Cmd) {
	if !model.capabilities.BookSeats {
		model.alert = catalog.MessageLoginRequired
		return model, nil
	}
	if _, err := model.book.Open(event); err != nil {
		model.alert = Describe(err)
	}
	return model, nil
}

func (model Model) handleBookKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	open, ok := model.book.State().(bookingflow.BookOpen)
	if !ok {
		// Submitting: the request in flight is the only one.
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Cancel):
		model.book.Cancel()

	case key.Matches(message, model.keys.Submit):
		submission, confirmed := model.book.Confirm()
		if confirmed {
			return model, model.bookCmd(submission, open.Event)
		}

	case key.Matches(message, model.keys.Increment):
		if open.Seats < max(open.Event.RemainingSeats, 1) {
			model.book.SetSeats(open.Seats + 1)
		}

	case key.Matches(message, model.keys.Decrement):
		if open.Seats > 1 {
			model.book.SetSeats(open.Seats - 1)
		}

	case message.Type == tea.KeyBackspace:
		model.book.SetSeats(open.Seats / 10)

	case message.Type == tea.KeyRunes:
		seats := open.Seats
		for _, character := range message.Runes {
			if character < '0' || character > '9' {
				return model, nil
			}
			seats = seats*10 + int(character-'0')
		}
		if seats <= maxSeatsInput {
			model.book.SetSeats(seats)
		}
	}
	return model, nil
}

func (model Model) bookCmd(submission bookingflow.BookSubmission, event booking.Event) tea.Cmd {
	controller := model.controller
	return func() tea.Msg {
		_, err := controller.RequestBooking(context.Background(), submission.EventID, submission.Seats)
		return bookingSettledMsg{event: event, seats: submission.Seats, err: err}
	}
}

func (model Model) handleBookingSettled(message bookingSettledMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenCatalog {
		return model, nil
	}
	if bookingclient.IsUnauthorized(message.err) {
		return model.expireSession()
	}
	if !model.book.Settle(message.err) || message.err != nil {
		return model, nil
	}
	refreshed := model.applySnapshot()
	notice := model.setNotice(fmt.Sprintf("Booked %s for %q.", seatCount(message.seats), message.event.Title), false)
	return model, tea.Batch(refreshed, notice)
}

func seatCount(seats int) string {
	if seats == 1 {
		return "1 seat"
	}
	return strconv.Itoa(seats) + " seats"
}

func (model Model) renderBook(innerWidth int) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	accent := lipgloss.NewStyle().Foreground(model.theme.AccentColor).Bold(true)
	background := lipgloss.NewStyle().Background(model.theme.ModalBackground)

	var event booking.Event
	var seats int
	var err error
	submitting := false
	switch state := model.book.State().(type) {
	case bookingflow.BookOpen:
		event, seats, err = state.Event, state.Seats, state.Err
	case bookingflow.BookSubmitting:
		event, seats, submitting = state.Event, state.Seats, true
	}

	body := []string{
		background.Bold(true).Render(event.Title),
		faint.Render(event.DateOnly() + " · " + event.Location),
	}
	for _, line := range tui.ExtractExcerpt(event.Description, max(innerWidth-4, 10), 2) {
		body = append(body, faint.Render(line))
	}
	body = append(body,
		"",
		background.Render(fmt.Sprintf("Remaining: %d of %d", event.RemainingSeats, event.Capacity)),
		background.Render("Seats:  ")+accent.Render("◂ "+strconv.Itoa(seats)+" ▸"),
	)
	if err != nil {
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(Describe(err)))
	}
	body = append(body, "")
	if submitting {
		body = append(body, faint.Render("Booking…"))
	} else {
		body = append(body, faint.Render("+/- seats  Enter confirm  Esc cancel"))
	}
	return tui.RenderModal(model.theme, "Book Seats", body, innerWidth)
}

// --- Event form ---

// newFormInputs builds one input per form field, seeded from draft.
func newFormInputs(draft bookingflow.Draft) inputSet {
	set := inputSet{}
	for _, field := range bookingflow.Fields {
		input := newInput("")
		input.SetValue(draft.Get(field))
		set.labels = append(set.labels, field.Label())
		set.fields = append(set.fields, string(field))
		set.inputs = append(set.inputs, input)
	}
	set.setFocus(0)
	return set
}

func (model Model) openEdit(eventID string) (tea.Model, tea.Cmd) {
	if !model.capabilities.EditEvent {
		model.alert = catalog.MessageAdminOnly
		return model, nil
	}
	if !model.form.OpenEdit(eventID) {
		return model, nil
	}
	controller := model.controller
	return model, func() tea.Msg {
		event, err := controller.LoadEventForEdit(context.Background(), eventID)
		return formSeededMsg{eventID: eventID, event: event, err: err}
	}
}

func (model Model) handleFormSeeded(message formSeededMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenCatalog {
		return model, nil
	}
	if bookingclient.IsUnauthorized(message.err) {
		return model.expireSession()
	}
	if err := model.form.Seeded(message.eventID, message.event, message.err); err != nil {
		return model, model.setNotice("Could not load event: "+Describe(err), true)
	}
	if editing, ok := model.form.State().(bookingflow.FormEditing); ok && editing.EventID == message.eventID {
		model.formInputs = newFormInputs(editing.Draft)
	}
	return model, nil
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.form.State().(type) {
	case bookingflow.FormLoading:
		if key.Matches(message, model.keys.Cancel) {
			model.form.Cancel()
		}
		return model, nil
	case bookingflow.FormEditing:
	default:
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Cancel):
		model.form.Cancel()
		return model, nil
	case key.Matches(message, model.keys.NextField):
		model.formInputs.next()
		return model, nil
	case key.Matches(message, model.keys.PreviousField):
		model.formInputs.previous()
		return model, nil
	case key.Matches(message, model.keys.Submit):
		submission, ok := model.form.Submit()
		if !ok {
			return model, nil
		}
		return model, model.formCmd(submission)
	}

	cmd, changed := model.formInputs.update(message)
	if changed {
		focus := model.formInputs.focus
		model.form.SetField(bookingflow.Fields[focus], model.formInputs.value(focus))
	}
	return model, cmd
}

func (model Model) formCmd(submission bookingflow.FormSubmission) tea.Cmd {
	controller := model.controller
	return func() tea.Msg {
		var event booking.Event
		var err error
		switch submission.Mode {
		case bookingflow.FormEdit:
			event, err = controller.RequestEdit(context.Background(), submission.EventID, submission.Fields)
		default:
			event, err = controller.RequestCreate(context.Background(), submission.Fields)
		}
		return formSettledMsg{mode: submission.Mode, event: event, err: err}
	}
}

func (model Model) handleFormSettled(message formSettledMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenCatalog {
		return model, nil
	}
	if bookingclient.IsUnauthorized(message.err) {
		return model.expireSession()
	}
	if !model.form.Settle(message.err) || message.err != nil {
		return model, nil
	}

	refreshed := model.applySnapshot()
	model.table.SelectFunc(func(event booking.Event) bool { return event.ID == message.event.ID })
	text := fmt.Sprintf("Created %q.", message.event.Title)
	if message.mode == bookingflow.FormEdit {
		text = fmt.Sprintf("Saved %q.", message.event.Title)
	}
	return model, tea.Batch(refreshed, model.setNotice(text, false))
}

func (model Model) renderForm(innerWidth int) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)

	var body []string
	var mode bookingflow.FormMode
	switch state := model.form.State().(type) {
	case bookingflow.FormLoading:
		mode = bookingflow.FormEdit
		body = []string{faint.Render("Loading event…"), "", faint.Render("Esc cancel")}

	case bookingflow.FormEditing:
		mode = state.Mode
		problems := make(map[string]string, len(state.Problems))
		for _, problem := range state.Problems {
			problems[problem.Field] = problem.Message
		}
		body = model.formInputs.view(model.theme, problems)
		if state.Err != nil {
			body = append(body, "", errorStyle.Render(Describe(state.Err)))
		}
		body = append(body, "", faint.Render("Enter save  Tab next field  Esc cancel"))

	case bookingflow.FormSubmitting:
		mode = state.Mode
		body = model.formInputs.view(model.theme, nil)
		body = append(body, "", faint.Render("Saving…"))
	}
	return tui.RenderModal(model.theme, mode.Title(), body, innerWidth)
}

// --- Delete confirmation ---

func (model Model) openDelete(event booking.Event) (tea.Model, tea.Cmd) {
	if !model.capabilities.DeleteEvent {
		model.alert = catalog.MessageAdminOnly
		return model, nil
	}
	model.pendingDelete = &event
	model.deleting = false
	return model, nil
}

func (model Model) handleDeleteKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.deleting {
		return model, nil
	}
	switch {
	case message.String() == "y" || key.Matches(message, model.keys.Submit):
		model.deleting = true
		event := *model.pendingDelete
		controller := model.controller
		return model, func() tea.Msg {
			return deleteSettledMsg{event: event, err: controller.RequestDelete(context.Background(), event.ID)}
		}
	case message.String() == "n" || key.Matches(message, model.keys.Cancel):
		model.pendingDelete = nil
	}
	return model, nil
}

func (model Model) handleDeleteSettled(message deleteSettledMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenCatalog {
		return model, nil
	}
	if bookingclient.IsUnauthorized(message.err) {
		return model.expireSession()
	}
	if model.pendingDelete == nil || !model.deleting {
		return model, nil
	}
	model.pendingDelete = nil
	model.deleting = false
	if message.err != nil {
		return model, model.setNotice("Delete failed: "+Describe(message.err), true)
	}
	refreshed := model.applySnapshot()
	return model, tea.Batch(refreshed, model.setNotice(fmt.Sprintf("Deleted %q.", message.event.Title), false))
}

func (model Model) renderDelete(innerWidth int) []string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	background := lipgloss.NewStyle().Background(model.theme.ModalBackground)

	body := []string{
		background.Render(fmt.Sprintf("Delete %q?", model.pendingDelete.Title)),
		faint.Render("Its bookings are removed as well."),
		"",
	}
	if model.deleting {
		body = append(body, faint.Render("Deleting…"))
	} else {
		body = append(body, faint.Render("y delete  n cancel"))
	}
	return tui.RenderModal(model.theme, "Delete Event", body, innerWidth)
}

// --- Bookings view ---

func newBookingsTable(showRequester bool) *tui.Table[booking.Booking] {
	columns := []tui.Column[booking.Booking]{
		{
			Label: "Event",
			Value: func(entry booking.Booking) string { return entry.Event.Title },
			Flex:  true,
		},
		{
			Label: "Date",
			Value: func(entry booking.Booking) string { return booking.DateOnly(entry.Event.Date) },
		},
		{
			Label: "Seats",
			Value: func(entry booking.Booking) string { return strconv.Itoa(entry.Seats) },
		},
		{
			Label: "Booked",
			Value: func(entry booking.Booking) string {
				if entry.BookedAt.IsZero() {
					return ""
				}
				return entry.BookedAt.Local().Format("2006-01-02 15:04")
			},
		},
	}
	if showRequester {
		columns = append(columns, tui.Column[booking.Booking]{
			Label:    "Requester",
			MaxWidth: 24,
			Value: func(entry booking.Booking) string {
				if entry.User.Name != "" {
					return entry.User.Name
				}
				return entry.User.Email
			},
		})
	}
	return &tui.Table[booking.Booking]{
		Columns: columns,
		RowID:   func(entry booking.Booking) string { return entry.ID },
	}
}

func (model Model) openBookings() (tea.Model, tea.Cmd) {
	scope := model.snapshot.Scope
	if identity, ok := model.session.Identity(); ok {
		scope = booking.ScopeFor(identity.Role)
	}
	model.bookings.Open(model.snapshot.Bookings, scope)
	model.bookingsTable = newBookingsTable(model.bookings.ShowRequester())
	model.bookingsTable.SetRows(model.bookings.Bookings())
	return model, nil
}

func (model Model) handleBookingsKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Bookings),
		key.Matches(message, model.keys.Quit):
		model.bookings.Dismiss()
	case key.Matches(message, model.keys.Up):
		model.bookingsTable.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.bookingsTable.MoveDown()
	}
	return model, nil
}

func (model Model) renderBookings(innerWidth int) []string {
	title := fmt.Sprintf("%s (%d)", model.bookings.Title(), len(model.bookings.Bookings()))
	height := min(len(model.bookings.Bookings())+1, max(model.height-10, 3))
	table := model.bookingsTable.View(model.theme, innerWidth, height, model.clock.Now())
	body := strings.Split(table, "\n")
	body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Esc close"))
	return tui.RenderModal(model.theme, title, body, innerWidth)
}

// --- Overlay selection ---

// modalLines renders the visible modal, or nil when none is showing.
func (model Model) modalLines() []string {
	innerWidth := min(modalMaxWidth, model.width-6)
	if innerWidth < 10 {
		return nil
	}
	switch {
	case model.alert != "":
		body := strings.Split(ansi.Wordwrap(model.alert, innerWidth, ""), "\n")
		body = append(body, "", lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Enter dismiss"))
		return tui.RenderModal(model.theme, "Not available", body, innerWidth)
	case model.pendingDelete != nil:
		return model.renderDelete(innerWidth)
	case model.book.Active():
		return model.renderBook(innerWidth)
	case model.form.Active():
		return model.renderForm(innerWidth)
	case model.bookings.Active():
		return model.renderBookings(innerWidth)
	}
	return nil
}
