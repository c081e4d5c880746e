// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/eventdesk/lib/bookingflow"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/tui"
)

// Catalog layout.
const (
	// detailHeight is the number of description lines in the detail
	// strip below the table.
	detailHeight = 6

	// detailMinScreenHeight is the smallest screen that shows the
	// detail strip.
	detailMinScreenHeight = 20
)

func (model Model) newEventTable() *tui.Table[booking.Event] {
	theme := model.theme
	return &tui.Table[booking.Event]{
		Columns: []tui.Column[booking.Event]{
			{
				Label:     "Title",
				Value:     func(event booking.Event) string { return event.Title },
				Flex:      true,
				Highlight: true,
			},
			{
				Label: "Date",
				Value: func(event booking.Event) string { return event.DateOnly() },
			},
			{
				Label:     "Location",
				Value:     func(event booking.Event) string { return event.Location },
				MaxWidth:  24,
				Highlight: true,
			},
			{
				Label: "Seats",
				Value: func(event booking.Event) string {
					return strconv.Itoa(event.RemainingSeats) + "/" + strconv.Itoa(event.Capacity)
				},
			},
			{
				Label: "Availability",
				Value: func(event booking.Event) string { return event.Availability().String() },
				Render: func(event booking.Event) string {
					availability := event.Availability()
					return lipgloss.NewStyle().
						Foreground(theme.AvailabilityColor(availability)).
						Render(availability.String())
				},
			},
		},
		RowID: func(event booking.Event) string { return event.ID },
		Heat:  model.heat,
	}
}

// rowActions returns the table actions the current identity may use.
func (model Model) rowActions() []tui.Action[booking.Event] {
	var actions []tui.Action[booking.Event]
	if model.capabilities.BookSeats {
		actions = append(actions, tui.Action[booking.Event]{
			Label:   "Book",
			Key:     "b",
			Enabled: func(event booking.Event) bool { return event.Availability() == booking.Available },
			Invoke: func(event booking.Event) tea.Cmd {
				return func() tea.Msg { return bookRequestedMsg{event: event} }
			},
		})
	}
	if model.capabilities.EditEvent {
		actions = append(actions, tui.Action[booking.Event]{
			Label: "Edit",
			Key:   "e",
			Invoke: func(event booking.Event) tea.Cmd {
				return func() tea.Msg { return editRequestedMsg{eventID: event.ID} }
			},
		})
	}
	if model.capabilities.DeleteEvent {
		actions = append(actions, tui.Action[booking.Event]{
			Label: "Delete",
			Key:   "d",
			Invoke: func(event booking.Event) tea.Cmd {
				return func() tea.Msg { return deleteRequestedMsg{event: event} }
			},
		})
	}
	return actions
}

// eventFingerprint covers every displayed field, so a row glows when
// anything visible about it changed.
func eventFingerprint(event booking.Event) tui.Fingerprint {
	return tui.FingerprintOf(
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		strconv.Itoa(event.Capacity),
		strconv.Itoa(event.RemainingSeats),
	)
}

// tableHeight is the number of lines available to the event table.
func (model Model) tableHeight() int {
	height := model.height - 3 // header, separator, status line
	if model.filter.Active || model.filter.Input != "" {
		height--
	}
	if model.height >= detailMinScreenHeight {
		height -= detailHeight + 1
	}
	return max(height, 2)
}

func (model Model) handleCatalogKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case model.alert != "":
		return model.handleAlertKeys(message)
	case model.pendingDelete != nil:
		return model.handleDeleteKeys(message)
	case model.book.Active():
		return model.handleBookKeys(message)
	case model.form.Active():
		return model.handleFormKeys(message)
	case model.bookings.Active():
		return model.handleBookingsKeys(message)
	case model.filter.Active:
		return model.handleFilterKeys(message)
	}

	page := max(model.tableHeight()-2, 1)
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.table.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.table.MoveDown()
	case key.Matches(message, model.keys.PageUp):
		model.table.SetCursor(model.table.Cursor() - page)
	case key.Matches(message, model.keys.PageDown):
		model.table.SetCursor(model.table.Cursor() + page)
	case key.Matches(message, model.keys.Home):
		model.table.SetCursor(0)
	case key.Matches(message, model.keys.End):
		model.table.SetCursor(len(model.table.Rows()) - 1)

	case key.Matches(message, model.keys.FilterActivate):
		model.filter.Active = true

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.syncTable()
		}

	case key.Matches(message, model.keys.AddEvent):
		return model.openCreate()

	case key.Matches(message, model.keys.Bookings):
		return model.openBookings()

	case key.Matches(message, model.keys.Refresh):
		if model.refreshing {
			return model, nil
		}
		model.refreshing = true
		return model, model.refreshCmd()

	case key.Matches(message, model.keys.Logout):
		return model.logout()

	case key.Matches(message, model.keys.Submit):
		if selected, ok := model.table.Selected(); ok {
			return model.openBook(selected)
		}

	default:
		if cmd, ok := model.table.Invoke(message.String()); ok {
			return model, cmd
		}
		// A refused action still explains itself.
		selected, ok := model.table.Selected()
		if !ok {
			return model, nil
		}
		switch {
		case key.Matches(message, model.keys.Book):
			return model.openBook(selected)
		case key.Matches(message, model.keys.Edit):
			return model.openEdit(selected.ID)
		case key.Matches(message, model.keys.Delete):
			return model.openDelete(selected)
		}
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.filter.Clear()
	case tea.KeyEnter:
		model.filter.Active = false
	case tea.KeyBackspace:
		if !model.filter.HandleBackspace() {
			return model, nil
		}
	case tea.KeyUp:
		model.table.MoveUp()
		return model, nil
	case tea.KeyDown:
		model.table.MoveDown()
		return model, nil
	case tea.KeySpace:
		model.filter.HandleRune(' ')
	case tea.KeyRunes:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
	default:
		return model, nil
	}
	model.syncTable()
	return model, nil
}

// --- View ---

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}
	switch model.screen {
	case ScreenLogin:
		return model.renderLogin()
	case ScreenRegister:
		return model.renderRegister()
	default:
		return model.renderCatalog()
	}
}

func (model Model) renderCatalog() string {
	var sections []string
	sections = append(sections, model.renderHeader())
	if filterBar := model.filter.View(model.theme, model.width); filterBar != "" {
		sections = append(sections, filterBar)
	}

	tableHeight := model.tableHeight()
	tableView := model.table.View(model.theme, model.width, tableHeight, model.clock.Now())
	sections = append(sections, padLines(tableView, tableHeight))

	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", max(model.width, 0)))
	if model.height >= detailMinScreenHeight {
		sections = append(sections, separator, model.renderDetail())
	}
	sections = append(sections, separator, model.renderStatus())

	view := strings.Join(sections, "\n")
	if lines := model.modalLines(); lines != nil {
		view = tui.CenterOverlay(view, lines, model.width, model.height)
	}
	return view
}

// padLines pads view with blank lines to exactly height lines.
func padLines(view string, height int) string {
	count := strings.Count(view, "\n") + 1
	if count >= height {
		return view
	}
	return view + strings.Repeat("\n", height-count)
}

func (model Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := titleStyle.Render(" eventdesk")
	if identity, ok := model.session.Identity(); ok {
		left += faint.Render("  " + identity.DisplayName() + " (" + string(identity.Role) + ")")
	}
	if model.refreshing {
		left += faint.Render("  refreshing…")
	}

	scope := model.snapshot.Scope
	if identity, ok := model.session.Identity(); ok {
		scope = booking.ScopeFor(identity.Role)
	}
	badge := lipgloss.NewStyle().Foreground(model.theme.AccentColor).Bold(true).
		Render(fmt.Sprintf("%s (%d) ", scope.Label(), len(model.snapshot.Bookings)))

	gap := model.width - ansi.StringWidth(left) - ansi.StringWidth(badge)
	if gap < 1 {
		return ansi.Truncate(left+" "+badge, model.width, "")
	}
	return left + strings.Repeat(" ", gap) + badge
}

// renderDetail shows the selected event with its markdown description.
func (model Model) renderDetail() string {
	event, ok := model.table.Selected()
	if !ok {
		return padLines("", detailHeight)
	}
	source := fmt.Sprintf("**%s** · %s · %s\n\n%s", event.Title, event.DateOnly(), event.Location, event.Description)
	rendered := tui.RenderMarkdown(source, model.theme, max(model.width-2, 10))

	lines := strings.Split(rendered, "\n")
	if len(lines) > detailHeight {
		lines = lines[:detailHeight]
	}
	for index, line := range lines {
		lines[index] = " " + ansi.Truncate(line, model.width-1, "…")
	}
	return padLines(strings.Join(lines, "\n"), detailHeight)
}

// renderStatus shows the newest notice, else the latest refresh
// failure, else key help.
func (model Model) renderStatus() string {
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
	var text string
	switch {
	case model.notice.text != "" && model.notice.isError:
		text = errorStyle.Render(" " + model.notice.text)
	case model.notice.text != "":
		text = lipgloss.NewStyle().Foreground(model.theme.NoticeText).Render(" " + model.notice.text)
	case model.snapshot.EventsErr != nil:
		text = errorStyle.Render(" Events: " + Describe(model.snapshot.EventsErr))
	case model.snapshot.BookingsErr != nil:
		text = errorStyle.Render(" Bookings: " + Describe(model.snapshot.BookingsErr))
	default:
		text = lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(" " + model.catalogHelp())
	}
	return ansi.Truncate(text, model.width, "…")
}

func (model Model) catalogHelp() string {
	parts := []string{"j/k move", "/ filter", "Enter book", "v bookings"}
	if model.capabilities.CreateEvent {
		parts = append(parts, "a add event")
	}
	parts = append(parts, "r refresh", "L log out", "q quit")
	return strings.Join(parts, "  ")
}

// openCreate shows the empty event form, or the admin-only notice.
func (model Model) openCreate() (tea.Model, tea.Cmd) {
	if !model.capabilities.CreateEvent {
		model.alert = catalog.MessageAdminOnly
		return model, nil
	}
	if !model.form.OpenCreate() {
		return model, nil
	}
	if editing, ok := model.form.State().(bookingflow.FormEditing); ok {
		model.formInputs = newFormInputs(editing.Draft)
	}
	return model, nil
}
