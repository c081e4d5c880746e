// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/bookingflow"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/clock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/session"
	"github.com/bureau-foundation/eventdesk/lib/tui"
)

// Service is the booking service as the interactive client uses it.
// *bookingclient.Client implements it.
type Service interface {
	catalog.Remote
	Login(ctx context.Context, request booking.LoginRequest) (booking.Identity, error)
	Register(ctx context.Context, request booking.RegisterRequest) (string, error)
}

// Screen is the top-level route.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenCatalog
)

func (screen Screen) String() string {
	switch screen {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenCatalog:
		return "catalog"
	default:
		return fmt.Sprintf("Screen(%d)", int(screen))
	}
}

// noticeFadeDelay is how long a status-line notice stays visible.
const noticeFadeDelay = 4 * time.Second

// Completion messages for asynchronous remote calls.
type (
	loginResultMsg struct {
		identity booking.Identity
		err      error
	}
	registerResultMsg struct {
		email   string
		message string
		err     error
	}
	refreshDoneMsg struct {
		err error
	}
	bookingSettledMsg struct {
		event booking.Event
		seats int
		err   error
	}
	formSeededMsg struct {
		eventID string
		event   booking.Event
		err     error
	}
	formSettledMsg struct {
		mode  bookingflow.FormMode
		event booking.Event
		err   error
	}
	deleteSettledMsg struct {
		event booking.Event
		err   error
	}
)

// Intent messages emitted by the catalog table's row actions.
type (
	bookRequestedMsg   struct{ event booking.Event }
	editRequestedMsg   struct{ eventID string }
	deleteRequestedMsg struct{ event booking.Event }
)

// Timer messages.
type (
	heatTickMsg   struct{}
	noticeFadeMsg struct{ sequence int }
)

// Config holds a Model's collaborators.
type Config struct {
	Service Service
	Session *session.Store

	// Theme defaults to tui.DefaultTheme.
	Theme tui.Theme

	// Logger defaults to discarding. In the running program it is
	// normally backed by a [TUILogHandler].
	Logger *slog.Logger

	// Clock drives the heat animation. Defaults to clock.Real().
	Clock clock.Clock
}

// statusNotice is a transient message in the status line.
type statusNotice struct {
	text    string
	isError bool
}

// Model is the top-level bubbletea model.
type Model struct {
	service    Service
	session    *session.Store
	controller *catalog.Controller
	logger     *slog.Logger
	clock      clock.Clock
	theme      tui.Theme
	keys       KeyMap

	// schedule delivers message after delay. Tests replace it to keep
	// timers out of the message loop.
	schedule func(delay time.Duration, message tea.Msg) tea.Cmd

	width  int
	height int
	ready  bool

	screen   Screen
	login    loginForm
	register registerForm

	// Catalog screen.
	filter       FilterModel
	table        *tui.Table[booking.Event]
	snapshot     catalog.Snapshot
	capabilities catalog.Capabilities
	refreshing   bool
	heat         *tui.HeatTracker
	changes      *tui.ChangeDetector
	tickRunning  bool

	// Modals. At most one is visible; see activeModal.
	book          bookingflow.BookFlow
	form          bookingflow.EventForm
	formInputs    inputSet
	bookings      bookingflow.BookingsView
	bookingsTable *tui.Table[booking.Booking]
	pendingDelete *booking.Event
	deleting      bool
	alert         string

	notice         statusNotice
	noticeSequence int
}

// NewModel creates the model. A session restored from disk skips the
// login screen.
func NewModel(config Config) Model {
	if config.Theme == (tui.Theme{}) {
		config.Theme = tui.DefaultTheme
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	model := Model{
		service:    config.Service,
		session:    config.Session,
		controller: catalog.New(config.Service, config.Session, config.Logger, catalog.WithClock(config.Clock)),
		logger:     config.Logger,
		clock:      config.Clock,
		theme:      config.Theme,
		keys:       DefaultKeyMap,
		schedule:   scheduleAfter,
		login:      newLoginForm(),
		register:   newRegisterForm(),
		heat:       tui.NewHeatTracker(),
		changes:    &tui.ChangeDetector{},
	}
	model.table = model.newEventTable()
	model.bookingsTable = newBookingsTable(false)

	if config.Session.Authenticated() {
		model.screen = ScreenCatalog
		model.refreshing = true
		model.capabilities = model.controller.Capabilities()
		model.table.Actions = model.rowActions()
	}
	return model
}

func scheduleAfter(delay time.Duration, message tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return message
	})
}

// Screen returns the current route.
func (model Model) Screen() Screen {
	return model.screen
}

// Init implements tea.Model. A restored session starts fetching the
// catalog immediately.
func (model Model) Init() tea.Cmd {
	if model.screen == ScreenCatalog {
		return model.refreshCmd()
	}
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		switch model.screen {
		case ScreenLogin:
			return model.handleLoginKeys(message)
		case ScreenRegister:
			return model.handleRegisterKeys(message)
		default:
			return model.handleCatalogKeys(message)
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case loginResultMsg:
		return model.handleLoginResult(message)

	case registerResultMsg:
		return model.handleRegisterResult(message)

	case refreshDoneMsg:
		model.refreshing = false
		if model.screen != ScreenCatalog {
			return model, nil
		}
		if bookingclient.IsUnauthorized(message.err) {
			return model.expireSession()
		}
		return model, model.applySnapshot()

	case bookRequestedMsg:
		return model.openBook(message.event)

	case editRequestedMsg:
		return model.openEdit(message.eventID)

	case deleteRequestedMsg:
		return model.openDelete(message.event)

	case bookingSettledMsg:
		return model.handleBookingSettled(message)

	case formSeededMsg:
		return model.handleFormSeeded(message)

	case formSettledMsg:
		return model.handleFormSettled(message)

	case deleteSettledMsg:
		return model.handleDeleteSettled(message)

	case heatTickMsg:
		if model.heat.HasHot(model.clock.Now()) {
			return model, model.schedule(tui.HeatTickInterval, heatTickMsg{})
		}
		model.tickRunning = false

	case noticeFadeMsg:
		if message.sequence == model.noticeSequence {
			model.notice = statusNotice{}
		}

	case logRecordMsg:
		return model, model.showNotice(message.Summary, message.Level >= slog.LevelWarn, logRecordFadeDelay)
	}
	return model, nil
}

// setNotice shows text in the status line until it fades or another
// notice replaces it.
func (model *Model) setNotice(text string, isError bool) tea.Cmd {
	return model.showNotice(text, isError, noticeFadeDelay)
}

func (model *Model) showNotice(text string, isError bool, delay time.Duration) tea.Cmd {
	model.noticeSequence++
	model.notice = statusNotice{text: text, isError: isError}
	return model.schedule(delay, noticeFadeMsg{sequence: model.noticeSequence})
}

// --- Login and registration ---

func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Register):
		if model.login.submitting {
			return model, nil
		}
		model.register = newRegisterForm()
		model.screen = ScreenRegister
		return model, nil

	case key.Matches(message, model.keys.NextField):
		model.login.next()
		return model, nil

	case key.Matches(message, model.keys.PreviousField):
		model.login.previous()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.login.submitting {
			return model, nil
		}
		request := model.login.request()
		if err := request.Validate(); err != nil {
			model.login.err = Describe(err)
			return model, nil
		}
		model.login.submitting = true
		model.login.err = ""
		model.login.notice = ""
		return model, model.loginCmd(request)
	}

	if model.login.submitting {
		return model, nil
	}
	cmd, changed := model.login.update(message)
	if changed {
		model.login.err = ""
	}
	return model, cmd
}

func (model Model) loginCmd(request booking.LoginRequest) tea.Cmd {
	service := model.service
	return func() tea.Msg {
		identity, err := service.Login(context.Background(), request)
		return loginResultMsg{identity: identity, err: err}
	}
}

func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenLogin || !model.login.submitting {
		return model, nil
	}
	if message.err != nil {
		model.logger.Debug("login rejected", "error", message.err)
		model.login.failed(Describe(message.err))
		return model, nil
	}
	if err := model.session.Init(message.identity); err != nil {
		model.logger.Error("saving session failed", "error", err)
		model.login.failed("Could not save the session: " + err.Error())
		return model, nil
	}

	model.logger.Info("logged in", "user_id", message.identity.ID, "role", string(message.identity.Role))
	model.login = newLoginForm()
	model.enterCatalog()
	return model, model.refreshCmd()
}

func (model Model) handleRegisterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		if model.register.submitting {
			return model, nil
		}
		model.screen = ScreenLogin
		return model, nil

	case key.Matches(message, model.keys.NextField):
		model.register.next()
		return model, nil

	case key.Matches(message, model.keys.PreviousField):
		model.register.previous()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.register.submitting {
			return model, nil
		}
		request, confirm := model.register.request()
		if err := request.Validate(confirm); err != nil {
			model.register.problems = problemsOf(err)
			model.register.err = ""
			return model, nil
		}
		model.register.submitting = true
		model.register.problems = nil
		model.register.err = ""
		service := model.service
		return model, func() tea.Msg {
			acknowledgement, err := service.Register(context.Background(), request)
			return registerResultMsg{email: request.Email, message: acknowledgement, err: err}
		}
	}

	if model.register.submitting {
		return model, nil
	}
	cmd, _ := model.register.update(message)
	return model, cmd
}

func (model Model) handleRegisterResult(message registerResultMsg) (tea.Model, tea.Cmd) {
	if model.screen != ScreenRegister || !model.register.submitting {
		return model, nil
	}
	model.register.submitting = false
	if message.err != nil {
		model.register.err = Describe(message.err)
		model.register.problems = problemsOf(message.err)
		return model, nil
	}

	model.login = newLoginForm()
	model.login.inputs[loginEmail].SetValue(message.email)
	model.login.setFocus(loginPassword)
	model.login.notice = "Registration successful. Please log in."
	if message.message != "" {
		model.login.notice = message.message + ". Please log in."
	}
	model.screen = ScreenLogin
	return model, nil
}

// --- Session lifecycle ---

// enterCatalog switches to the catalog screen for the session's
// identity with empty lists; the caller starts the first refresh.
func (model *Model) enterCatalog() {
	model.screen = ScreenCatalog
	model.refreshing = true
	model.snapshot = catalog.Snapshot{}
	model.capabilities = model.controller.Capabilities()
	model.table.Actions = model.rowActions()
	model.table.SetRows(nil)
	model.changes.Reset()
}

// leaveCatalog tears down the session and every piece of state derived
// from it, then shows the login screen.
func (model *Model) leaveCatalog() {
	if err := model.session.Teardown(); err != nil {
		model.logger.Warn("removing session failed", "error", err)
	}
	model.controller.Reset()
	model.changes.Reset()
	model.snapshot = catalog.Snapshot{}
	model.capabilities = catalog.Capabilities{}
	model.table.SetRows(nil)
	model.table.Actions = nil
	model.filter.Clear()
	model.table.Query = ""
	model.book = bookingflow.BookFlow{}
	model.form = bookingflow.EventForm{}
	model.bookings.Dismiss()
	model.pendingDelete = nil
	model.deleting = false
	model.alert = ""
	model.refreshing = false
	model.login = newLoginForm()
	model.screen = ScreenLogin
}

func (model Model) logout() (tea.Model, tea.Cmd) {
	model.logger.Info("logged out")
	model.leaveCatalog()
	model.login.notice = "Logged out."
	return model, nil
}

// expireSession handles a 401 from any authenticated call.
func (model Model) expireSession() (tea.Model, tea.Cmd) {
	email := ""
	if identity, ok := model.session.Identity(); ok {
		email = identity.Email
	}
	model.logger.Warn("session rejected by the service")
	model.leaveCatalog()
	model.login.inputs[loginEmail].SetValue(email)
	if email != "" {
		model.login.setFocus(loginPassword)
	}
	model.login.err = SessionExpiredMessage
	return model, nil
}

// --- Catalog refresh ---

func (model Model) refreshCmd() tea.Cmd {
	controller := model.controller
	return func() tea.Msg {
		return refreshDoneMsg{err: controller.Refresh(context.Background())}
	}
}

// applySnapshot pulls the controller's current state into the view and
// starts the heat animation for rows that changed.
func (model *Model) applySnapshot() tea.Cmd {
	model.snapshot = model.controller.Snapshot()
	model.capabilities = model.controller.Capabilities()
	model.table.Actions = model.rowActions()
	model.syncTable()
	return model.igniteChanges()
}

// syncTable re-derives the table rows from the snapshot and filter,
// keeping the cursor on the same event when it is still listed.
func (model *Model) syncTable() {
	selectedID := ""
	if selected, ok := model.table.Selected(); ok {
		selectedID = selected.ID
	}
	model.table.Query = model.filter.Input
	model.table.SetRows(catalog.Filter(model.snapshot.Events, model.filter.Input))
	if selectedID != "" {
		model.table.SelectFunc(func(event booking.Event) bool { return event.ID == selectedID })
	}
}

func (model *Model) igniteChanges() tea.Cmd {
	fingerprints := make(map[string]tui.Fingerprint, len(model.snapshot.Events))
	byID := make(map[string]booking.Event, len(model.snapshot.Events))
	for _, event := range model.snapshot.Events {
		fingerprints[event.ID] = eventFingerprint(event)
		byID[event.ID] = event
	}
	changed := model.changes.Observe(fingerprints)
	if len(changed) == 0 {
		return nil
	}

	now := model.clock.Now()
	for _, eventID := range changed {
		kind := tui.HeatPut
		if byID[eventID].Availability() == booking.NotAvailable {
			kind = tui.HeatRemove
		}
		model.heat.Ignite(eventID, kind, now)
	}
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return model.schedule(tui.HeatTickInterval, heatTickMsg{})
}
