// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bookingui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/tui"
)

// inputWidth is the visible width of every text input.
const inputWidth = 40

// newInput creates an unfocused single-line input. The cursor does not
// blink: a blinking cursor keeps a timer running for the life of the
// program.
func newInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 256
	input.Width = inputWidth
	input.Cursor.SetMode(cursor.CursorStatic)
	return input
}

func newPasswordInput(placeholder string) textinput.Model {
	input := newInput(placeholder)
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// inputSet is an ordered group of inputs with one focused.
type inputSet struct {
	labels []string
	fields []string
	inputs []textinput.Model
	focus  int
}

func (set *inputSet) setFocus(index int) {
	count := len(set.inputs)
	set.focus = ((index % count) + count) % count
	for position := range set.inputs {
		if position == set.focus {
			set.inputs[position].Focus()
		} else {
			set.inputs[position].Blur()
		}
	}
}

func (set *inputSet) next()     { set.setFocus(set.focus + 1) }
func (set *inputSet) previous() { set.setFocus(set.focus - 1) }

// update routes a key to the focused input and reports whether its
// value changed.
func (set *inputSet) update(message tea.Msg) (tea.Cmd, bool) {
	before := set.inputs[set.focus].Value()
	var cmd tea.Cmd
	set.inputs[set.focus], cmd = set.inputs[set.focus].Update(message)
	return cmd, set.inputs[set.focus].Value() != before
}

func (set *inputSet) value(index int) string {
	return set.inputs[index].Value()
}

// view renders each input under its label, followed by the field's
// problem, if any.
func (set *inputSet) view(theme tui.Theme, problems map[string]string) []string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	focusedStyle := lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
	problemStyle := lipgloss.NewStyle().Foreground(theme.ErrorText)

	var lines []string
	for index, input := range set.inputs {
		label := labelStyle.Render(set.labels[index])
		marker := "  "
		if index == set.focus {
			label = focusedStyle.Render(set.labels[index])
			marker = focusedStyle.Render("▸ ")
		}
		lines = append(lines, label, marker+input.View())
		if problem := problems[set.fields[index]]; problem != "" {
			lines = append(lines, "  "+problemStyle.Render(problem))
		}
	}
	return lines
}

// problemsOf indexes a ValidationError's problems by field.
func problemsOf(err error) map[string]string {
	var validation *booking.ValidationError
	if !errors.As(err, &validation) {
		return nil
	}
	problems := make(map[string]string, len(validation.Problems))
	for _, problem := range validation.Problems {
		problems[problem.Field] = problem.Message
	}
	return problems
}

const (
	loginEmail = iota
	loginPassword
)

// loginForm is the state of the login screen.
type loginForm struct {
	inputSet
	submitting bool
	err        string
	notice     string
}

func newLoginForm() loginForm {
	form := loginForm{inputSet: inputSet{
		labels: []string{"Email", "Password"},
		fields: []string{"email", "password"},
		inputs: []textinput.Model{newInput("you@example.com"), newPasswordInput("password")},
	}}
	form.setFocus(loginEmail)
	return form
}

func (form *loginForm) request() booking.LoginRequest {
	return booking.LoginRequest{
		Email:    strings.TrimSpace(form.value(loginEmail)),
		Password: form.value(loginPassword),
	}
}

// failed records a rejected login: the email stays, the password is
// cleared and focused for the next attempt.
func (form *loginForm) failed(message string) {
	form.submitting = false
	form.err = message
	form.inputs[loginPassword].SetValue("")
	form.setFocus(loginPassword)
}

const (
	registerName = iota
	registerEmail
	registerMobile
	registerPassword
	registerConfirm
)

// registerForm is the state of the registration screen.
type registerForm struct {
	inputSet
	submitting bool
	problems   map[string]string
	err        string
}

func newRegisterForm() registerForm {
	form := registerForm{inputSet: inputSet{
		labels: []string{"Name", "Email", "Mobile (10 digits)", "Password", "Confirm password"},
		fields: []string{"name", "email", "mobile", "password", "confirm"},
		inputs: []textinput.Model{
			newInput("Full name"),
			newInput("you@example.com"),
			newInput("5551234567"),
			newPasswordInput("at least 6 characters"),
			newPasswordInput("repeat password"),
		},
	}}
	form.setFocus(registerName)
	return form
}

func (form *registerForm) request() (booking.RegisterRequest, string) {
	return booking.RegisterRequest{
		Name:     strings.TrimSpace(form.value(registerName)),
		Email:    strings.TrimSpace(form.value(registerEmail)),
		Mobile:   strings.TrimSpace(form.value(registerMobile)),
		Password: form.value(registerPassword),
	}, form.value(registerConfirm)
}

// renderAuthScreen centers a titled panel of lines on the screen.
func renderAuthScreen(theme tui.Theme, width, height int, title string, lines []string) string {
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(1, 3).
		Render(titleStyle.Render(title) + "\n\n" + strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

func statusLines(theme tui.Theme, busy, err, notice string) []string {
	var lines []string
	if busy != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.FaintText).Render(busy))
	}
	if err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.ErrorText).Render(err))
	}
	if notice != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.NoticeText).Render(notice))
	}
	return lines
}

func (model Model) renderLogin() string {
	lines := model.login.view(model.theme, nil)
	busy := ""
	if model.login.submitting {
		busy = "Logging in…"
	}
	lines = append(lines, statusLines(model.theme, busy, model.login.err, model.login.notice)...)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText).
		Render("Enter log in  Tab next field  C-n register  C-c quit")
	lines = append(lines, "", help)
	return renderAuthScreen(model.theme, model.width, model.height, "eventdesk · Log in", lines)
}

func (model Model) renderRegister() string {
	lines := model.register.view(model.theme, model.register.problems)
	busy := ""
	if model.register.submitting {
		busy = "Creating account…"
	}
	lines = append(lines, statusLines(model.theme, busy, model.register.err, "")...)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText).
		Render("Enter register  Tab next field  Esc back to login")
	lines = append(lines, "", help)
	return renderAuthScreen(model.theme, model.width, model.height, "eventdesk · Register", lines)
}
