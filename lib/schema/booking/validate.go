// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package booking

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used in forms and tables.
const DateLayout = "2006-01-02"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// FieldProblem is one failed local validation check.
type FieldProblem struct {
	// Field names the input ("title", "seats", "capacity").
	Field string

	// Message is the guidance shown next to the input.
	Message string
}

// ValidationError reports local input that failed validation before
// any network call was attempted. It is always recoverable: the caller
// re-renders the form with guidance and lets the user try again.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Problems))
	for index, problem := range e.Problems {
		messages[index] = problem.Message
	}
	return strings.Join(messages, "; ")
}

// Problem returns the message for a field, or "" if the field passed.
func (e *ValidationError) Problem(field string) string {
	for _, problem := range e.Problems {
		if problem.Field == field {
			return problem.Message
		}
	}
	return ""
}

// validationProblems accumulates problems and produces a
// *ValidationError only if at least one was recorded.
type validationProblems []FieldProblem

func (problems *validationProblems) add(field, message string) {
	*problems = append(*problems, FieldProblem{Field: field, Message: message})
}

func (problems validationProblems) err() error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// ParseDate accepts a calendar date ("2006-01-02") or an RFC 3339
// timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

// DateOnly returns the calendar date of a date or timestamp in
// DateLayout. A value that starts with a date but carries some other
// suffix yields that date. Anything unparseable is returned unchanged.
func DateOnly(value string) string {
	if parsed, err := ParseDate(value); err == nil {
		return parsed.Format(DateLayout)
	}
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > len(DateLayout) {
		if parsed, err := time.Parse(DateLayout, trimmed[:len(DateLayout)]); err == nil {
			return parsed.Format(DateLayout)
		}
	}
	return value
}

// Validate checks the fields locally. Description is optional.
func (fields EventFields) Validate() error {
	var problems validationProblems
	if strings.TrimSpace(fields.Title) == "" {
		problems.add("title", "title is required")
	}
	if strings.TrimSpace(fields.Date) == "" {
		problems.add("date", "date is required")
	} else if _, err := ParseDate(fields.Date); err != nil {
		problems.add("date", "date must be a calendar date (YYYY-MM-DD)")
	}
	if strings.TrimSpace(fields.Location) == "" {
		problems.add("location", "location is required")
	}
	if fields.Capacity < 1 {
		problems.add("capacity", "capacity must be at least 1")
	}
	return problems.err()
}

// ValidateSeats rejects seat counts below one.
func ValidateSeats(seats int) error {
	if seats < 1 {
		return &ValidationError{Problems: []FieldProblem{{
			Field:   "seats",
			Message: "seats must be at least 1",
		}}}
	}
	return nil
}

// Validate checks a registration locally. confirm is the repeated
// password, which never leaves the client.
func (request RegisterRequest) Validate(confirm string) error {
	var problems validationProblems
	if strings.TrimSpace(request.Name) == "" {
		problems.add("name", "name is required")
	}
	if strings.TrimSpace(request.Email) == "" {
		problems.add("email", "email is required")
	} else if !strings.Contains(request.Email, "@") {
		problems.add("email", "email must contain @")
	}
	if !mobilePattern.MatchString(request.Mobile) {
		problems.add("mobile", "mobile number must be exactly 10 digits")
	}
	if len(request.Password) < MinPasswordLength {
		problems.add("password", "password must be at least 6 characters")
	}
	if request.Password != confirm {
		problems.add("confirm", "passwords do not match")
	}
	return problems.err()
}

// Validate checks that both login fields are present.
func (request LoginRequest) Validate() error {
	var problems validationProblems
	if strings.TrimSpace(request.Email) == "" {
		problems.add("email", "email is required")
	}
	if request.Password == "" {
		problems.add("password", "password is required")
	}
	return problems.err()
}
