// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/tui"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:    "events",
		Summary: "List, inspect, and manage events",
		Description: `List and inspect events. Administrators can also create, edit, and
delete them; for everyone else those commands are refused before any
request is sent.`,
		Subcommands: []*cli.Command{
			eventsListCommand(),
			eventsShowCommand(),
			eventsCreateCommand(),
			eventsEditCommand(),
			eventsDeleteCommand(),
		},
	}
}

type eventsListParams struct {
	connectionParams
	cli.JSONOutput
	Filter string `json:"filter" flag:"filter,f" desc:"only events whose title, description, date, or location contains this text"`
}

func eventsListCommand() *cli.Command {
	var params eventsListParams
	return &cli.Command{
		Name:    "list",
		Summary: "List events",
		Usage:   "eventdesk events list [flags]",
		Examples: []cli.Example{
			{Description: "Events at the community hall", Command: "eventdesk events list --filter hall"},
			{Description: "Machine-readable listing", Command: "eventdesk events list --json"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s (use --filter to search)", args[0])
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.requireSession(); err != nil {
				return err
			}

			controller := env.controller("events/list")
			if err := controller.RefreshEvents(ctx); err != nil {
				return cli.FromRemote(err)
			}
			events := controller.FilteredEvents(params.Filter)

			if done, err := params.EmitJSON(events); done {
				return err
			}
			if len(events) == 0 {
				if strings.TrimSpace(params.Filter) != "" {
					fmt.Fprintf(cli.Stdout, "No events match %q.\n", params.Filter)
				} else {
					fmt.Fprintln(cli.Stdout, "No events.")
				}
				return nil
			}
			writeEventTable(cli.Stdout, events)
			return nil
		},
	}
}

type eventsShowParams struct {
	connectionParams
	cli.JSONOutput
}

func eventsShowCommand() *cli.Command {
	var params eventsShowParams
	return &cli.Command{
		Name:    "show",
		Summary: "Show one event",
		Usage:   "eventdesk events show <event-id> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			eventID, err := singleEventID(args, "eventdesk events show <event-id>")
			if err != nil {
				return err
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.requireSession(); err != nil {
				return err
			}

			event, err := env.client.Event(ctx, env.session.Token(), eventID)
			if err != nil {
				return cli.FromRemote(err)
			}
			if done, err := params.EmitJSON(event); done {
				return err
			}

			fmt.Fprintln(cli.Stdout, event.Title)
			fmt.Fprintf(cli.Stdout, "  %s · %s\n", event.DateOnly(), event.Location)
			fmt.Fprintf(cli.Stdout, "  %d of %d seats remaining (%s)\n", event.RemainingSeats, event.Capacity, event.Availability())
			fmt.Fprintf(cli.Stdout, "  id: %s\n", event.ID)
			if strings.TrimSpace(event.Description) == "" {
				return nil
			}
			fmt.Fprintln(cli.Stdout)
			if width := stdoutTerminalWidth(); width > 0 {
				theme, _ := tui.ThemeByName(env.config.Viewer.Theme)
				fmt.Fprintln(cli.Stdout, tui.RenderMarkdown(event.Description, theme, min(width, 100)))
			} else {
				fmt.Fprintln(cli.Stdout, event.Description)
			}
			return nil
		},
	}
}

// eventFieldParams are the create/edit fields. On edit, only flags
// that were given replace the current values.
type eventFieldParams struct {
	Title       string `json:"title" flag:"title" desc:"event title"`
	Description string `json:"description" flag:"description" desc:"description (markdown)"`
	Date        string `json:"date" flag:"date" desc:"date, YYYY-MM-DD"`
	Location    string `json:"location" flag:"location" desc:"where the event takes place"`
	Capacity    int    `json:"capacity" flag:"capacity" desc:"total seats (at least 1)"`
}

func (fields eventFieldParams) eventFields() booking.EventFields {
	return booking.EventFields{
		Title:       strings.TrimSpace(fields.Title),
		Description: strings.TrimSpace(fields.Description),
		Date:        strings.TrimSpace(fields.Date),
		Location:    strings.TrimSpace(fields.Location),
		Capacity:    fields.Capacity,
	}
}

type eventsCreateParams struct {
	connectionParams
	cli.JSONOutput
	eventFieldParams
}

func eventsCreateCommand() *cli.Command {
	var params eventsCreateParams
	return &cli.Command{
		Name:    "create",
		Summary: "Create an event (administrators)",
		Usage:   "eventdesk events create --title <title> --date <YYYY-MM-DD> --location <where> --capacity <n> [flags]",
		Examples: []cli.Example{
			{Command: "eventdesk events create --title Launch --date 2025-01-01 --location HQ --capacity 50"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			created, err := env.controller("events/create").RequestCreate(ctx, params.eventFields())
			if err != nil {
				return cli.FromRemote(err)
			}
			if done, err := params.EmitJSON(created); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Created %q (%s) with %d seats.\n", created.Title, created.ID, created.RemainingSeats)
			return nil
		},
	}
}

type eventsEditParams struct {
	connectionParams
	cli.JSONOutput
	eventFieldParams
}

func eventsEditCommand() *cli.Command {
	var params eventsEditParams
	var flagSet *pflag.FlagSet
	return &cli.Command{
		Name:    "edit",
		Summary: "Edit an event (administrators)",
		Description: `Edit an event. Only the fields given as flags change; the rest keep
their current values. Capacity cannot drop below the seats already
booked.`,
		Usage: "eventdesk events edit <event-id> [flags]",
		Examples: []cli.Example{
			{Description: "Move an event", Command: "eventdesk events edit e1 --location 'Main Hall' --date 2026-12-01"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("edit", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			eventID, err := singleEventID(args, "eventdesk events edit <event-id> [flags]")
			if err != nil {
				return err
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			controller := env.controller("events/edit")
			current, err := controller.LoadEventForEdit(ctx, eventID)
			if err != nil {
				return cli.FromRemote(err)
			}

			fields := current.Fields()
			given := params.eventFields()
			if flagSet.Changed("title") {
				fields.Title = given.Title
			}
			if flagSet.Changed("description") {
				fields.Description = given.Description
			}
			if flagSet.Changed("date") {
				fields.Date = given.Date
			}
			if flagSet.Changed("location") {
				fields.Location = given.Location
			}
			if flagSet.Changed("capacity") {
				fields.Capacity = given.Capacity
			}
			if fields == current.Fields() {
				return cli.Validation("nothing to change\n\nPass at least one of --title, --description, --date, --location, --capacity.")
			}

			updated, err := controller.RequestEdit(ctx, eventID, fields)
			if err != nil {
				return cli.FromRemote(err)
			}
			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "Saved %q: %d of %d seats remaining.\n", updated.Title, updated.RemainingSeats, updated.Capacity)
			return nil
		},
	}
}

type eventsDeleteParams struct {
	connectionParams
	Yes bool `json:"-" flag:"yes,y" desc:"delete without asking for confirmation"`
}

func eventsDeleteCommand() *cli.Command {
	var params eventsDeleteParams
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete an event (administrators)",
		Description: `Delete an event and every booking made for it. Asks for confirmation
unless --yes is given.`,
		Usage:  "eventdesk events delete <event-id> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			eventID, err := singleEventID(args, "eventdesk events delete <event-id> [flags]")
			if err != nil {
				return err
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			controller := env.controller("events/delete")
			event, err := controller.LoadEventForEdit(ctx, eventID)
			if err != nil {
				return cli.FromRemote(err)
			}

			if !params.Yes {
				fmt.Fprintf(stderr, "Delete %q (%s, %s)? Its bookings are removed too. [y/N] ",
					event.Title, event.DateOnly(), event.Location)
				if !confirmed(stdin) {
					fmt.Fprintln(stderr, "Cancelled.")
					return &cli.ExitError{Code: 1}
				}
			}

			if err := controller.RequestDelete(ctx, eventID); err != nil {
				return cli.FromRemote(err)
			}
			fmt.Fprintf(cli.Stdout, "Deleted %q.\n", event.Title)
			return nil
		},
	}
}

// confirmed reads one line and reports whether it is a yes.
func confirmed(input io.Reader) bool {
	line, _ := bufio.NewReader(input).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func singleEventID(args []string, usage string) (string, error) {
	if len(args) < 1 {
		return "", cli.Validation("event id is required\n\nUsage: %s", usage)
	}
	if len(args) > 1 {
		return "", cli.Validation("unexpected argument: %s", args[1])
	}
	eventID := strings.TrimSpace(args[0])
	if eventID == "" {
		return "", cli.Validation("event id is required")
	}
	return eventID, nil
}
