// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// eventdesk is the command-line client for the event booking service:
// log in, browse and filter events, book seats, review bookings, and
// (for administrators) manage the event catalog. "eventdesk viewer"
// opens the same operations as an interactive terminal UI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/process"
)

func main() {
	// Commands that print their own output (like a declined delete)
	// return a silent ExitError; process.Fatal only sets the code.
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root().Execute(ctx, os.Args[1:])
}

// root builds the complete command tree.
func root() *cli.Command {
	return &cli.Command{
		Name: "eventdesk",
		Description: `eventdesk: browse events and book seats.

Log in once with "eventdesk login"; the session is saved locally and
used by every other command until "eventdesk logout". Administrators
can also create, edit, and delete events.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			registerCommand(),
			whoamiCommand(),
			eventsCommand(),
			bookCommand(),
			bookingsCommand(),
			viewerCommand(),
			versionCommand(),
		},
	}
}
