// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// stdoutTerminalWidth returns the terminal width when stdout is a
// terminal, or 0 when output is piped or captured.
func stdoutTerminalWidth() int {
	file, ok := cli.Stdout.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func seatsColumn(event booking.Event) string {
	return fmt.Sprintf("%d/%d", event.RemainingSeats, event.Capacity)
}

func writeEventTable(w io.Writer, events []booking.Event) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tLOCATION\tSEATS\tAVAILABILITY")
	for _, event := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			event.ID, event.Title, event.DateOnly(), event.Location, seatsColumn(event), event.Availability())
	}
	tw.Flush()
}

func writeBookingTable(w io.Writer, bookings []booking.Booking, showRequester bool) {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	header := "EVENT\tDATE\tLOCATION\tSEATS\tBOOKED"
	if showRequester {
		header += "\tREQUESTER"
	}
	fmt.Fprintln(tw, header)
	for _, entry := range bookings {
		row := []string{
			entry.Event.Title,
			booking.DateOnly(entry.Event.Date),
			entry.Event.Location,
			fmt.Sprint(entry.Seats),
			entry.BookedAt.Local().Format("2006-01-02 15:04"),
		}
		if showRequester {
			row = append(row, fmt.Sprintf("%s <%s>", entry.User.Name, entry.User.Email))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
