// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/bookingui"
	"github.com/bureau-foundation/eventdesk/lib/tui"
	"github.com/bureau-foundation/eventdesk/lib/version"
)

type viewerParams struct {
	connectionParams
	Theme string `json:"-" flag:"theme" desc:"color theme (overrides viewer.theme)"`
}

func viewerCommand() *cli.Command {
	var params viewerParams
	return &cli.Command{
		Name:    "viewer",
		Summary: "Open the interactive terminal UI",
		Description: `Open the interactive terminal UI: log in or register, browse and
filter events, book seats, review bookings and, as an administrator,
create, edit, and delete events.

Background warnings and errors appear in the status line. Pass
--log-output to also capture every record as JSON in a file.`,
		Usage: "eventdesk viewer [flags]",
		Examples: []cli.Example{
			{Command: "eventdesk viewer"},
			{Description: "Light theme, with a debug log", Command: "eventdesk viewer --theme light --log-output /tmp/eventdesk.log"},
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

			themeName := env.config.Viewer.Theme
			if params.Theme != "" {
				themeName = params.Theme
			}
			theme, err := tui.ThemeByName(themeName)
			if err != nil {
				return cli.Validation("%w", err).WithHint("Available themes: " + strings.Join(tui.ThemeNames(), ", "))
			}

			// The alt screen owns the terminal, so records go to the
			// status line rather than stderr.
			tuiHandler := bookingui.NewTUILogHandler(max(env.config.LogLevel(), slog.LevelWarn))
			logger := env.logger(tuiHandler)
			logger.Debug("viewer starting", "version", version.Info(), "service", env.client.BaseURL(), "theme", themeName)

			model := bookingui.NewModel(bookingui.Config{
				Service: env.client,
				Session: env.session,
				Theme:   theme,
				Logger:  logger,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			tuiHandler.SetProgram(program)

			if _, err := program.Run(); err != nil {
				return cli.Internal("viewer: %w", err)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(_ context.Context, args []string) error {
			fmt.Fprintf(cli.Stdout, "eventdesk %s\n", version.Full())
			return nil
		},
	}
}
