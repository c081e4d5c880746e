// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

type loginParams struct {
	connectionParams
	PasswordFile string `json:"-" flag:"password-file" desc:"path to file containing the password, or - to prompt (default: prompt)"`
}

func loginCommand() *cli.Command {
	var params loginParams
	return &cli.Command{
		Name:    "login",
		Summary: "Log in and save the session",
		Description: `Log in to the booking service and save the session locally.

After login, every other command uses the saved session. The session
file holds the bearer token, so it is written with mode 0600. Its
location is session.file from the config, else $EVENTDESK_SESSION_FILE,
else $XDG_CONFIG_HOME/eventdesk/session.json.`,
		Usage: "eventdesk login <email> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "eventdesk login ada@example.com",
			},
			{
				Description: "Log in with the password from a file",
				Command:     "eventdesk login ada@example.com --password-file ~/.eventdesk-password",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return cli.Validation("email is required\n\nUsage: eventdesk login <email> [flags]")
			}
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}

			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			password, err := readPassword(params.PasswordFile, "Password: ")
			if err != nil {
				return err
			}

			request := booking.LoginRequest{Email: strings.TrimSpace(args[0]), Password: password}
			if err := request.Validate(); err != nil {
				return cli.FromRemote(err)
			}
			identity, err := env.client.Login(ctx, request)
			if bookingclient.IsUnauthorized(err) {
				// Wrong credentials, not an expired session.
				return &cli.ToolError{Category: cli.CategoryForbidden, Err: err}
			}
			if err != nil {
				return cli.FromRemote(err)
			}
			if err := env.session.Init(identity); err != nil {
				return cli.Internal("saving session: %w", err)
			}

			env.commandLogger("login").Debug("session saved", "path", env.session.Path(), "role", identity.Role)
			fmt.Fprintf(stderr, "Logged in as %s (%s)\n", identity.DisplayName(), identity.Role)
			fmt.Fprintf(stderr, "Session saved to %s\n", env.session.Path())
			return nil
		},
	}
}

type logoutParams struct {
	connectionParams
}

func logoutCommand() *cli.Command {
	var params logoutParams
	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved session",
		Usage:   "eventdesk logout [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.session.Teardown(); err != nil {
				return cli.Internal("removing session: %w", err)
			}
			fmt.Fprintln(stderr, "Logged out.")
			return nil
		},
	}
}

type registerParams struct {
	connectionParams
	Name         string `json:"name" flag:"name" desc:"full name (required)"`
	Email        string `json:"email" flag:"email" desc:"email address (required)"`
	Mobile       string `json:"mobile" flag:"mobile" desc:"10-digit mobile number (required)"`
	PasswordFile string `json:"-" flag:"password-file" desc:"path to file containing the password, or - to prompt (default: prompt twice)"`
}

func registerCommand() *cli.Command {
	var params registerParams
	return &cli.Command{
		Name:    "register",
		Summary: "Create an account",
		Description: `Create a regular account on the booking service.

The password must be at least 6 characters. When prompted
interactively it is asked for twice and both entries must match.
Registration does not log in; run "eventdesk login" afterwards.`,
		Usage: "eventdesk register --name <name> --email <email> --mobile <digits> [flags]",
		Examples: []cli.Example{
			{
				Command: "eventdesk register --name 'Uma User' --email uma@example.com --mobile 5550000002",
			},
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

			password, err := readPassword(params.PasswordFile, "Password: ")
			if err != nil {
				return err
			}
			confirm := password
			if params.PasswordFile == "" || params.PasswordFile == "-" {
				confirm, err = readPassword("-", "Confirm password: ")
				if err != nil {
					return err
				}
			}

			request := booking.RegisterRequest{
				Name:     strings.TrimSpace(params.Name),
				Email:    strings.TrimSpace(params.Email),
				Mobile:   strings.TrimSpace(params.Mobile),
				Password: password,
			}
			if err := request.Validate(confirm); err != nil {
				return cli.FromRemote(err)
			}
			message, err := env.client.Register(ctx, request)
			if err != nil {
				return cli.FromRemote(err)
			}
			if message == "" {
				message = "Registration successful"
			}
			fmt.Fprintln(stderr, message)
			fmt.Fprintf(stderr, "Run 'eventdesk login %s' to log in.\n", request.Email)
			return nil
		},
	}
}

type whoamiParams struct {
	connectionParams
	cli.JSONOutput
}

// whoamiResult is the --json shape of whoami. The token is omitted.
type whoamiResult struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  booking.Role `json:"role"`
	Scope string       `json:"bookings_scope"`
}

func whoamiCommand() *cli.Command {
	var params whoamiParams
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in identity",
		Usage:   "eventdesk whoami [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := params.open()
			if err != nil {
				return err
			}
			defer env.close()

			identity, ok := env.session.Identity()
			if !ok {
				return env.requireSession()
			}
			result := whoamiResult{
				ID:    identity.ID,
				Name:  identity.Name,
				Email: identity.Email,
				Role:  identity.Role,
				Scope: booking.ScopeFor(identity.Role).String(),
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "%s <%s> (%s)\n", identity.DisplayName(), identity.Email, identity.Role)
			return nil
		},
	}
}

// readPassword reads a password. If passwordFile is empty or "-",
// prompts on the terminal with echo disabled. Otherwise reads the file,
// stripping trailing newlines.
func readPassword(passwordFile, prompt string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", cli.Internal("reading %s: %w", passwordFile, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", cli.Validation("file %s is empty (after stripping trailing newlines)", passwordFile)
		}
		return password, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", cli.Validation("no terminal available for interactive password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, prompt)
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", cli.Internal("reading password: %w", err)
	}
	return string(passwordBytes), nil
}
