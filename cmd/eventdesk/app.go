// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/catalog"
	"github.com/bureau-foundation/eventdesk/lib/config"
	"github.com/bureau-foundation/eventdesk/lib/session"
)

// stdin supplies confirmation answers. Tests replace it.
var stdin io.Reader = os.Stdin

// stderr receives prompts and progress lines. Tests replace it.
var stderr io.Writer = os.Stderr

// connectionParams is embedded by every command that talks to the
// booking service or reads the saved session.
type connectionParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"config file (default: $EVENTDESK_CONFIG, else built-in defaults)"`
	LogOutput  string `json:"-" flag:"log-output" desc:"also write JSON log records to this file (overrides log.output)"`
}

// environment is everything a command needs once its flags are parsed.
type environment struct {
	config  *config.Config
	session *session.Store
	client  *bookingclient.Client

	// logFile, when non-nil, receives every record in addition to the
	// command's primary handler.
	logFile  slog.Handler
	closeLog func()
}

// open loads the configuration, the saved session, and a service
// client. The caller must call close.
func (params *connectionParams) open() (*environment, error) {
	cfg, err := config.Resolve(params.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}

	sessionPath := cfg.Session.File
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	store, err := session.Open(sessionPath)
	if err != nil {
		return nil, cli.Internal("%w", err).
			WithHint("Run 'eventdesk logout' to discard the saved session.")
	}

	client, err := bookingclient.New(cfg.Service.BaseURL)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	env := &environment{config: cfg, session: store, client: client, closeLog: func() {}}

	logOutput := params.LogOutput
	if logOutput == "" {
		logOutput = cfg.Log.Output
	}
	if logOutput != "" {
		handler, closeFile, err := cli.OpenLogFile(logOutput)
		if err != nil {
			return nil, cli.Validation("cannot open log file %s: %w", logOutput, err)
		}
		env.logFile = handler
		env.closeLog = closeFile
	}
	return env, nil
}

func (env *environment) close() {
	env.closeLog()
}

// logger returns a logger writing to primary and, when configured, the
// log file.
func (env *environment) logger(primary slog.Handler) *slog.Logger {
	if env.logFile == nil {
		return slog.New(primary)
	}
	return slog.New(cli.FanoutHandler{primary, env.logFile})
}

// commandLogger is the stderr logger at the configured level.
func (env *environment) commandLogger(command string) *slog.Logger {
	return env.logger(cli.NewStderrHandler(env.config.LogLevel())).With("command", command)
}

// controller returns a catalog controller over the environment's
// client and session.
func (env *environment) controller(command string) *catalog.Controller {
	return catalog.New(env.client, env.session, env.commandLogger(command))
}

// requireSession fails with guidance when nobody is logged in.
func (env *environment) requireSession() error {
	if !env.session.Authenticated() {
		return cli.Forbidden("not logged in").
			WithHint("Run 'eventdesk login <email>' first.")
	}
	return nil
}
