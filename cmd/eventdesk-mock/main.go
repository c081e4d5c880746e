// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Eventdesk-mock runs the in-memory booking service on a TCP address so
// eventdesk can be used without the real backend. State lives only in
// memory and is lost on exit.
//
// With --seed, a demo administrator, a demo user, and a few events
// (one of them sold out) are created at startup and the credentials are
// printed to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/eventdesk/cmd/eventdesk/cli"
	"github.com/bureau-foundation/eventdesk/lib/bookingmock"
	"github.com/bureau-foundation/eventdesk/lib/process"
	"github.com/bureau-foundation/eventdesk/lib/version"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

type options struct {
	listen      string
	secret      string
	seed        bool
	logLevel    string
	showVersion bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var opts options
	flagSet := pflag.NewFlagSet("eventdesk-mock", pflag.ContinueOnError)
	flagSet.StringVar(&opts.listen, "listen", "127.0.0.1:8080", "address to serve the booking API on")
	flagSet.StringVar(&opts.secret, "secret", "", "token signing secret (random when empty; tokens then expire on restart)")
	flagSet.BoolVar(&opts.seed, "seed", false, "create demo accounts and events at startup")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return cli.Validation("%v", err)
	}

	if opts.showVersion {
		version.Print("eventdesk-mock")
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return cli.Validation("invalid --log-level %q", opts.logLevel)
	}
	logger := cli.NewCommandLogger(level)

	listener, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return cli.Internal("listening on %s: %w", opts.listen, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, listener, opts, logger, os.Stderr)
}

// serve runs the mock service on listener until ctx is cancelled, then
// drains in-flight requests. The listener is closed on return.
func serve(ctx context.Context, listener net.Listener, opts options, logger *slog.Logger, banner io.Writer) error {
	server := bookingmock.New(bookingmock.Config{
		Secret: opts.secret,
		Logger: logger,
	})
	if opts.seed {
		if err := server.Seed(); err != nil {
			listener.Close()
			return cli.Internal("seeding demo data: %w", err)
		}
		fmt.Fprintf(banner, "Demo administrator: %s / %s\n", bookingmock.DemoAdminEmail, bookingmock.DemoAdminPassword)
		fmt.Fprintf(banner, "Demo user:          %s / %s\n", bookingmock.DemoUserEmail, bookingmock.DemoUserPassword)
	}

	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- httpServer.Serve(listener)
	}()
	logger.Info("booking mock listening",
		"address", "http://"+listener.Addr().String(),
		"seeded", opts.seed,
		"version", version.Info(),
	)

	select {
	case err := <-serveDone:
		return cli.Internal("serving: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return cli.Internal("shutdown: %w", err)
	}
	if err := <-serveDone; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.Internal("serving: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
