// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/eventdesk/lib/bookingclient"
	"github.com/bureau-foundation/eventdesk/lib/bookingmock"
	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
	"github.com/bureau-foundation/eventdesk/lib/testutil"
)

func TestServeSeededAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var banner bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, options{seed: true, secret: "test-secret"}, testutil.Logger(t), &banner)
	}()

	client, err := bookingclient.New("http://" + listener.Addr().String())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	identity, err := client.Login(context.Background(), booking.LoginRequest{
		Email:    bookingmock.DemoUserEmail,
		Password: bookingmock.DemoUserPassword,
	})
	if err != nil {
		t.Fatalf("login against the seeded mock: %v", err)
	}
	events, err := client.Events(context.Background(), identity.Token)
	if err != nil {
		t.Fatalf("listing events: %v", err)
	}
	if len(events) == 0 {
		t.Error("seeded mock returned no events")
	}

	cancel()
	if err := testutil.RequireReceive(t, done, 10*time.Second, "serve returning after cancel"); err != nil {
		t.Errorf("serve: %v", err)
	}
	if !strings.Contains(banner.String(), bookingmock.DemoAdminEmail) {
		t.Errorf("banner = %q, want the demo credentials", banner.String())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	if err := run([]string{"--log-level", "chatty"}); err == nil {
		t.Error("run accepted an invalid log level")
	}
	if err := run([]string{"--no-such-flag"}); err == nil {
		t.Error("run accepted an unknown flag")
	}
}
