// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit code.
type exitCoder interface {
	ExitCode() int
}

// silentExit is implemented by errors whose command already printed
// everything the user needs.
type silentExit interface {
	Silent() bool
}

// Fatal reports err on stderr and exits. The exit code comes from the
// first error in the chain with an ExitCode method, else 1. Errors that
// report Silent() suppress the "error:" line.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes err to w the way Fatal does and returns the exit code
// Fatal would use. A nil error reports nothing and returns 0.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var silent silentExit
	if !errors.As(err, &silent) || !silent.Silent() {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
