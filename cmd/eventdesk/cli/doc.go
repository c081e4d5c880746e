// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the eventdesk CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct (or a
// [pflag.FlagSet] factory), and a Run function. Commands are assembled
// into a tree in cmd/eventdesk and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// Parameter structs declare flags with struct tags (see [BindFlags]).
// Embedding [JSONOutput] adds a --json flag and [JSONOutput.EmitJSON].
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are categorized with [ToolError]
// constructors ([Validation], [NotFound], [Forbidden], [Transient],
// [Internal]); [FromRemote] classifies booking service failures.
// [ExitError] signals a handled non-zero exit.
package cli
