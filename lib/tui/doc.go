// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// eventdesk's interactive viewer. Built on bubbletea (Elm architecture)
// and lipgloss, these components handle the patterns that recur across
// screens: the column/row/action table projection, overlay splicing for
// modals, substring match highlighting, change animation, markdown
// rendering, and ANSI-aware text manipulation.
//
// Nothing here knows about the booking service. Screens own their data
// and describe it to these components through [Column] and [Action]
// descriptors, plain strings, and a [Theme].
package tui
