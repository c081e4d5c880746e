// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the eventdesk
// client and its commands.
//
// Configuration is loaded from a single file named by a --config flag
// (via [Resolve] or [LoadFile]) or by the EVENTDESK_CONFIG environment
// variable (via [Load]). Without either, [Default] applies: the service
// at http://localhost:8080, info logging, and the dark theme. There is
// no ~/.config discovery and no automatic file search.
//
// Files are YAML, or JSON with comments when the name ends in .json or
// .jsonc. Environment-specific sections (development, staging,
// production) override base values when [Config].Environment matches.
// Production is stricter: debug logging is lowered to info unless a
// production section says otherwise, and the service must use https.
//
// Variable expansion is performed on service.base_url, session.file,
// and log.output after loading: ${HOME} and ${VAR:-default} patterns
// are expanded. No other environment variables override config values.
//
// This package depends on no other eventdesk packages.
package config
