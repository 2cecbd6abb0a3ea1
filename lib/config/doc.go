// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves guildwarden's runtime configuration.
//
// Identifier configuration comes from the environment, read once at
// startup: the bot token, the support role, the ticket category, the
// new-member category, an optional log channel, and an optional
// comma-separated list of verified role IDs. [FromEnv] parses and
// validates all of them together and never partially succeeds: every
// missing or invalid required field is collected into a single
// [*ConfigError] so the operator sees the full list before the process
// exits, instead of fixing one variable per restart.
//
// Optional identifiers degrade a specific feature rather than blocking
// startup. An unparseable LOG_CHANNEL_ID leaves the log channel unset
// (it can still be set at runtime by the set-log-channel command) and
// surfaces as a startup warning. An absent VERIFIED_ROLE_IDS disables
// the already-verified skip. A *present* VERIFIED_ROLE_IDS must parse
// completely and yield at least one role ID — explicit configuration
// that resolves to nothing is an error, not an empty feature.
//
// Operator-editable message text (the ticket-panel channel named in
// guidance messages, the bot presence line, the intake prompt timeout)
// lives in an optional YAML messages file loaded by [LoadMessages],
// with defaults from [DefaultMessages].
package config
