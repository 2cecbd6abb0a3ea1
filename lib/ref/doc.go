// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable identity references for
// Discord entities: guilds, channels, roles, and users.
//
// Discord identifies everything by snowflake — a 64-bit unsigned integer
// transmitted as a decimal string. Handling snowflakes as bare strings
// makes it easy to pass a role ID where a channel ID is expected; these
// value types make that a compile error.
//
// All constructors validate their inputs and return errors for anything
// that is not a positive base-10 integer. Once constructed, a ref is
// immutable. The zero value of every type is invalid; use IsZero to
// check. Snowflakes enter the program from exactly two places — the
// environment (parsed once at startup by lib/config) and API payloads
// (parsed at the messaging boundary) — and travel as ref types from
// there on.
//
// Channel, role, and user refs expose Mention accessors that render the
// Discord message-markup form ("<#id>", "<@&id>", "<@id>") so that
// message-building code never assembles mention syntax by hand.
package ref
