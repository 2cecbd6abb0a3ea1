// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Package intake holds submitted ticket-intake form data while a ticket
// awaits human verification.
//
// [Record] is one user's submitted form for one ticket channel.
// [Store] maps channel IDs to the most recent Record for that channel:
// a new submission in the same channel overwrites the prior one
// (last-write-wins, no merge). Records live only in process memory — a
// restart loses them all, and verification of a channel with no live
// record fails with a user-visible error instructing re-submission.
// This is a documented limitation, not a feature to preserve.
//
// The store has no eviction, no TTL, and no size bound. Record count is
// bounded by concurrently open ticket channels, a small number, so a
// plain mutex around the map is the whole concurrency story. Gateway
// events are dispatched on separate goroutines, so the mutex is load
// bearing even at tens of operations per hour.
package intake
